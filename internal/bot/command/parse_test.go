package command

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Command
	}{
		{name: "help", body: "/help", want: Command{Kind: KindHelp}},
		{name: "help uppercase", body: "/HELP", want: Command{Kind: KindHelp}},
		{name: "new", body: "/new", want: Command{Kind: KindNew}},
		{name: "cancel", body: "/cancel", want: Command{Kind: KindCancel}},
		{name: "assign", body: "/assign 12 Omar", want: Command{Kind: KindAssign, JobID: 12, TechName: "Omar"}},
		{name: "assign multiword name", body: "/assign 3 Tech A", want: Command{Kind: KindAssign, JobID: 3, TechName: "Tech A"}},
		{name: "total", body: "/total 5", want: Command{Kind: KindTotal, JobID: 5}},
		{name: "status query", body: "/status 9", want: Command{Kind: KindStatus, JobID: 9}},
		{name: "status change", body: "/status 9 done", want: Command{Kind: KindStatus, JobID: 9, NewStatus: "done"}},
		{name: "status change uppercase value", body: "/status 9 DONE", want: Command{Kind: KindStatus, JobID: 9, NewStatus: "done"}},
		{name: "tz zone", body: "/tz Asia/Dubai", want: Command{Kind: KindTz, Zone: "Asia/Dubai"}},
		{name: "tz city", body: "/tz dubai", want: Command{Kind: KindTz, Zone: "dubai"}},
		{name: "price", body: "/price 14 pro", want: Command{Kind: KindPrice, Model: "14 pro"}},
		{name: "leading whitespace", body: "  /total 5 ", want: Command{Kind: KindTotal, JobID: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.body)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_SetPrice(t *testing.T) {
	cmd, ok := Parse("/setprice 14pro 170 +10")
	require.True(t, ok)
	assert.Equal(t, KindSetPrice, cmd.Kind)
	assert.Equal(t, "14pro", cmd.Model)
	assert.True(t, cmd.UnitPrice.Equal(decimal.RequireFromString("170")))
	assert.True(t, cmd.CableAdder.Equal(decimal.RequireFromString("10")))

	cmd, ok = Parse("/setprice 15 pro max 249.99")
	require.True(t, ok)
	assert.Equal(t, "15 pro max", cmd.Model)
	assert.True(t, cmd.UnitPrice.Equal(decimal.RequireFromString("249.99")))
	assert.True(t, cmd.CableAdder.IsZero())
}

func TestParse_NotACommand(t *testing.T) {
	for _, body := range []string{
		"",
		"14 pro",
		"hello",
		"/assign",            // missing arguments
		"/assign twelve Bob", // non-numeric job id
		"/total",             // missing job id
		"/status",            // missing job id
		"/frobnicate 1",      // unknown verb
	} {
		_, ok := Parse(body)
		assert.False(t, ok, "body %q should not parse as a command", body)
	}
}
