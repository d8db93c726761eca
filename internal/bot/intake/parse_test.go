package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "1", want: 1, wantOK: true},
		{input: "4", want: 4, wantOK: true},
		{input: " 12 ", want: 12, wantOK: true},
		{input: "0", wantOK: false},
		{input: "-3", wantOK: false},
		{input: "four", wantOK: false},
		{input: "1.5", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseQuantity(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input     string
		wantValue bool
		wantOK    bool
	}{
		{input: "yes", wantValue: true, wantOK: true},
		{input: "Y", wantValue: true, wantOK: true},
		{input: "YEAH", wantValue: true, wantOK: true},
		{input: " yep ", wantValue: true, wantOK: true},
		{input: "no", wantValue: false, wantOK: true},
		{input: "N", wantValue: false, wantOK: true},
		{input: "nope", wantValue: false, wantOK: true},
		{input: "maybe", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := ParseYesNo(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestIsSkip(t *testing.T) {
	assert.True(t, IsSkip("skip"))
	assert.True(t, IsSkip("NONE"))
	assert.True(t, IsSkip(" - "))
	assert.False(t, IsSkip("cracked glass, back also scratched"))
	assert.False(t, IsSkip(""))
}
