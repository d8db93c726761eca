// Package command recognizes leading slash-commands in inbound messages.
// Commands always take precedence over intake parsing; anything that does
// not match a known command falls through to the conversation flow.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies a parsed command.
type Kind int

const (
	KindHelp Kind = iota + 1
	KindNew
	KindAssign
	KindTotal
	KindStatus
	KindTz
	KindPrice
	KindSetPrice
	KindCancel
)

// Command is one parsed slash-command with its arguments. Only the fields
// relevant to the Kind are set.
type Command struct {
	Kind       Kind
	JobID      int64
	TechName   string
	NewStatus  string
	Zone       string
	Model      string
	UnitPrice  decimal.Decimal
	CableAdder decimal.Decimal
}

var (
	reHelp     = regexp.MustCompile(`(?i)^/help$`)
	reNew      = regexp.MustCompile(`(?i)^/new$`)
	reAssign   = regexp.MustCompile(`(?i)^/assign\s+(\d+)\s+(.+)$`)
	reTotal    = regexp.MustCompile(`(?i)^/total\s+(\d+)$`)
	reStatus   = regexp.MustCompile(`(?i)^/status\s+(\d+)(?:\s+([a-z_]+))?$`)
	reTz       = regexp.MustCompile(`(?i)^/tz\s+(\S+)$`)
	rePrice    = regexp.MustCompile(`(?i)^/price\s+(.+)$`)
	reSetPrice = regexp.MustCompile(`(?i)^/setprice\s+(.+?)\s+(\d+(?:\.\d+)?)\s*(?:\+(\d+(?:\.\d+)?))?$`)
	reCancel   = regexp.MustCompile(`(?i)^/cancel$`)
)

// Parse recognizes a slash-command in the message body. It returns false
// when the body is not a known command, in which case the message belongs
// to the intake flow.
func Parse(body string) (Command, bool) {
	body = strings.TrimSpace(body)

	switch {
	case reHelp.MatchString(body):
		return Command{Kind: KindHelp}, true

	case reNew.MatchString(body):
		return Command{Kind: KindNew}, true

	case reCancel.MatchString(body):
		return Command{Kind: KindCancel}, true

	case reAssign.MatchString(body):
		m := reAssign.FindStringSubmatch(body)
		return Command{Kind: KindAssign, JobID: mustInt64(m[1]), TechName: strings.TrimSpace(m[2])}, true

	case reTotal.MatchString(body):
		m := reTotal.FindStringSubmatch(body)
		return Command{Kind: KindTotal, JobID: mustInt64(m[1])}, true

	case reStatus.MatchString(body):
		m := reStatus.FindStringSubmatch(body)
		return Command{Kind: KindStatus, JobID: mustInt64(m[1]), NewStatus: strings.ToLower(m[2])}, true

	case reTz.MatchString(body):
		m := reTz.FindStringSubmatch(body)
		return Command{Kind: KindTz, Zone: m[1]}, true

	case reSetPrice.MatchString(body):
		m := reSetPrice.FindStringSubmatch(body)
		cmd := Command{Kind: KindSetPrice, Model: strings.TrimSpace(m[1])}
		cmd.UnitPrice, _ = decimal.NewFromString(m[2])
		if m[3] != "" {
			cmd.CableAdder, _ = decimal.NewFromString(m[3])
		}
		return cmd, true

	case rePrice.MatchString(body):
		m := rePrice.FindStringSubmatch(body)
		return Command{Kind: KindPrice, Model: strings.TrimSpace(m[1])}, true
	}

	return Command{}, false
}

// mustInt64 converts a digits-only regexp capture. The pattern guarantees
// the input parses.
func mustInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
