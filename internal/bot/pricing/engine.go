package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// Engine computes monetary totals for jobs. All arithmetic stays decimal;
// rounding to two places happens only when formatting a reply.
type Engine struct {
	laborRate decimal.Decimal
}

// NewEngine creates a pricing engine with the shop's flat per-job labor
// charge.
func NewEngine(laborRate decimal.Decimal) *Engine {
	return &Engine{laborRate: laborRate}
}

// LaborRate returns the flat per-job labor charge.
func (e *Engine) LaborRate() decimal.Decimal {
	return e.laborRate
}

// LineTotal computes qty × unit price, plus the cable add-on applied at
// most once per job regardless of quantity.
func LineTotal(entry domain.PriceEntry, qty int, includeCable bool) decimal.Decimal {
	total := entry.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	if includeCable {
		total = total.Add(entry.CableAdder)
	}
	return total
}

// JobTotal is the line total plus the flat labor charge, applied once per
// job.
func (e *Engine) JobTotal(entry domain.PriceEntry, qty int, includeCable bool) decimal.Decimal {
	return LineTotal(entry, qty, includeCable).Add(e.laborRate)
}

// Breakdown is a fully itemized job total, used to format /total replies
// and intake completion summaries.
type Breakdown struct {
	Model        string
	Qty          int
	IncludeCable bool
	UnitPrice    decimal.Decimal
	CableAdder   decimal.Decimal
	LineTotal    decimal.Decimal
	Labor        decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Breakdown itemizes the total for one job.
func (e *Engine) Breakdown(entry domain.PriceEntry, qty int, includeCable bool) Breakdown {
	line := LineTotal(entry, qty, includeCable)
	adder := decimal.Zero
	if includeCable {
		adder = entry.CableAdder
	}
	return Breakdown{
		Model:        entry.Model,
		Qty:          qty,
		IncludeCable: includeCable,
		UnitPrice:    entry.UnitPrice,
		CableAdder:   adder,
		LineTotal:    line,
		Labor:        e.laborRate,
		GrandTotal:   line.Add(e.laborRate),
	}
}

// FormatMoney renders an amount as a dollar string with two decimals. This
// is the only place totals get rounded.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
