package domain

import "github.com/shopspring/decimal"

// PriceEntry is one row of the price catalog: a unit price per screen and
// an optional cable add-on, keyed by normalized model.
type PriceEntry struct {
	ID         int64           `db:"id"`
	Model      string          `db:"model"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	CableAdder decimal.Decimal `db:"cable_adder"`
}
