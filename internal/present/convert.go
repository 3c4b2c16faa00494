// Package present holds pure formatting and derivation helpers for the
// dashboard surfaces. Nothing here performs I/O or keeps state.
package present

import (
	"github.com/shopspring/decimal"

	"skydeck/internal/gateway"
)

var one = decimal.NewFromInt(1)

// Convert converts amount between two currency codes using the table:
// amount / rate(from) * rate(to). A code missing from the table (or a
// zero rate) falls back to 1.0, so conversion against an unknown code
// degrades to identity rather than failing.
func Convert(amount decimal.Decimal, from, to string, table *gateway.RateTable) decimal.Decimal {
	return amount.Div(rateOrOne(table, from)).Mul(rateOrOne(table, to))
}

func rateOrOne(table *gateway.RateTable, code string) decimal.Decimal {
	if table == nil {
		return one
	}
	rate, present := table.Rate(code)
	if !present || rate.IsZero() {
		return one
	}
	return rate
}

// CrossRate returns how many units of `to` one unit of `from` buys,
// with the same 1.0 fallback as Convert.
func CrossRate(from, to string, table *gateway.RateTable) decimal.Decimal {
	return rateOrOne(table, to).Div(rateOrOne(table, from))
}
