package present

import (
	"fmt"
	"math"
	"strconv"
)

// MarketCap abbreviates a USD value with T/B/M suffixes at two
// decimals; below one million it renders a plain grouped number.
func MarketCap(value float64) string {
	switch {
	case value >= 1e12:
		return fmt.Sprintf("$%.2fT", value/1e12)
	case value >= 1e9:
		return fmt.Sprintf("$%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("$%.2fM", value/1e6)
	default:
		return "$" + groupThousands(int64(math.Round(value)))
	}
}

// Price formats a USD price: whole dollars above 1000, two decimals
// down to a dollar, six decimals for sub-dollar assets.
func Price(price float64) string {
	switch {
	case price >= 1000:
		return "$" + groupThousands(int64(math.Round(price)))
	case price >= 1:
		return fmt.Sprintf("$%.2f", price)
	default:
		return fmt.Sprintf("$%.6f", price)
	}
}

// ChangePct formats a signed 24h percentage move at two decimals.
func ChangePct(pct float64) string {
	sign := "+"
	if pct < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.2f%%", sign, math.Abs(pct))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := false
	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}

	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}

	if negative {
		return "-" + s
	}
	return s
}
