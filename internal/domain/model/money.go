package model

import "fmt"

// Money is a currency amount in minor units (cents). All settlement
// arithmetic and comparisons stay in integers.
type Money int64

// String renders the amount as a decimal with two fraction digits.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
