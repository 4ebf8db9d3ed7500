package types

import "strconv"

// Number is the language's only numeric type: an IEEE-754 double.
type Number float64

var _ Value = Number(0)

func (Number) Type() string { return "number" }

// String prints n without a trailing ".0" when it is integral.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
