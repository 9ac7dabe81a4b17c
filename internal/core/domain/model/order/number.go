package order

import (
	"fmt"
	"strconv"
	"strings"

	"marketplace/internal/pkg/errs"
)

const numberPrefix = "ORD-"

// FirstNumber is the sequence value of the very first order.
const FirstNumber int64 = 1001

// Number is the human-readable order number, ORD-<n>.
type Number struct {
	value int64
}

// NewNumber wraps a value allocated by the order number sequence.
func NewNumber(value int64) (Number, error) {
	if value < FirstNumber {
		return Number{}, errs.NewValueIsOutOfRangeError("order number", value, FirstNumber, "unbounded")
	}
	return Number{value: value}, nil
}

// ParseNumber reads the ORD-<n> form.
func ParseNumber(s string) (Number, error) {
	raw, ok := strings.CutPrefix(s, numberPrefix)
	if !ok {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q has no %s prefix", s, numberPrefix))
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", err)
	}
	return NewNumber(v)
}

func (n Number) Value() int64 {
	return n.value
}

func (n Number) IsZero() bool {
	return n.value == 0
}

func (n Number) String() string {
	return numberPrefix + strconv.FormatInt(n.value, 10)
}
