package delivery

import (
	"fmt"
	"strconv"
	"strings"

	"marketplace/internal/pkg/errs"
)

const numberPrefix = "DEL-"

// Number is the human-readable delivery number, DEL-0001 onwards.
type Number struct {
	value int64
}

func NewNumber(value int64) (Number, error) {
	if value < 1 {
		return Number{}, errs.NewValueIsOutOfRangeError("delivery number", value, 1, "unbounded")
	}
	return Number{value: value}, nil
}

func ParseNumber(s string) (Number, error) {
	raw, ok := strings.CutPrefix(s, numberPrefix)
	if !ok {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("delivery number", fmt.Errorf("%q has no %s prefix", s, numberPrefix))
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("delivery number", err)
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
	return fmt.Sprintf("%s%04d", numberPrefix, n.value)
}
