package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// IsMissing reports whether v is a missing value: nil or a floating NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// ToFloat64 casts a raw cell to float64. Missing values and blank strings
// become NaN. Strings are parsed and reported through parsed so callers can
// warn about the conversion. Anything else non-numeric is a ValueError.
func ToFloat64(v any) (f float64, parsed bool, err error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), false, nil
	case float64:
		return x, false, nil
	case float32:
		return float64(x), false, nil
	case int:
		return float64(x), false, nil
	case int8:
		return float64(x), false, nil
	case int16:
		return float64(x), false, nil
	case int32:
		return float64(x), false, nil
	case int64:
		return float64(x), false, nil
	case uint:
		return float64(x), false, nil
	case uint8:
		return float64(x), false, nil
	case uint16:
		return float64(x), false, nil
	case uint32:
		return float64(x), false, nil
	case uint64:
		return float64(x), false, nil
	case bool:
		if x {
			return 1, false, nil
		}
		return 0, false, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN(), true, nil
		}
		f, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return 0, false, errors.NewValueError("ToFloat64", fmt.Sprintf("could not convert string '%s' to float", x))
		}
		return f, true, nil
	default:
		return 0, false, errors.NewValueError("ToFloat64", fmt.Sprintf("could not convert %T value %v to float", v, v))
	}
}
