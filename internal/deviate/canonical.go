package deviate

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"math"
	"strconv"
	"unicode/utf8"
)

// Canonical renders one salt element as text. The rendering is part of the
// hash contract and must never change.
func Canonical(v any) (string, error) {
	switch t := v.(type) {
	case string:
		if !utf8.ValidString(t) {
			return "", fmt.Errorf("%w: invalid utf-8 string %q", model.ErrEncoding, t)
		}
		return t, nil
	case []byte:
		if !utf8.Valid(t) {
			return "", fmt.Errorf("%w: invalid utf-8 bytes", model.ErrEncoding)
		}
		return string(t), nil
	case bool:
		if t {
			return "1", nil
		}
		return "", nil
	case int:
		return strconv.FormatInt(int64(t), 10), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case fmt.Stringer:
		return Canonical(t.String())
	case nil:
		return "", fmt.Errorf("%w: nil", model.ErrEncoding)
	default:
		return "", fmt.Errorf("%w: unsupported type %T", model.ErrEncoding, v)
	}
}

// formatFloat renders the shortest decimal without exponent: 0.1, 1, 0.
func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: non-finite float %v", model.ErrEncoding, f)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize), nil
}
