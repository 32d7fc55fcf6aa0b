package cache

import (
	"fmt"
	"strconv"
)

// PropertyKind enumerates the value kinds the builder's property coercion
// supports. Anything else fails with a PropertyError.
type PropertyKind int

const (
	KindString PropertyKind = iota
	KindInt
	KindInt64
	KindInt16
	KindInt8
	KindFloat32
	KindFloat64
	KindBool
)

func (k PropertyKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindInt16:
		return "int16"
	case KindInt8:
		return "int8"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "unsupported"
	}
}

// coerceProperty parses a raw property value into its declared kind.
func coerceProperty(name, value string, kind PropertyKind) (any, error) {
	fail := func(err error) (any, error) {
		return nil, &PropertyError{Name: name, Kind: kind.String(), Err: err}
	}

	switch kind {
	case KindString:
		return value, nil
	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(err)
		}
		return n, nil
	case KindInt64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fail(err)
		}
		return n, nil
	case KindInt16:
		n, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return fail(err)
		}
		return int16(n), nil
	case KindInt8:
		n, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return fail(err)
		}
		return int8(n), nil
	case KindFloat32:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fail(err)
		}
		return float32(f), nil
	case KindFloat64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fail(err)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fail(err)
		}
		return b, nil
	default:
		return fail(fmt.Errorf("unsupported property kind"))
	}
}

// intProperty looks up name in props and parses it as an int. The second
// return reports whether the property was present.
func intProperty(props map[string]string, name string) (int, bool, error) {
	raw, ok := props[name]
	if !ok {
		return 0, false, nil
	}
	v, err := coerceProperty(name, raw, KindInt)
	if err != nil {
		return 0, false, err
	}
	return v.(int), true, nil
}

// int64Property looks up name in props and parses it as an int64.
func int64Property(props map[string]string, name string) (int64, bool, error) {
	raw, ok := props[name]
	if !ok {
		return 0, false, nil
	}
	v, err := coerceProperty(name, raw, KindInt64)
	if err != nil {
		return 0, false, err
	}
	return v.(int64), true, nil
}
