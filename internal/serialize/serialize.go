// Package serialize turns analytics results into plain JSON-native values
// (map[string]any, []any, string, float64, int64, bool, nil).
package serialize

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

var (
	dateType        = reflect.TypeOf(trade.Date{})
	clockType       = reflect.TypeOf(trade.Clock{})
	timeType        = reflect.TypeOf(time.Time{})
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// Value converts v recursively. Dates become "YYYY-MM-DD", clocks
// "HH:MM:SS", decimals float64 and structs maps keyed by their json tag.
func Value(v any) any {
	if v == nil {
		return nil
	}
	return value(reflect.ValueOf(v))
}

func value(rv reflect.Value) any {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case dateType:
		return rv.Interface().(trade.Date).String()
	case clockType:
		return rv.Interface().(trade.Clock).String()
	case timeType:
		return rv.Interface().(time.Time).Format(trade.DateLayout)
	case decimalType:
		return rv.Interface().(decimal.Decimal).InexactFloat64()
	case nullDecimalType:
		nd := rv.Interface().(decimal.NullDecimal)
		if !nd.Valid {
			return nil
		}
		return nd.Decimal.InexactFloat64()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = value(iter.Value())
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = value(rv.Index(i))
		}
		return out
	case reflect.Struct:
		return structValue(rv)
	default:
		return rv.Interface()
	}
}

func structValue(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = value(fv)
	}
	return out
}

func jsonName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func mapKey(k reflect.Value) string {
	if s, ok := value(k).(string); ok {
		return s
	}
	return fmt.Sprint(value(k))
}
