package analytics

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cast"

	"sales-analytics/internal/domain"
)

// dateLayouts are the accepted string forms of date and timestamp filter values.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// predicate builds the WHERE predicate for one filter against its resolved
// dimension. The returned Sqlizer only ever carries values as bound arguments.
func predicate(idx int, f domain.Filter, dim DimensionDef) (sq.Sqlizer, error) {
	field := fmt.Sprintf("filtros[%d]", idx)
	expr := dim.Expr.SQL

	invalid := func(format string, args ...interface{}) error {
		return domain.ErrValidation(domain.CodeInvalidFilterValue, field,
			"%s %s: %s", f.Field, f.Operator, fmt.Sprintf(format, args...))
	}

	switch f.Operator {
	case domain.OpEq, domain.OpNeq, domain.OpGt, domain.OpGte, domain.OpLt, domain.OpLte, domain.OpLike:
		if _, isList := asList(f.Value); isList {
			return nil, invalid("expects a single value, got a list")
		}
		if f.Operator == domain.OpLike && dim.Type != TypeText {
			return nil, invalid("like applies to text fields only, %s is %s", f.Field, dim.Type)
		}
		if isRange(f.Operator) && !dim.Type.Ordered() {
			return nil, invalid("comparison applies to numeric and date fields only, %s is %s", f.Field, dim.Type)
		}
		v, err := coerce(f.Value, dim.Type)
		if err != nil {
			return nil, invalid("%v", err)
		}
		switch f.Operator {
		case domain.OpEq:
			return sq.Eq{expr: v}, nil
		case domain.OpNeq:
			return sq.NotEq{expr: v}, nil
		case domain.OpGt:
			return sq.Gt{expr: v}, nil
		case domain.OpGte:
			return sq.GtOrEq{expr: v}, nil
		case domain.OpLt:
			return sq.Lt{expr: v}, nil
		case domain.OpLte:
			return sq.LtOrEq{expr: v}, nil
		default:
			return sq.Like{expr: "%" + v.(string) + "%"}, nil
		}

	case domain.OpIn, domain.OpNotIn:
		list, isList := asList(f.Value)
		if !isList {
			return nil, invalid("expects a list of values")
		}
		if len(list) == 0 {
			return nil, invalid("expects at least one value")
		}
		values, err := coerceAll(list, dim.Type)
		if err != nil {
			return nil, invalid("%v", err)
		}
		if f.Operator == domain.OpIn {
			return sq.Eq{expr: values}, nil
		}
		return sq.NotEq{expr: values}, nil

	case domain.OpBetween:
		if !dim.Type.Ordered() {
			return nil, invalid("between applies to numeric and date fields only, %s is %s", f.Field, dim.Type)
		}
		list, isList := asList(f.Value)
		if !isList || len(list) != 2 {
			return nil, invalid("expects exactly two values")
		}
		bounds, err := coerceAll(list, dim.Type)
		if err != nil {
			return nil, invalid("%v", err)
		}
		return sq.Expr(expr+" BETWEEN ? AND ?", bounds[0], bounds[1]), nil

	default:
		return nil, domain.ErrValidation(domain.CodeInvalidFilterValue, field, "unknown operator %q", f.Operator)
	}
}

func isRange(op domain.Operator) bool {
	switch op {
	case domain.OpGt, domain.OpGte, domain.OpLt, domain.OpLte:
		return true
	default:
		return false
	}
}

// asList reports whether v is a list value and returns its elements.
func asList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []interface{}:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func coerceAll(values []interface{}, typ ColumnType) ([]interface{}, error) {
	out := make([]interface{}, len(values))
	for i, v := range values {
		if _, isList := asList(v); isList {
			return nil, fmt.Errorf("value %d is a list, expected a scalar", i)
		}
		c, err := coerce(v, typ)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// coerce converts a scalar request value to the Go type bound for typ.
func coerce(v interface{}, typ ColumnType) (interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("null is not accepted")
	}
	if _, isMap := v.(map[string]interface{}); isMap {
		return nil, fmt.Errorf("expected a scalar, got an object")
	}

	switch typ {
	case TypeText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return s, nil

	case TypeNumeric:
		if _, ok := v.(bool); ok {
			return nil, fmt.Errorf("expected a number, got a boolean")
		}
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %v", v)
		}
		return n, nil

	case TypeDate, TypeTimestamp:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			return parseTime(strings.TrimSpace(t))
		default:
			return nil, fmt.Errorf("expected a date string, got %T", v)
		}

	default:
		return nil, fmt.Errorf("unsupported column type %q", typ)
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date (want YYYY-MM-DD or RFC 3339)", s)
}
