package analytics

import (
	"fmt"
	"strings"

	"sales-analytics/internal/schema"
)

// ColumnType is the value type of a dimension expression.
type ColumnType string

// Column types.
const (
	TypeText      ColumnType = "text"
	TypeNumeric   ColumnType = "numeric"
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
)

// Ordered reports whether range operators apply to values of this type.
func (t ColumnType) Ordered() bool {
	switch t {
	case TypeNumeric, TypeDate, TypeTimestamp:
		return true
	default:
		return false
	}
}

// Expr is a SQL expression together with the columns it reads. Columns are
// the single source for both the rendered text and the owning tables.
type Expr struct {
	SQL     string
	Columns []schema.Column
}

// exprf renders format with one %s verb per column.
func exprf(format string, cols ...schema.Column) Expr {
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		args[i] = c.String()
	}
	return Expr{SQL: fmt.Sprintf(format, args...), Columns: cols}
}

// column is the expression reading c unchanged.
func column(c schema.Column) Expr {
	return exprf("%s", c)
}

// Tables returns the distinct tables the expression reads, in first-use order.
func (e Expr) Tables() []schema.Table {
	seen := make(map[schema.Table]struct{}, len(e.Columns))
	out := make([]schema.Table, 0, len(e.Columns))
	for _, c := range e.Columns {
		if _, ok := seen[c.Table]; ok {
			continue
		}
		seen[c.Table] = struct{}{}
		out = append(out, c.Table)
	}
	return out
}

func (e Expr) String() string { return e.SQL }

// validate rejects empty expressions, statement separators and unsafe column
// identifiers.
func (e Expr) validate() error {
	if strings.TrimSpace(e.SQL) == "" {
		return fmt.Errorf("expression is empty")
	}
	if strings.Contains(e.SQL, ";") {
		return fmt.Errorf("expression %q contains ';'", e.SQL)
	}
	if strings.Contains(e.SQL, "%!") {
		return fmt.Errorf("expression %q has mismatched column arguments", e.SQL)
	}
	if len(e.Columns) == 0 {
		return fmt.Errorf("expression %q reads no column", e.SQL)
	}
	for _, c := range e.Columns {
		if err := schema.ValidateIdentifier(string(c.Table)); err != nil {
			return fmt.Errorf("table of %q: %w", e.SQL, err)
		}
		if err := schema.ValidateIdentifier(c.Name); err != nil {
			return fmt.Errorf("column of %q: %w", e.SQL, err)
		}
	}
	return nil
}
