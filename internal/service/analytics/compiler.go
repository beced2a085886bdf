package analytics

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"sales-analytics/internal/domain"
)

// CompilerOptions tune the generated SQL and request limits.
type CompilerOptions struct {
	// Placeholder is the bind variable format. Defaults to sq.Dollar.
	Placeholder sq.PlaceholderFormat
	// DefaultLimit applies when a request leaves limite unset. Defaults to
	// domain.DefaultLimit.
	DefaultLimit int
	// MaxLimit caps limite when positive.
	MaxLimit int
}

// PlaceholderFormat maps a placeholder style name ("dollar" or "question") to
// its squirrel format.
func PlaceholderFormat(name string) (sq.PlaceholderFormat, error) {
	switch strings.ToLower(name) {
	case "", "dollar":
		return sq.Dollar, nil
	case "question":
		return sq.Question, nil
	default:
		return nil, fmt.Errorf("unknown placeholder style %q", name)
	}
}

// Compiler turns AnalyticsRequests into CompiledQueries. It holds no mutable
// state and may be shared across goroutines.
type Compiler struct {
	reg      *Registry
	resolver *JoinResolver
	opts     CompilerOptions
}

// NewCompiler creates a Compiler over reg.
func NewCompiler(reg *Registry, opts CompilerOptions) *Compiler {
	if opts.Placeholder == nil {
		opts.Placeholder = sq.Dollar
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = domain.DefaultLimit
	}
	return &Compiler{reg: reg, resolver: NewJoinResolver(reg), opts: opts}
}

// Registry returns the vocabulary the compiler resolves against.
func (c *Compiler) Registry() *Registry { return c.reg }

// Compile validates req and compiles it into a parameterized aggregation query.
// On failure nothing is returned alongside the error. req is not modified.
func (c *Compiler) Compile(req domain.AnalyticsRequest) (*domain.CompiledQuery, error) {
	metric, err := c.reg.ResolveMetric(req.Metric)
	if err != nil {
		return nil, err
	}

	if len(req.Dimensions) == 0 {
		return nil, domain.ErrValidation(domain.CodeEmptyDimensions, "dimensoes", "at least one dimension is required")
	}
	dims := make([]DimensionDef, 0, len(req.Dimensions))
	selected := make(map[domain.Dimension]DimensionDef, len(req.Dimensions))
	for _, id := range req.Dimensions {
		d, err := c.reg.ResolveDimension(id)
		if err != nil {
			return nil, err
		}
		if _, dup := selected[id]; dup {
			return nil, domain.ErrValidation(domain.CodeDuplicateDimension, "dimensoes", "dimension %q is listed more than once", id)
		}
		selected[id] = d
		dims = append(dims, d)
	}

	fields := append([]domain.Dimension(nil), req.Dimensions...)
	preds := make([]sq.Sqlizer, 0, len(req.Filters))
	for i, f := range req.Filters {
		d, err := c.reg.ResolveDimension(f.Field)
		if err != nil {
			return nil, domain.ErrValidation(domain.CodeUnknownFilterField, fmt.Sprintf("filtros[%d].campo", i), "unknown filter field %q", f.Field)
		}
		p, err := predicate(i, f, d)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
		fields = append(fields, f.Field)
	}

	joins, err := c.resolver.Resolve(fields, metric.ID)
	if err != nil {
		return nil, err
	}

	orderBy := req.OrderBy
	if strings.TrimSpace(orderBy) == "" {
		orderBy = domain.OrderByMetric
	}
	var orderExpr string
	if orderBy == domain.OrderByMetric {
		orderExpr = metric.Expr.SQL
	} else {
		d, ok := selected[domain.Dimension(orderBy)]
		if !ok {
			return nil, domain.ErrValidation(domain.CodeInvalidOrderField, "ordenar_por",
				"%q is neither %q nor a selected dimension", orderBy, domain.OrderByMetric)
		}
		orderExpr = d.Expr.SQL
	}

	order, ok := domain.ParseSortOrder(string(req.Order))
	if !ok {
		return nil, domain.ErrValidation(domain.CodeInvalidOrderDirection, "ordem", "order must be ASC or DESC, got %q", req.Order)
	}

	limit := c.opts.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit <= 0 {
		return nil, domain.ErrValidation(domain.CodeInvalidLimit, "limite", "limit must be positive, got %d", limit)
	}
	if c.opts.MaxLimit > 0 && limit > c.opts.MaxLimit {
		return nil, domain.ErrValidation(domain.CodeInvalidLimit, "limite", "limit must be at most %d, got %d", c.opts.MaxLimit, limit)
	}

	where, whereArgs, err := conjunction(preds)
	if err != nil {
		return nil, fmt.Errorf("render filters: %w", err)
	}

	q := &domain.CompiledQuery{
		Metric:     metric.ID,
		MetricExpr: metric.Expr.SQL,
		Dimensions: make([]domain.SelectedDimension, len(dims)),
		Joins:      joins,
		WhereArgs:  whereArgs,
		GroupBy:    make([]string, len(dims)),
		OrderBy:    orderExpr,
		Order:      order,
		Limit:      limit,
	}

	columns := make([]string, 0, len(dims)+1)
	columns = append(columns, metric.Expr.SQL+" AS "+domain.OrderByMetric)
	for i, d := range dims {
		q.Dimensions[i] = domain.SelectedDimension{ID: d.ID, Expr: d.Expr.SQL}
		q.GroupBy[i] = d.Expr.SQL
		columns = append(columns, d.Expr.SQL+" AS "+string(d.ID))
	}

	builder := sq.Select(columns...).From(string(c.reg.Graph().Root()))
	for _, j := range joins {
		builder = builder.JoinClause(string(j.Kind) + " " + j.Table + " ON " + j.On)
	}
	if where != "" {
		builder = builder.Where(where, whereArgs...)
		q.Where, err = c.opts.Placeholder.ReplacePlaceholders(where)
		if err != nil {
			return nil, fmt.Errorf("render filters: %w", err)
		}
	}
	builder = builder.
		GroupBy(q.GroupBy...).
		OrderBy(orderExpr + " " + string(order)).
		Suffix("LIMIT ?", limit).
		PlaceholderFormat(c.opts.Placeholder)

	q.SQL, q.Args, err = builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}

// conjunction renders predicates joined by AND, with '?' placeholders.
func conjunction(preds []sq.Sqlizer) (string, []interface{}, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		s, a, err := p.ToSql()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, s)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args, nil
}
