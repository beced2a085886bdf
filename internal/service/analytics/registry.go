// Package analytics compiles declarative sales analytics requests into
// parameterized aggregation queries over the sales schema.
package analytics

import (
	"sales-analytics/internal/domain"
	"sales-analytics/internal/schema"
)

// MetricDef binds a metric to its aggregate expression.
type MetricDef struct {
	ID          domain.Metric
	Expr        Expr
	Description string
}

// Tables returns the tables the metric reads.
func (m MetricDef) Tables() []schema.Table { return m.Expr.Tables() }

// DimensionDef binds a dimension to its expression and value type.
type DimensionDef struct {
	ID   domain.Dimension
	Expr Expr
	Type ColumnType
}

// Tables returns the tables the dimension reads.
func (d DimensionDef) Tables() []schema.Table { return d.Expr.Tables() }

// Registry is the closed metric and dimension vocabulary bound to a schema
// graph. It is read-only after construction and safe for concurrent use.
type Registry struct {
	graph      *schema.Graph
	metrics    []MetricDef
	dimensions []DimensionDef
	metricByID map[domain.Metric]int
	dimByID    map[domain.Dimension]int
}

// NewRegistry checks the bindings against graph and the known identifiers and
// builds a Registry. Any mismatch is a *domain.ConfigurationError.
func NewRegistry(graph *schema.Graph, metrics []MetricDef, dimensions []DimensionDef) (*Registry, error) {
	if err := CheckConsistency(graph, metrics, dimensions); err != nil {
		return nil, err
	}

	r := &Registry{
		graph:      graph,
		metrics:    append([]MetricDef(nil), metrics...),
		dimensions: append([]DimensionDef(nil), dimensions...),
		metricByID: make(map[domain.Metric]int, len(metrics)),
		dimByID:    make(map[domain.Dimension]int, len(dimensions)),
	}
	for i, m := range r.metrics {
		r.metricByID[m.ID] = i
	}
	for i, d := range r.dimensions {
		r.dimByID[d.ID] = i
	}
	return r, nil
}

// NewDefaultRegistry builds the registry for the sales schema.
func NewDefaultRegistry() (*Registry, error) {
	graph, err := schema.NewSalesGraph()
	if err != nil {
		return nil, err
	}
	return NewRegistry(graph, salesMetrics(), salesDimensions())
}

// Graph returns the schema graph the vocabulary is bound to.
func (r *Registry) Graph() *schema.Graph { return r.graph }

// ResolveMetric looks up a metric binding.
func (r *Registry) ResolveMetric(id domain.Metric) (MetricDef, error) {
	i, ok := r.metricByID[id]
	if !ok {
		return MetricDef{}, domain.ErrValidation(domain.CodeUnknownMetric, "metrica", "unknown metric %q", id)
	}
	return r.metrics[i], nil
}

// ResolveDimension looks up a dimension binding.
func (r *Registry) ResolveDimension(id domain.Dimension) (DimensionDef, error) {
	i, ok := r.dimByID[id]
	if !ok {
		return DimensionDef{}, domain.ErrValidation(domain.CodeUnknownDimension, "dimensoes", "unknown dimension %q", id)
	}
	return r.dimensions[i], nil
}

// Metrics returns the metric bindings in registration order.
func (r *Registry) Metrics() []MetricDef {
	return append([]MetricDef(nil), r.metrics...)
}

// Dimensions returns the dimension bindings in registration order.
func (r *Registry) Dimensions() []DimensionDef {
	return append([]DimensionDef(nil), r.dimensions...)
}
