package analytics

import (
	"sales-analytics/internal/domain"
	"sales-analytics/internal/schema"
)

// JoinResolver computes the join chain that makes a set of fields readable
// from the sales table.
type JoinResolver struct {
	reg *Registry
}

// NewJoinResolver creates a JoinResolver over the registry's graph.
func NewJoinResolver(reg *Registry) *JoinResolver {
	return &JoinResolver{reg: reg}
}

// Resolve returns the deduplicated join chain covering every table read by
// fields and metric. The result depends only on the set of tables involved.
func (r *JoinResolver) Resolve(fields []domain.Dimension, metric domain.Metric) ([]domain.JoinStep, error) {
	var tables []schema.Table

	m, err := r.reg.ResolveMetric(metric)
	if err != nil {
		return nil, err
	}
	tables = append(tables, m.Tables()...)

	for _, f := range fields {
		d, err := r.reg.ResolveDimension(f)
		if err != nil {
			return nil, err
		}
		tables = append(tables, d.Tables()...)
	}
	return r.reg.Graph().JoinChain(tables...)
}
