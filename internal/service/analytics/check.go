package analytics

import (
	"fmt"
	"strings"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/schema"
)

// CheckConsistency verifies that every known metric and dimension has exactly
// one binding, that no binding exists for an unknown identifier, and that every
// expression is well formed and reachable from the graph root. All problems are
// reported together in one *domain.ConfigurationError.
func CheckConsistency(graph *schema.Graph, metrics []MetricDef, dimensions []DimensionDef) error {
	if graph == nil {
		return domain.ErrConfiguration("schema graph is required")
	}

	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	checkExpr := func(kind, id string, e Expr) {
		if err := e.validate(); err != nil {
			addf("%s %q: %v", kind, id, err)
			return
		}
		for _, t := range e.Tables() {
			if _, err := graph.Path(t); err != nil {
				addf("%s %q: table %q has no join path from %q", kind, id, t, graph.Root())
			}
		}
	}

	knownMetrics := make(map[domain.Metric]bool)
	for _, m := range domain.KnownMetrics() {
		knownMetrics[m] = true
	}
	boundMetrics := make(map[domain.Metric]int)
	for _, m := range metrics {
		boundMetrics[m.ID]++
		if !knownMetrics[m.ID] {
			addf("metric %q is bound but not a known metric", m.ID)
		}
		checkExpr("metric", string(m.ID), m.Expr)
	}
	for _, id := range domain.KnownMetrics() {
		switch n := boundMetrics[id]; {
		case n == 0:
			addf("metric %q has no binding", id)
		case n > 1:
			addf("metric %q is bound %d times", id, n)
		}
	}

	knownDims := make(map[domain.Dimension]bool)
	for _, d := range domain.KnownDimensions() {
		knownDims[d] = true
	}
	boundDims := make(map[domain.Dimension]int)
	for _, d := range dimensions {
		boundDims[d.ID]++
		if !knownDims[d.ID] {
			addf("dimension %q is bound but not a known dimension", d.ID)
		}
		// Dimension ids are emitted as column aliases.
		if err := schema.ValidateIdentifier(string(d.ID)); err != nil {
			addf("dimension %q: alias: %v", d.ID, err)
		}
		if string(d.ID) == domain.OrderByMetric {
			addf("dimension %q collides with the metric alias", d.ID)
		}
		switch d.Type {
		case TypeText, TypeNumeric, TypeDate, TypeTimestamp:
		default:
			addf("dimension %q: unknown column type %q", d.ID, d.Type)
		}
		checkExpr("dimension", string(d.ID), d.Expr)
	}
	for _, id := range domain.KnownDimensions() {
		switch n := boundDims[id]; {
		case n == 0:
			addf("dimension %q has no binding", id)
		case n > 1:
			addf("dimension %q is bound %d times", id, n)
		}
	}

	if len(problems) > 0 {
		return domain.ErrConfiguration("vocabulary does not match schema: %s", strings.Join(problems, "; "))
	}
	return nil
}
