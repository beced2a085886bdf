package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sales-analytics/internal/domain"
)

// Service is the entry point for compiling analytics requests.
type Service struct {
	compiler    *Compiler
	concurrency int
	logger      *slog.Logger
}

// NewService creates a new analytics Service. concurrency bounds ExplainBatch;
// zero or less means GOMAXPROCS.
func NewService(compiler *Compiler, concurrency int, logger *slog.Logger) *Service {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{compiler: compiler, concurrency: concurrency, logger: logger}
}

// Explain compiles a single request.
func (s *Service) Explain(ctx context.Context, req domain.AnalyticsRequest) (*domain.CompiledQuery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := s.compiler.Compile(req)
	if err != nil {
		s.logger.DebugContext(ctx, "analytics request rejected",
			"metric", req.Metric, "code", domain.ValidationCode(err), "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "analytics request compiled",
		"metric", q.Metric,
		"dimensions", len(q.Dimensions),
		"filters", len(req.Filters),
		"joins", len(q.Joins))
	return q, nil
}

// ExplainBatch compiles reqs concurrently. Results keep the order of reqs.
// The first failure cancels the remaining work and is returned annotated with
// the index of the request that caused it.
func (s *Service) ExplainBatch(ctx context.Context, reqs []domain.AnalyticsRequest) ([]*domain.CompiledQuery, error) {
	out := make([]*domain.CompiledQuery, len(reqs))
	batchID := uuid.New().String()
	s.logger.DebugContext(ctx, "analytics batch started", "batch_id", batchID, "requests", len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range reqs {
		g.Go(func() error {
			q, err := s.Explain(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			out[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.DebugContext(ctx, "analytics batch failed", "batch_id", batchID, "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "analytics batch compiled", "batch_id", batchID, "requests", len(reqs))
	return out, nil
}

// MetricInfo describes a metric for discovery.
type MetricInfo struct {
	ID          domain.Metric `json:"id"`
	Expression  string        `json:"expression"`
	Tables      []string      `json:"tables"`
	Description string        `json:"description,omitempty"`
}

// DimensionInfo describes a dimension for discovery.
type DimensionInfo struct {
	ID         domain.Dimension `json:"id"`
	Expression string           `json:"expression"`
	Type       ColumnType       `json:"type"`
	Tables     []string         `json:"tables"`
}

// Vocabulary lists every metric and dimension the service accepts.
type Vocabulary struct {
	Metrics    []MetricInfo    `json:"metrics"`
	Dimensions []DimensionInfo `json:"dimensions"`
}

// Vocabulary returns the accepted metrics and dimensions in registration order.
func (s *Service) Vocabulary() Vocabulary {
	reg := s.compiler.Registry()
	var v Vocabulary
	for _, m := range reg.Metrics() {
		v.Metrics = append(v.Metrics, MetricInfo{
			ID:          m.ID,
			Expression:  m.Expr.SQL,
			Tables:      tableNames(m.Expr),
			Description: m.Description,
		})
	}
	for _, d := range reg.Dimensions() {
		v.Dimensions = append(v.Dimensions, DimensionInfo{
			ID:         d.ID,
			Expression: d.Expr.SQL,
			Type:       d.Type,
			Tables:     tableNames(d.Expr),
		})
	}
	return v
}

func tableNames(e Expr) []string {
	tables := e.Tables()
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = string(t)
	}
	return out
}
