package domain

import "strings"

// Metric identifies the single aggregated quantity a request computes.
type Metric string

// Known metrics.
const (
	MetricRevenue               Metric = "faturamento_total"
	MetricAverageTicket         Metric = "ticket_medio"
	MetricOrders                Metric = "total_pedidos"
	MetricCancelledOrders       Metric = "total_pedidos_cancelados"
	MetricCancellationRate      Metric = "taxa_cancelamento"
	MetricItemsSold             Metric = "total_itens_vendidos"
	MetricDiscounts             Metric = "total_descontos"
	MetricDeliveryFees          Metric = "total_taxa_entrega"
	MetricAvgPreparationMinutes Metric = "tempo_preparo_medio_min"
	MetricAvgDeliveryMinutes    Metric = "tempo_entrega_medio_min"
	MetricAddOnRevenue          Metric = "faturamento_adicionais"
	MetricUniqueCustomers       Metric = "total_clientes_unicos"
)

// Dimension identifies a grouping, filtering and ordering axis.
type Dimension string

// Known dimensions.
const (
	DimStoreName        Dimension = "loja_nome"
	DimStoreCity        Dimension = "cidade_loja"
	DimStoreDistrict    Dimension = "bairro_loja"
	DimStoreState       Dimension = "estado_loja"
	DimBrandName        Dimension = "marca_nome"
	DimSubBrandName     Dimension = "sub_marca_nome"
	DimChannelName      Dimension = "canal_nome"
	DimChannelType      Dimension = "tipo_canal"
	DimSaleStatus       Dimension = "status_venda"
	DimSaleOrigin       Dimension = "origem_venda"
	DimProductName      Dimension = "produto_nome"
	DimProductCategory  Dimension = "produto_categoria"
	DimAddOnItemName    Dimension = "item_adicional_nome"
	DimOptionGroupName  Dimension = "grupo_opcao_nome"
	DimPaymentType      Dimension = "tipo_pagamento"
	DimDeliveryDistrict Dimension = "bairro_entrega"
	DimDeliveryCity     Dimension = "cidade_entrega"
	DimCourierType      Dimension = "tipo_entregador"
	DimDeliveryType     Dimension = "tipo_entrega"
	DimDay              Dimension = "dia"
	DimWeekday          Dimension = "dia_semana"
	DimMonth            Dimension = "mes"
	DimHourOfDay        Dimension = "hora_dia"
	DimCreatedAt        Dimension = "data"
)

// KnownMetrics returns every metric identifier in declaration order.
func KnownMetrics() []Metric {
	return []Metric{
		MetricRevenue, MetricAverageTicket, MetricOrders, MetricCancelledOrders,
		MetricCancellationRate, MetricItemsSold, MetricDiscounts, MetricDeliveryFees,
		MetricAvgPreparationMinutes, MetricAvgDeliveryMinutes, MetricAddOnRevenue,
		MetricUniqueCustomers,
	}
}

// KnownDimensions returns every dimension identifier in declaration order.
func KnownDimensions() []Dimension {
	return []Dimension{
		DimStoreName, DimStoreCity, DimStoreDistrict, DimStoreState, DimBrandName,
		DimSubBrandName, DimChannelName, DimChannelType, DimSaleStatus, DimSaleOrigin,
		DimProductName, DimProductCategory, DimAddOnItemName, DimOptionGroupName,
		DimPaymentType, DimDeliveryDistrict, DimDeliveryCity, DimCourierType,
		DimDeliveryType, DimDay, DimWeekday, DimMonth, DimHourOfDay, DimCreatedAt,
	}
}

// Operator is a filter comparison operator.
type Operator string

// Filter operators.
const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNotIn   Operator = "not_in"
	OpLike    Operator = "like"
	OpBetween Operator = "between"
)

// SortOrder is the ORDER BY direction.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

const (
	// OrderByMetric is the ordenar_por token that selects the metric column.
	// It is also the metric's column alias in the generated SELECT.
	OrderByMetric = "metrica"

	// DefaultLimit applies when a request does not set limite.
	DefaultLimit = 100
)

// ParseSortOrder maps a case-insensitive direction to a SortOrder.
// An empty string yields the default, DESC.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SortDesc, true
	case string(SortAsc):
		return SortAsc, true
	case string(SortDesc):
		return SortDesc, true
	default:
		return "", false
	}
}

// Filter restricts the aggregated rows: Field compared to Value with Operator.
type Filter struct {
	Field    Dimension   `json:"campo" yaml:"campo"`
	Operator Operator    `json:"operador" yaml:"operador"`
	Value    interface{} `json:"valor" yaml:"valor"`
}

// AnalyticsRequest is the caller-supplied aggregation request.
type AnalyticsRequest struct {
	Metric     Metric      `json:"metrica" yaml:"metrica"`
	Dimensions []Dimension `json:"dimensoes" yaml:"dimensoes"`
	Filters    []Filter    `json:"filtros,omitempty" yaml:"filtros,omitempty"`
	OrderBy    string      `json:"ordenar_por,omitempty" yaml:"ordenar_por,omitempty"`
	Order      SortOrder   `json:"ordem,omitempty" yaml:"ordem,omitempty"`
	Limit      *int        `json:"limite,omitempty" yaml:"limite,omitempty"` // nil = DefaultLimit
}

// JoinKind is the SQL join keyword used for a relation.
type JoinKind string

// Join kinds.
const (
	JoinInner JoinKind = "INNER JOIN"
	JoinLeft  JoinKind = "LEFT JOIN"
)

// JoinStep is one entry of a compiled join chain.
type JoinStep struct {
	Table string   `json:"table"`
	From  string   `json:"from"`
	On    string   `json:"on"`
	Kind  JoinKind `json:"kind"`
}

// SelectedDimension pairs a requested dimension with its SQL expression.
type SelectedDimension struct {
	ID   Dimension `json:"id"`
	Expr string    `json:"expr"`
}

// CompiledQuery is the parameterized aggregation query produced for a request.
// SQL and Args are ready to hand to an executor; the other fields describe the
// same query clause by clause.
type CompiledQuery struct {
	Metric     Metric              `json:"metric"`
	MetricExpr string              `json:"metric_expr"`
	Dimensions []SelectedDimension `json:"dimensions"`
	Joins      []JoinStep          `json:"joins"`
	Where      string              `json:"where,omitempty"`
	WhereArgs  []interface{}       `json:"where_args,omitempty"`
	GroupBy    []string            `json:"group_by"`
	OrderBy    string              `json:"order_by"`
	Order      SortOrder           `json:"order"`
	Limit      int                 `json:"limit"`
	SQL        string              `json:"sql"`
	Args       []interface{}       `json:"args"`
}

// JoinedTables returns the tables of the join chain in join order.
func (q *CompiledQuery) JoinedTables() []string {
	tables := make([]string, len(q.Joins))
	for i, j := range q.Joins {
		tables[i] = j.Table
	}
	return tables
}
