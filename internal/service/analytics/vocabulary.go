package analytics

import (
	"sales-analytics/internal/domain"
	"sales-analytics/internal/schema"
)

var (
	saleID          = schema.Col(schema.Sales, "id")
	saleStatus      = schema.Col(schema.Sales, "sale_status_desc")
	saleCreatedAt   = schema.Col(schema.Sales, "created_at")
	saleTotalAmount = schema.Col(schema.Sales, "total_amount")
)

const cancelledCount = "COUNT(CASE WHEN %s = 'CANCELLED' THEN %s END)"

// salesMetrics binds every known metric to its aggregate expression.
func salesMetrics() []MetricDef {
	return []MetricDef{
		{ID: domain.MetricRevenue, Expr: exprf("SUM(%s)", saleTotalAmount),
			Description: "Sum of sale totals"},
		{ID: domain.MetricAverageTicket, Expr: exprf("AVG(%s)", saleTotalAmount),
			Description: "Average sale total"},
		{ID: domain.MetricOrders, Expr: exprf("COUNT(%s)", saleID),
			Description: "Number of sales"},
		{ID: domain.MetricCancelledOrders, Expr: exprf(cancelledCount, saleStatus, saleID),
			Description: "Number of cancelled sales"},
		{ID: domain.MetricCancellationRate, Expr: exprf(cancelledCount+" * 100.0 / COUNT(%s)", saleStatus, saleID, saleID),
			Description: "Cancelled sales as a percentage of all sales"},
		{ID: domain.MetricItemsSold, Expr: exprf("SUM(%s)", schema.Col(schema.ProductSales, "quantity")),
			Description: "Product units sold"},
		{ID: domain.MetricDiscounts, Expr: exprf("SUM(%s)", schema.Col(schema.Sales, "total_discount")),
			Description: "Sum of discounts"},
		{ID: domain.MetricDeliveryFees, Expr: exprf("SUM(%s)", schema.Col(schema.Sales, "delivery_fee")),
			Description: "Sum of delivery fees"},
		{ID: domain.MetricAvgPreparationMinutes, Expr: exprf("AVG(%s / 60.0)", schema.Col(schema.Sales, "production_seconds")),
			Description: "Average preparation time in minutes"},
		{ID: domain.MetricAvgDeliveryMinutes, Expr: exprf("AVG(%s / 60.0)", schema.Col(schema.Sales, "delivery_seconds")),
			Description: "Average delivery time in minutes"},
		{ID: domain.MetricAddOnRevenue, Expr: exprf("SUM(%s)", schema.Col(schema.ItemProductSales, "additional_price")),
			Description: "Revenue from item add-ons"},
		{ID: domain.MetricUniqueCustomers, Expr: exprf("COUNT(DISTINCT %s)", schema.Col(schema.Sales, "customer_id")),
			Description: "Distinct customers"},
	}
}

func textDim(id domain.Dimension, table schema.Table, name string) DimensionDef {
	return DimensionDef{ID: id, Expr: column(schema.Col(table, name)), Type: TypeText}
}

// salesDimensions binds every known dimension to its expression and type.
func salesDimensions() []DimensionDef {
	return []DimensionDef{
		textDim(domain.DimStoreName, schema.Stores, "name"),
		textDim(domain.DimStoreCity, schema.Stores, "city"),
		textDim(domain.DimStoreDistrict, schema.Stores, "district"),
		textDim(domain.DimStoreState, schema.Stores, "state"),
		textDim(domain.DimBrandName, schema.Brands, "name"),
		textDim(domain.DimSubBrandName, schema.SubBrands, "name"),
		textDim(domain.DimChannelName, schema.Channels, "name"),
		textDim(domain.DimChannelType, schema.Channels, "type"),
		textDim(domain.DimSaleStatus, schema.Sales, "sale_status_desc"),
		textDim(domain.DimSaleOrigin, schema.Sales, "origin"),
		textDim(domain.DimProductName, schema.Products, "name"),
		textDim(domain.DimProductCategory, schema.Categories, "name"),
		textDim(domain.DimAddOnItemName, schema.Items, "name"),
		textDim(domain.DimOptionGroupName, schema.OptionGroups, "name"),
		textDim(domain.DimPaymentType, schema.PaymentTypes, "description"),
		textDim(domain.DimDeliveryDistrict, schema.DeliveryAddresses, "neighborhood"),
		textDim(domain.DimDeliveryCity, schema.DeliveryAddresses, "city"),
		textDim(domain.DimCourierType, schema.DeliverySales, "courier_type"),
		textDim(domain.DimDeliveryType, schema.DeliverySales, "delivery_type"),
		{ID: domain.DimDay, Expr: exprf("DATE(%s)", saleCreatedAt), Type: TypeDate},
		{ID: domain.DimWeekday, Expr: exprf("TO_CHAR(%s, 'Day')", saleCreatedAt), Type: TypeText},
		{ID: domain.DimMonth, Expr: exprf("TO_CHAR(%s, 'YYYY-MM')", saleCreatedAt), Type: TypeText},
		{ID: domain.DimHourOfDay, Expr: exprf("EXTRACT(HOUR FROM %s)", saleCreatedAt), Type: TypeNumeric},
		{ID: domain.DimCreatedAt, Expr: column(saleCreatedAt), Type: TypeTimestamp},
	}
}
