package schema

import "sales-analytics/internal/domain"

// Tables of the sales schema.
const (
	Sales             Table = "sales"
	Stores            Table = "stores"
	SubBrands         Table = "sub_brands"
	Brands            Table = "brands"
	Channels          Table = "channels"
	Customers         Table = "customers"
	DeliverySales     Table = "delivery_sales"
	DeliveryAddresses Table = "delivery_addresses"
	Payments          Table = "payments"
	PaymentTypes      Table = "payment_types"
	ProductSales      Table = "product_sales"
	Products          Table = "products"
	Categories        Table = "categories"
	ItemProductSales  Table = "item_product_sales"
	Items             Table = "items"
	OptionGroups      Table = "option_groups"
)

func inner(parent, child Column) Relation {
	return Relation{Parent: parent, Child: child, Kind: domain.JoinInner}
}

func left(parent, child Column) Relation {
	return Relation{Parent: parent, Child: child, Kind: domain.JoinLeft}
}

// SalesRelations returns the relations of the sales schema in join order.
// Every sale has a store, sub-brand, channel and at least one product line;
// customers, delivery data, payments and item add-ons may be missing.
func SalesRelations() []Relation {
	return []Relation{
		inner(Col(Sales, "store_id"), Col(Stores, "id")),
		inner(Col(Sales, "sub_brand_id"), Col(SubBrands, "id")),
		inner(Col(Stores, "brand_id"), Col(Brands, "id")),
		inner(Col(Sales, "channel_id"), Col(Channels, "id")),
		left(Col(Sales, "customer_id"), Col(Customers, "id")),
		left(Col(Sales, "id"), Col(DeliverySales, "sale_id")),
		left(Col(Sales, "id"), Col(DeliveryAddresses, "sale_id")),
		left(Col(Sales, "id"), Col(Payments, "sale_id")),
		left(Col(Payments, "payment_type_id"), Col(PaymentTypes, "id")),
		inner(Col(Sales, "id"), Col(ProductSales, "sale_id")),
		inner(Col(ProductSales, "product_id"), Col(Products, "id")),
		inner(Col(Products, "category_id"), Col(Categories, "id")),
		left(Col(ProductSales, "id"), Col(ItemProductSales, "product_sale_id")),
		left(Col(ItemProductSales, "item_id"), Col(Items, "id")),
		left(Col(ItemProductSales, "option_group_id"), Col(OptionGroups, "id")),
	}
}

// NewSalesGraph builds the graph of the sales schema rooted at the sales table.
func NewSalesGraph() (*Graph, error) {
	return NewGraph(Sales, SalesRelations()...)
}
