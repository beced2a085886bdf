package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
)

func salesGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewSalesGraph()
	require.NoError(t, err)
	return g
}

func tablesOf(chain []domain.JoinStep) []string {
	out := make([]string, len(chain))
	for i, s := range chain {
		out[i] = s.Table
	}
	return out
}

func TestNewSalesGraph(t *testing.T) {
	g := salesGraph(t)

	assert.Equal(t, Sales, g.Root())
	assert.Len(t, g.Relations(), 15)
	assert.Len(t, g.Tables(), 16)
	for _, tbl := range g.Tables() {
		assert.True(t, g.Has(tbl), "table %s", tbl)
	}
	assert.False(t, g.Has("refunds"))
}

func TestGraph_OptionalRelationsAreLeft(t *testing.T) {
	g := salesGraph(t)

	optional := map[Table]bool{
		Customers: true, DeliverySales: true, DeliveryAddresses: true, Payments: true,
		PaymentTypes: true, ItemProductSales: true, Items: true, OptionGroups: true,
	}
	for _, rel := range g.Relations() {
		want := domain.JoinInner
		if optional[rel.To()] {
			want = domain.JoinLeft
		}
		assert.Equal(t, want, rel.Kind, "join kind for %s", rel.To())
	}
}

func TestGraph_Path(t *testing.T) {
	g := salesGraph(t)

	t.Run("root", func(t *testing.T) {
		path, err := g.Path(Sales)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("direct", func(t *testing.T) {
		path, err := g.Path(Channels)
		require.NoError(t, err)
		require.Len(t, path, 1)
		assert.Equal(t, "sales.channel_id = channels.id", path[0].On())
	})

	t.Run("nested", func(t *testing.T) {
		path, err := g.Path(Items)
		require.NoError(t, err)
		var tables []Table
		for _, rel := range path {
			tables = append(tables, rel.To())
		}
		assert.Equal(t, []Table{ProductSales, ItemProductSales, Items}, tables)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := g.Path("refunds")
		require.Error(t, err)
		var cfgErr *domain.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestGraph_JoinChain(t *testing.T) {
	g := salesGraph(t)

	tests := []struct {
		name   string
		tables []Table
		want   []string
	}{
		{name: "root only", tables: []Table{Sales}, want: []string{}},
		{name: "single", tables: []Table{Channels}, want: []string{"channels"}},
		{
			name:   "shared parent joined once",
			tables: []Table{Brands, SubBrands, Stores},
			want:   []string{"stores", "sub_brands", "brands"},
		},
		{
			name:   "intermediate tables included",
			tables: []Table{Categories},
			want:   []string{"product_sales", "products", "categories"},
		},
		{
			name:   "add-on path",
			tables: []Table{Items, ItemProductSales},
			want:   []string{"product_sales", "item_product_sales", "items"},
		},
		{
			name:   "repeated tables",
			tables: []Table{PaymentTypes, PaymentTypes, Payments},
			want:   []string{"payments", "payment_types"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := g.JoinChain(tt.tables...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tablesOf(chain))
		})
	}
}

func TestGraph_JoinChainOrderIndependent(t *testing.T) {
	g := salesGraph(t)

	a, err := g.JoinChain(OptionGroups, Stores, Customers, Brands)
	require.NoError(t, err)
	b, err := g.JoinChain(Brands, Customers, OptionGroups, Stores)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGraph_JoinChainSteps(t *testing.T) {
	g := salesGraph(t)

	chain, err := g.JoinChain(Items)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, domain.JoinStep{
		Table: "product_sales",
		From:  "sales",
		On:    "sales.id = product_sales.sale_id",
		Kind:  domain.JoinInner,
	}, chain[0])
	assert.Equal(t, domain.JoinLeft, chain[1].Kind)
	assert.Equal(t, "item_product_sales.item_id = items.id", chain[2].On)
	assert.Equal(t, domain.JoinLeft, chain[2].Kind)
}

func TestGraph_JoinChainUnknownTable(t *testing.T) {
	g := salesGraph(t)

	_, err := g.JoinChain(Stores, "refunds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refunds")
}

func TestNewGraph_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		root      Table
		relations []Relation
		wantErr   string
	}{
		{
			name:    "bad root",
			root:    "sales;",
			wantErr: "root table",
		},
		{
			name:      "bad column",
			root:      Sales,
			relations: []Relation{inner(Col(Sales, "store id"), Col(Stores, "id"))},
			wantErr:   "must match",
		},
		{
			name: "duplicate target",
			root: Sales,
			relations: []Relation{
				inner(Col(Sales, "store_id"), Col(Stores, "id")),
				inner(Col(Sales, "other_store_id"), Col(Stores, "id")),
			},
			wantErr: "already joined",
		},
		{
			name:      "root as target",
			root:      Sales,
			relations: []Relation{inner(Col(Stores, "sale_id"), Col(Sales, "id"))},
			wantErr:   "cannot be a join target",
		},
		{
			name: "parent registered later",
			root: Sales,
			relations: []Relation{
				inner(Col(Stores, "brand_id"), Col(Brands, "id")),
				inner(Col(Sales, "store_id"), Col(Stores, "id")),
			},
			wantErr: "not reachable",
		},
		{
			name: "inner below left",
			root: Sales,
			relations: []Relation{
				left(Col(Sales, "id"), Col(Payments, "sale_id")),
				inner(Col(Payments, "payment_type_id"), Col(PaymentTypes, "id")),
			},
			wantErr: "must be a LEFT JOIN",
		},
		{
			name:      "self join",
			root:      Sales,
			relations: []Relation{inner(Col(Stores, "parent_id"), Col(Stores, "id"))},
			wantErr:   "self join",
		},
		{
			name:      "unknown kind",
			root:      Sales,
			relations: []Relation{{Parent: Col(Sales, "store_id"), Child: Col(Stores, "id"), Kind: "CROSS JOIN"}},
			wantErr:   "unknown join kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.root, tt.relations...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var cfgErr *domain.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestGraph_RelationsReturnsCopy(t *testing.T) {
	g := salesGraph(t)

	rels := g.Relations()
	rels[0].Kind = domain.JoinLeft
	assert.Equal(t, domain.JoinInner, g.Relations()[0].Kind)
}
