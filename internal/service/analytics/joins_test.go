package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
)

func TestJoinResolver_Resolve(t *testing.T) {
	r := NewJoinResolver(newTestRegistry(t))

	tests := []struct {
		name   string
		fields []domain.Dimension
		metric domain.Metric
		want   []string
	}{
		{
			name:   "fact table only",
			fields: []domain.Dimension{domain.DimSaleStatus, domain.DimDay},
			metric: domain.MetricRevenue,
			want:   []string{},
		},
		{
			name:   "metric table",
			fields: []domain.Dimension{domain.DimSaleOrigin},
			metric: domain.MetricItemsSold,
			want:   []string{"product_sales"},
		},
		{
			name:   "field repeated as filter",
			fields: []domain.Dimension{domain.DimChannelName, domain.DimChannelType, domain.DimChannelName},
			metric: domain.MetricOrders,
			want:   []string{"channels"},
		},
		{
			name:   "category pulls intermediates",
			fields: []domain.Dimension{domain.DimProductCategory},
			metric: domain.MetricOrders,
			want:   []string{"product_sales", "products", "categories"},
		},
		{
			name:   "delivery and payment",
			fields: []domain.Dimension{domain.DimPaymentType, domain.DimCourierType, domain.DimDeliveryCity},
			metric: domain.MetricDeliveryFees,
			want:   []string{"delivery_sales", "delivery_addresses", "payments", "payment_types"},
		},
		{
			name:   "add-on item and option group share parents",
			fields: []domain.Dimension{domain.DimOptionGroupName, domain.DimAddOnItemName},
			metric: domain.MetricAddOnRevenue,
			want:   []string{"product_sales", "item_product_sales", "items", "option_groups"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := r.Resolve(tt.fields, tt.metric)
			require.NoError(t, err)
			got := make([]string, len(chain))
			for i, s := range chain {
				got[i] = s.Table
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinResolver_OptionalTablesAreLeft(t *testing.T) {
	r := NewJoinResolver(newTestRegistry(t))

	chain, err := r.Resolve([]domain.Dimension{
		domain.DimCourierType, domain.DimDeliveryDistrict, domain.DimPaymentType, domain.DimAddOnItemName,
	}, domain.MetricUniqueCustomers)
	require.NoError(t, err)

	for _, s := range chain {
		if s.Table == "product_sales" {
			assert.Equal(t, domain.JoinInner, s.Kind)
			continue
		}
		assert.Equal(t, domain.JoinLeft, s.Kind, s.Table)
	}
}

func TestJoinResolver_UnknownField(t *testing.T) {
	r := NewJoinResolver(newTestRegistry(t))

	_, err := r.Resolve([]domain.Dimension{"loja"}, domain.MetricOrders)
	requireCode(t, err, domain.CodeUnknownDimension)

	_, err = r.Resolve([]domain.Dimension{domain.DimStoreName}, "lucro")
	requireCode(t, err, domain.CodeUnknownMetric)
}
