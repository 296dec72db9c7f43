package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexDecodingAbsorbsShapeDrift(t *testing.T) {
	payload := `{
		"summary": {
			"total_revenue": "12500.75",
			"total_transactions": 42,
			"average_transaction_value": null,
			"top_payment_method": "Cash"
		},
		"sales_trend": [
			{"date_label": "Mar 01", "total_revenue": 100.5, "total_sales_count": "7"},
			{"date_label": "Mar 02", "total_revenue": "broken", "total_sales_count": null}
		]
	}`

	var report SalesReport
	require.NoError(t, json.Unmarshal([]byte(payload), &report))

	assert.Equal(t, 12500.75, report.Summary.TotalRevenue.Float())
	assert.Equal(t, int64(42), report.Summary.TotalTransactions.Int())
	assert.Equal(t, 0.0, report.Summary.AverageTransactionValue.Float())
	assert.Equal(t, "Cash", report.Summary.TopPaymentMethod)

	require.Len(t, report.SalesTrend, 2)
	assert.Equal(t, int64(7), report.SalesTrend[0].TotalSalesCount.Int())
	assert.Equal(t, 0.0, report.SalesTrend[1].TotalRevenue.Float())
	assert.Equal(t, int64(0), report.SalesTrend[1].TotalSalesCount.Int())
}

func TestFlexMissingFieldsDefaultToZero(t *testing.T) {
	var row ProfitabilityRow
	require.NoError(t, json.Unmarshal([]byte(`{"product_name":"Latte"}`), &row))

	assert.Equal(t, "Latte", row.ProductName)
	assert.Equal(t, 0.0, row.MarginPercent.Float())
	assert.Equal(t, 0.0, row.CostPrice.Float())
}
