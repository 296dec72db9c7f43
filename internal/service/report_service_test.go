package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/model"
	"github.com/posadmin/reports-gateway/pkg/daterange"
)

type fakeBackend struct {
	sales      map[string]*model.SalesReport // keyed by start ISO date
	salesErr   error
	profit     []model.ProfitabilityRow
	profitErr  error
	inventory  *model.InventoryReport
	invErr     error
	txs        []model.Transaction
	txsErr     error
	tx         *model.Transaction
	txErr      error
	salesCalls []daterange.Range
}

func (f *fakeBackend) SalesReport(_ context.Context, _ string, rng daterange.Range, _ daterange.Period) (*model.SalesReport, error) {
	f.salesCalls = append(f.salesCalls, rng)
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	if r, ok := f.sales[rng.StartISO()]; ok {
		return r, nil
	}
	return &model.SalesReport{}, nil
}

func (f *fakeBackend) ProfitabilityReport(_ context.Context, _ string, _ daterange.Range) ([]model.ProfitabilityRow, error) {
	return f.profit, f.profitErr
}

func (f *fakeBackend) InventoryReport(_ context.Context, _ string) (*model.InventoryReport, error) {
	return f.inventory, f.invErr
}

func (f *fakeBackend) Transactions(_ context.Context, _ string, _ daterange.Range, _ backend.TransactionQuery) ([]model.Transaction, error) {
	return f.txs, f.txsErr
}

func (f *fakeBackend) Transaction(_ context.Context, _, _ string) (*model.Transaction, error) {
	return f.tx, f.txErr
}

func newTestService(b *fakeBackend) *reportService {
	svc := NewReportService(b, nil).(*reportService)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func monthRange(t *testing.T) daterange.Range {
	t.Helper()
	return daterange.Resolve(daterange.Monthly, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
}

func TestMarginStatusBoundaries(t *testing.T) {
	assert.Equal(t, StatusExcellent, MarginStatus(50.0))
	assert.Equal(t, StatusExcellent, MarginStatus(72.5))
	assert.Equal(t, StatusAverage, MarginStatus(49.99))
	assert.Equal(t, StatusAverage, MarginStatus(30.0))
	assert.Equal(t, StatusPoor, MarginStatus(29.99))
	assert.Equal(t, StatusPoor, MarginStatus(0))
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, StatusOutOfStock, StockStatus(0))
	assert.Equal(t, StatusLowStock, StockStatus(1))
	assert.Equal(t, StatusLowStock, StockStatus(5))
}

func TestSalesReportRealPreviousPeriod(t *testing.T) {
	rng := monthRange(t)
	prev := daterange.Previous(daterange.Monthly, rng)

	b := &fakeBackend{sales: map[string]*model.SalesReport{
		rng.StartISO():  {Summary: model.SalesSummary{TotalRevenue: 1200, TotalTransactions: 40, AverageTransactionValue: 30, TopPaymentMethod: "Cash"}},
		prev.StartISO(): {Summary: model.SalesSummary{TotalRevenue: 1000}},
	}}
	svc := newTestService(b)

	view := svc.SalesReport(context.Background(), "tok", rng, SalesOptions{Resolved: true, Period: daterange.Monthly})

	assert.False(t, view.Degraded)
	assert.False(t, view.Revenue.Estimated)
	assert.InDelta(t, 20.0, view.Revenue.ChangePct, 1e-9)
	assert.Equal(t, "₱1,200.00", view.Revenue.Value)
	assert.Equal(t, "Cash", view.TopPayment.Value)
	require.Len(t, b.salesCalls, 2)
	assert.Equal(t, prev.StartISO(), b.salesCalls[1].StartISO())
}

func TestSalesReportEstimatedChangeFallback(t *testing.T) {
	rng := monthRange(t)

	// Previous month has no data, so the baseline is synthesized and the
	// badge lands on +10%.
	b := &fakeBackend{sales: map[string]*model.SalesReport{
		rng.StartISO(): {Summary: model.SalesSummary{TotalRevenue: 550}},
	}}
	svc := newTestService(b)

	view := svc.SalesReport(context.Background(), "tok", rng, SalesOptions{Resolved: true, Period: daterange.Monthly})

	assert.True(t, view.Revenue.Estimated)
	assert.InDelta(t, 10.0, view.Revenue.ChangePct, 1e-6)
}

func TestSalesReportDegradedOnBackendError(t *testing.T) {
	b := &fakeBackend{salesErr: errors.New("upstream down")}
	svc := newTestService(b)

	view := svc.SalesReport(context.Background(), "tok", monthRange(t), SalesOptions{})

	assert.True(t, view.Degraded)
	assert.Equal(t, "₱0.00", view.Revenue.Value)
	assert.Equal(t, "N/A", view.TopPayment.Value)
	assert.Nil(t, view.TrendChart)
	assert.Nil(t, view.PaymentChart)
	assert.Empty(t, view.TopProducts.Rows)
}

func TestSalesReportMergesMargins(t *testing.T) {
	rng := monthRange(t)
	b := &fakeBackend{
		sales: map[string]*model.SalesReport{
			rng.StartISO(): {
				Summary: model.SalesSummary{TotalRevenue: 100},
				TopProducts: []model.TopProduct{
					{ProductName: "Coffee", CategoryName: "Beverages", TotalSold: 12, TotalRevenue: 600, TotalProfit: 200},
					{ProductName: "Mug", CategoryName: "Merch", TotalSold: 3, TotalRevenue: 90, TotalProfit: 30},
				},
			},
		},
		profit: []model.ProfitabilityRow{
			{ProductName: "Coffee", MarginPercent: 33.3},
		},
	}
	svc := newTestService(b)

	view := svc.SalesReport(context.Background(), "tok", rng, SalesOptions{})

	require.Len(t, view.TopProducts.Rows, 2)
	assert.Equal(t, "33.3%", view.TopProducts.Rows[0].Display["Margin %"])
	// Products absent from the profitability response get a zero margin.
	assert.Equal(t, "0.0%", view.TopProducts.Rows[1].Display["Margin %"])
	assert.Equal(t, "₱600.00", view.TopProducts.Rows[0].Display["Revenue"])
	assert.Equal(t, "PHP 600.00", view.TopProducts.Rows[0].Export["Revenue"])
}

func TestSalesReportIdempotent(t *testing.T) {
	rng := monthRange(t)
	b := &fakeBackend{sales: map[string]*model.SalesReport{
		rng.StartISO(): {
			Summary: model.SalesSummary{TotalRevenue: 500, TotalTransactions: 10},
			SalesTrend: []model.SalesTrendPoint{
				{DateLabel: "Mar 1", TotalRevenue: 250, TotalSalesCount: 5},
				{DateLabel: "Mar 2", TotalRevenue: 250, TotalSalesCount: 5},
			},
		},
	}}
	svc := newTestService(b)
	opts := SalesOptions{Resolved: true, Period: daterange.Monthly}

	first := svc.SalesReport(context.Background(), "tok", rng, opts)
	second := svc.SalesReport(context.Background(), "tok", rng, opts)

	assert.Equal(t, first, second)
}

func TestSalesTrendChartMetrics(t *testing.T) {
	rng := monthRange(t)
	b := &fakeBackend{sales: map[string]*model.SalesReport{
		rng.StartISO(): {
			Summary: model.SalesSummary{TotalRevenue: 300},
			SalesTrend: []model.SalesTrendPoint{
				{DateLabel: "Mar 1", TotalRevenue: 300, TotalSalesCount: 7},
			},
		},
	}}
	svc := newTestService(b)

	both := svc.SalesReport(context.Background(), "tok", rng, SalesOptions{TrendMetric: "both"})
	require.NotNil(t, both.TrendChart)
	require.Len(t, both.TrendChart.Series, 2)
	assert.Equal(t, "Sales Volume", both.TrendChart.Series[0].Name)
	assert.True(t, both.TrendChart.Series[0].Volume)
	assert.Equal(t, "Revenue", both.TrendChart.Series[1].Name)
	assert.False(t, both.TrendChart.Series[1].Volume)

	rev := svc.SalesReport(context.Background(), "tok", rng, SalesOptions{TrendMetric: "revenue"})
	require.NotNil(t, rev.TrendChart)
	require.Len(t, rev.TrendChart.Series, 1)
	assert.Equal(t, "Revenue", rev.TrendChart.Series[0].Name)
}

func TestProfitabilityReportRankingAndKPIs(t *testing.T) {
	b := &fakeBackend{profit: []model.ProfitabilityRow{
		{ProductName: "Espresso", CategoryName: "Beverages", CostPrice: 20, SellingPrice: 80, GrossProfit: 60, MarginPercent: 75},
		{ProductName: "Sandwich", CategoryName: "Food", CostPrice: 50, SellingPrice: 100, GrossProfit: 50, MarginPercent: 50},
		{ProductName: "Candy", CategoryName: "Snacks", CostPrice: 9, SellingPrice: 10, GrossProfit: 1, MarginPercent: 10},
	}}
	svc := newTestService(b)

	view := svc.ProfitabilityReport(context.Background(), "tok", monthRange(t))

	assert.False(t, view.Degraded)
	assert.InDelta(t, 111.0, view.TotalGrossProfit.Raw, 1e-9)
	assert.InDelta(t, 45.0, view.AverageMargin.Raw, 1e-9)
	assert.Equal(t, "Espresso", view.MostProfitable.Value)

	require.Len(t, view.Products.Rows, 3)
	assert.Equal(t, "1", view.Products.Rows[0].Display["Rank"])
	assert.Equal(t, StatusExcellent, view.Products.Rows[0].Display["Status"])
	assert.Equal(t, StatusExcellent, view.Products.Rows[1].Display["Status"])
	assert.Equal(t, StatusPoor, view.Products.Rows[2].Display["Status"])
}

func TestProfitabilityReportEmpty(t *testing.T) {
	svc := newTestService(&fakeBackend{})

	view := svc.ProfitabilityReport(context.Background(), "tok", monthRange(t))

	assert.Equal(t, 0.0, view.AverageMargin.Raw)
	assert.Equal(t, "N/A", view.MostProfitable.Value)
	assert.Empty(t, view.Products.Rows)
}

func TestInventoryReportInStockNotClamped(t *testing.T) {
	b := &fakeBackend{inventory: &model.InventoryReport{
		Summary: model.InventorySummary{
			TotalProducts:       10,
			LowStockCount:       8,
			OutOfStockCount:     5,
			TotalInventoryValue: 2500,
		},
	}}
	svc := newTestService(b)

	view := svc.InventoryReport(context.Background(), "tok")

	require.Len(t, view.StockStats, 3)
	assert.Equal(t, "In Stock", view.StockStats[0].Label)
	assert.Equal(t, int64(-3), view.StockStats[0].Value)
	assert.Equal(t, int64(8), view.StockStats[1].Value)
	assert.Equal(t, int64(5), view.StockStats[2].Value)
	assert.Equal(t, "Inventory_Summary_Report_2025-03-15", view.Filename)
}

func TestInventoryAttentionStatuses(t *testing.T) {
	b := &fakeBackend{inventory: &model.InventoryReport{
		ProductsRequiringAttention: []model.AttentionProduct{
			{ProductName: "Beans", Quantity: 0, ReorderLevel: 10},
			{ProductName: "Cups", Quantity: 3, ReorderLevel: 20},
		},
	}}
	svc := newTestService(b)

	view := svc.InventoryReport(context.Background(), "tok")

	require.Len(t, view.Attention.Rows, 2)
	assert.Equal(t, StatusOutOfStock, view.Attention.Rows[0].Display["Status"])
	assert.Equal(t, StatusLowStock, view.Attention.Rows[1].Display["Status"])
}

func TestTransactionsViewRows(t *testing.T) {
	b := &fakeBackend{txs: []model.Transaction{
		{TransactionID: "TXN-001", TransactionDate: "2025-03-14T13:45:00Z", CashierName: "Ana", PaymentMethod: "Cash", TotalAmount: 150.5},
		{TransactionID: "TXN-002", TransactionDate: "not a date", PaymentMethod: "GCash", TotalAmount: 99},
	}}
	svc := newTestService(b)

	rng := monthRange(t)
	view := svc.Transactions(context.Background(), "tok", rng, backend.TransactionQuery{})

	require.Len(t, view.History.Rows, 2)
	assert.Equal(t, "Mar 14, 2025 1:45 PM", view.History.Rows[0].Display["Date & Time"])
	assert.Equal(t, "₱150.50", view.History.Rows[0].Display["Total"])
	assert.Equal(t, "PHP 150.50", view.History.Rows[0].Export["Total"])
	// Unparsable timestamps pass through raw.
	assert.Equal(t, "not a date", view.History.Rows[1].Display["Date & Time"])
	assert.Equal(t, "N/A", view.History.Rows[1].Display["Cashier"])
	assert.Equal(t, "Transaction_History_2025-03-01_to_2025-03-31", view.Filename)
}

func TestTransactionDetail(t *testing.T) {
	b := &fakeBackend{tx: &model.Transaction{
		TransactionID:   "TXN-007",
		TransactionDate: "2025-03-10T09:00:00Z",
		CashierName:     "Ben",
		PaymentMethod:   "Card",
		TotalAmount:     500,
		AmountPaid:      600,
		ChangeDue:       100,
		Items: []model.TransactionItem{
			{ProductName: "Latte", Quantity: 2, UnitPrice: 250, TotalPrice: 500},
		},
	}}
	svc := newTestService(b)

	detail, err := svc.Transaction(context.Background(), "tok", "TXN-007")
	require.NoError(t, err)

	assert.Equal(t, "TXN-007", detail.TransactionID)
	assert.Equal(t, "₱500.00", detail.Total)
	assert.Equal(t, "₱100.00", detail.ChangeDue)
	require.Len(t, detail.Items.Rows, 1)
	assert.Equal(t, "₱250.00", detail.Items.Rows[0].Display["Unit Price"])
}

func TestTransactionDetailPropagatesError(t *testing.T) {
	wantErr := errors.New("not found")
	svc := newTestService(&fakeBackend{txErr: wantErr})

	detail, err := svc.Transaction(context.Background(), "tok", "missing")

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, wantErr)
}
