package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/chart"
	"github.com/posadmin/reports-gateway/internal/model"
	"github.com/posadmin/reports-gateway/pkg/daterange"
	"github.com/posadmin/reports-gateway/pkg/format"
)

// Backend is the slice of the POS client the report service consumes.
type Backend interface {
	SalesReport(ctx context.Context, token string, rng daterange.Range, period daterange.Period) (*model.SalesReport, error)
	ProfitabilityReport(ctx context.Context, token string, rng daterange.Range) ([]model.ProfitabilityRow, error)
	InventoryReport(ctx context.Context, token string) (*model.InventoryReport, error)
	Transactions(ctx context.Context, token string, rng daterange.Range, query backend.TransactionQuery) ([]model.Transaction, error)
	Transaction(ctx context.Context, token, id string) (*model.Transaction, error)
}

// SalesOptions carries the chart metric dropdown selections.
type SalesOptions struct {
	TrendMetric    string // "revenue", "volume" or "both"
	CategoryMetric string // "revenue" or "volume"

	// Resolved is true when the range came out of a period filter, in
	// which case the previous-period baseline shifts by the period
	// instead of by raw range length.
	Resolved bool
	Period   daterange.Period
}

type ReportService interface {
	SalesReport(ctx context.Context, token string, rng daterange.Range, opts SalesOptions) *SalesView
	ProfitabilityReport(ctx context.Context, token string, rng daterange.Range) *ProfitabilityView
	InventoryReport(ctx context.Context, token string) *InventoryView
	Transactions(ctx context.Context, token string, rng daterange.Range, query backend.TransactionQuery) *TransactionsView
	Transaction(ctx context.Context, token, id string) (*TransactionDetail, error)
}

type reportService struct {
	backend Backend
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewReportService(b Backend, log *zap.SugaredLogger) ReportService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &reportService{backend: b, log: log, now: time.Now}
}

var (
	salesColumns = []string{"Product", "Category", "Quantity Sold", "Revenue", "Profit", "Margin %"}

	profitColumns = []string{"Rank", "Product", "Category", "Cost Price", "Selling Price", "Gross Profit", "Margin %", "Status"}

	inventoryColumns = []string{"Category", "Products", "Total Stock", "Total Value", "Low Stock Counts"}
	attentionColumns = []string{"Product", "Current Stock", "Reorder Point", "Status"}

	historyColumns = []string{"Transaction ID", "Date & Time", "Cashier", "Payment Method", "Total"}
	receiptColumns = []string{"Product", "Quantity", "Unit Price", "Total Price"}
)

// SalesReport builds the complete sales page: KPI cards, trend/category/
// payment charts, and the top-products table with margins merged in from
// the profitability endpoint. A backend failure yields the empty view with
// Degraded set; partial data still renders.
func (s *reportService) SalesReport(ctx context.Context, token string, rng daterange.Range, opts SalesOptions) *SalesView {
	view := &SalesView{Filename: rng.Filename("Sales_Report")}

	report, err := s.backend.SalesReport(ctx, token, rng, opts.Period)
	if err != nil {
		s.log.Errorw("sales report fetch failed", "error", err)
		view.Degraded = true
		report = &model.SalesReport{}
	}

	// Margins for the table come from the profitability endpoint, keyed
	// by product name. Its failure only blanks the margin column.
	margins := map[string]model.ProfitabilityRow{}
	if !view.Degraded {
		if rows, err := s.backend.ProfitabilityReport(ctx, token, rng); err != nil {
			s.log.Warnw("profitability merge skipped", "error", err)
		} else {
			for _, r := range rows {
				margins[r.ProductName] = r
			}
		}
	}

	currentRevenue := report.Summary.TotalRevenue.Float()
	changePct, estimated := s.revenueChange(ctx, token, rng, opts, currentRevenue)

	view.Revenue = ChangeKPI{
		KPI: KPI{
			Title:       "Total Revenue",
			Value:       format.Currency(currentRevenue),
			Description: "vs last period",
			Raw:         currentRevenue,
		},
		ChangePct: changePct,
		Estimated: estimated,
	}
	view.Transactions = KPI{
		Title:       "Transactions",
		Value:       format.Count(float64(report.Summary.TotalTransactions)),
		Description: "Total completed orders",
		Raw:         float64(report.Summary.TotalTransactions),
	}
	view.AvgTransaction = KPI{
		Title:       "Avg. Transaction",
		Value:       format.Currency(report.Summary.AverageTransactionValue.Float()),
		Description: "Per order value",
		Raw:         report.Summary.AverageTransactionValue.Float(),
	}
	topPayment := report.Summary.TopPaymentMethod
	if topPayment == "" {
		topPayment = "N/A"
	}
	view.TopPayment = KPI{
		Title:       "Top Payment",
		Value:       topPayment,
		Description: "Most frequently used",
	}

	view.TrendChart = s.trendChart(report, opts.TrendMetric)
	view.CategoryChart = s.categoryChart(report, opts.CategoryMetric)
	view.PaymentChart = s.paymentChart(report)
	view.TopProducts = s.topProductsTable(report.TopProducts, margins)

	return view
}

// revenueChange computes the period-over-period badge. The real previous
// period is fetched first; only when that is unavailable does the
// synthesized current/1.1 baseline apply, flagged as estimated.
func (s *reportService) revenueChange(ctx context.Context, token string, rng daterange.Range, opts SalesOptions, current float64) (float64, bool) {
	if current <= 0 {
		return 0, true
	}

	prevRng := daterange.ShiftBack(rng)
	if opts.Resolved {
		prevRng = daterange.Previous(opts.Period, rng)
	}

	prev, err := s.backend.SalesReport(ctx, token, prevRng, opts.Period)
	if err == nil {
		if prevRevenue := prev.Summary.TotalRevenue.Float(); prevRevenue > 0 {
			return (current - prevRevenue) / prevRevenue * 100, false
		}
	} else {
		s.log.Warnw("previous period fetch failed, estimating change", "error", err)
	}

	baseline := current / 1.1
	return (current - baseline) / baseline * 100, true
}

func (s *reportService) trendChart(report *model.SalesReport, metric string) *chart.Config {
	labels := make([]string, len(report.SalesTrend))
	revenue := make([]float64, len(report.SalesTrend))
	volume := make([]float64, len(report.SalesTrend))
	for i, p := range report.SalesTrend {
		labels[i] = p.DateLabel
		revenue[i] = p.TotalRevenue.Float()
		volume[i] = float64(p.TotalSalesCount)
	}

	revSeries := chart.NamedSeries{Name: "Revenue", Data: revenue, Color: chart.BrandPalette[1]}
	volSeries := chart.NamedSeries{Name: "Sales Volume", Data: volume, Color: chart.BrandPalette[0]}

	var input chart.NamedSeriesList
	switch metric {
	case "volume":
		input = chart.NamedSeriesList{volSeries}
	case "both":
		input = chart.NamedSeriesList{volSeries, revSeries}
	default:
		input = chart.NamedSeriesList{revSeries}
	}

	cfg, ok := chart.Build(chart.Line, input, labels, chart.Options{})
	if !ok {
		return nil
	}
	return cfg
}

func (s *reportService) categoryChart(report *model.SalesReport, metric string) *chart.Config {
	names := make([]string, len(report.SalesByCategory))
	revenue := make([]float64, len(report.SalesByCategory))
	volume := make([]float64, len(report.SalesByCategory))
	for i, c := range report.SalesByCategory {
		names[i] = c.CategoryName
		revenue[i] = c.TotalRevenue.Float()
		volume[i] = float64(c.TotalVolume)
	}

	series := chart.NamedSeries{Name: "Revenue", Data: revenue, Color: chart.BrandPalette[1]}
	if metric == "volume" {
		series = chart.NamedSeries{Name: "Volume", Data: volume, Color: chart.BrandPalette[0]}
	}

	cfg, ok := chart.Build(chart.Bar, chart.NamedSeriesList{series}, names, chart.Options{})
	if !ok {
		return nil
	}
	return cfg
}

func (s *reportService) paymentChart(report *model.SalesReport) *chart.Config {
	labels := make([]string, len(report.PaymentMethods))
	counts := make(chart.FlatNumericList, len(report.PaymentMethods))
	for i, p := range report.PaymentMethods {
		labels[i] = p.PaymentMethod
		counts[i] = float64(p.UsageCount)
	}

	cfg, ok := chart.Build(chart.Donut, counts, labels, chart.Options{})
	if !ok {
		return nil
	}
	return cfg
}

func (s *reportService) topProductsTable(products []model.TopProduct, margins map[string]model.ProfitabilityRow) Table {
	rows := make([]TableRow, 0, len(products))
	for _, p := range products {
		margin := margins[p.ProductName].MarginPercent.Float()

		display := map[string]string{
			"Product":       p.ProductName,
			"Category":      p.CategoryName,
			"Quantity Sold": format.Count(float64(p.TotalSold)),
			"Revenue":       format.Currency(p.TotalRevenue.Float()),
			"Profit":        format.Currency(p.TotalProfit.Float()),
			"Margin %":      format.Percent(margin, 1),
		}
		export := exportRow(display)
		rows = append(rows, TableRow{Display: display, Export: export})
	}

	return Table{Name: "Top Selling Products (Quantity)", Columns: salesColumns, Rows: rows}
}

// ProfitabilityReport builds the ranked product margin table and its KPI
// cards. Rank follows backend order; the backend serves rows sorted by
// margin already.
func (s *reportService) ProfitabilityReport(ctx context.Context, token string, rng daterange.Range) *ProfitabilityView {
	view := &ProfitabilityView{Filename: rng.Filename("Profitability_Report")}

	rows, err := s.backend.ProfitabilityReport(ctx, token, rng)
	if err != nil {
		s.log.Errorw("profitability report fetch failed", "error", err)
		view.Degraded = true
		rows = nil
	}

	var totalProfit, totalMargin float64
	tableRows := make([]TableRow, 0, len(rows))
	for i, r := range rows {
		margin := r.MarginPercent.Float()
		totalProfit += r.GrossProfit.Float()
		totalMargin += margin

		display := map[string]string{
			"Rank":          format.Count(float64(i + 1)),
			"Product":       r.ProductName,
			"Category":      r.CategoryName,
			"Cost Price":    format.Currency(r.CostPrice.Float()),
			"Selling Price": format.Currency(r.SellingPrice.Float()),
			"Gross Profit":  format.Currency(r.GrossProfit.Float()),
			"Margin %":      format.Percent(margin, 2),
			"Status":        MarginStatus(margin),
		}
		tableRows = append(tableRows, TableRow{Display: display, Export: exportRow(display)})
	}

	averageMargin := 0.0
	if len(rows) > 0 {
		averageMargin = totalMargin / float64(len(rows))
	}

	view.TotalGrossProfit = KPI{Title: "Total Gross Profit", Value: format.Currency(totalProfit), Raw: totalProfit}
	view.AverageMargin = KPI{Title: "Average Margin", Value: format.Percent(averageMargin, 2), Raw: averageMargin}

	view.MostProfitable = KPI{Title: "Most Profitable Item", Value: "N/A", Description: "No data"}
	if len(rows) > 0 {
		best := rows[0]
		view.MostProfitable = KPI{
			Title:       "Most Profitable Item",
			Value:       best.ProductName,
			Description: "Margin: " + format.Percent(best.MarginPercent.Float(), 2),
			Raw:         best.MarginPercent.Float(),
		}
	}

	view.Products = Table{Name: "Products Ranked by Profit Margin", Columns: profitColumns, Rows: tableRows}
	return view
}

// InventoryReport builds the stock overview. The in-stock figure is
// total - low - out and is intentionally not clamped: a negative value
// surfaces inconsistent upstream counts instead of hiding them.
func (s *reportService) InventoryReport(ctx context.Context, token string) *InventoryView {
	today := daterange.Resolve(daterange.Daily, s.now())
	view := &InventoryView{Filename: "Inventory_Summary_Report_" + today.StartISO()}

	report, err := s.backend.InventoryReport(ctx, token)
	if err != nil {
		s.log.Errorw("inventory report fetch failed", "error", err)
		view.Degraded = true
		report = &model.InventoryReport{}
	}

	total := report.Summary.TotalProducts.Int()
	low := report.Summary.LowStockCount.Int()
	out := report.Summary.OutOfStockCount.Int()
	inStock := total - low - out

	view.TotalProducts = KPI{Title: "Total Products", Value: format.Count(float64(total)), Raw: float64(total)}
	view.InventoryValue = KPI{
		Title: "Total Inventory Value (Cost)",
		Value: format.Currency(report.Summary.TotalInventoryValue.Float()),
		Raw:   report.Summary.TotalInventoryValue.Float(),
	}
	view.LowStock = KPI{Title: "Low Stock", Value: format.Count(float64(low)), Raw: float64(low)}
	view.OutOfStock = KPI{Title: "Out of Stock", Value: format.Count(float64(out)), Raw: float64(out)}

	view.StockStats = []StockStat{
		{Label: "In Stock", Value: inStock},
		{Label: "Low Stock", Value: low},
		{Label: "Out of Stock", Value: out},
	}

	catRows := make([]TableRow, 0, len(report.InventoryByCategory))
	for _, c := range report.InventoryByCategory {
		display := map[string]string{
			"Category":         c.CategoryName,
			"Products":         format.Count(float64(c.ProductCount)),
			"Total Stock":      format.Count(float64(c.TotalStock)),
			"Total Value":      format.Currency(c.TotalValue.Float()),
			"Low Stock Counts": format.Count(float64(c.LowStockCount)),
		}
		catRows = append(catRows, TableRow{Display: display, Export: exportRow(display)})
	}
	view.ByCategory = Table{Name: "Inventory by Category", Columns: inventoryColumns, Rows: catRows}

	attRows := make([]TableRow, 0, len(report.ProductsRequiringAttention))
	for _, p := range report.ProductsRequiringAttention {
		display := map[string]string{
			"Product":       p.ProductName,
			"Current Stock": format.Count(float64(p.Quantity)),
			"Reorder Point": format.Count(float64(p.ReorderLevel)),
			"Status":        StockStatus(p.Quantity.Int()),
		}
		attRows = append(attRows, TableRow{Display: display, Export: exportRow(display)})
	}
	view.Attention = Table{Name: "Products Requiring Attention (Low/Out of Stock)", Columns: attentionColumns, Rows: attRows}

	return view
}

// Transactions builds the history table in both display and export forms.
func (s *reportService) Transactions(ctx context.Context, token string, rng daterange.Range, query backend.TransactionQuery) *TransactionsView {
	view := &TransactionsView{Filename: rng.Filename("Transaction_History")}

	txs, err := s.backend.Transactions(ctx, token, rng, query)
	if err != nil {
		s.log.Errorw("transaction history fetch failed", "error", err)
		view.Degraded = true
		txs = nil
	}

	rows := make([]TableRow, 0, len(txs))
	for _, t := range txs {
		cashier := t.CashierName
		if cashier == "" {
			cashier = "N/A"
		}
		display := map[string]string{
			"Transaction ID": t.TransactionID,
			"Date & Time":    displayTime(t.TransactionDate),
			"Cashier":        cashier,
			"Payment Method": t.PaymentMethod,
			"Total":          format.Currency(t.TotalAmount.Float()),
		}
		rows = append(rows, TableRow{Display: display, Export: exportRow(display)})
	}

	view.History = Table{Name: "Transaction History (" + rng.StartISO() + " to " + rng.EndISO() + ")", Columns: historyColumns, Rows: rows}
	return view
}

// Transaction builds the receipt detail view. Unlike the report paths this
// propagates the error: a missing receipt is a 404, not a degraded page.
func (s *reportService) Transaction(ctx context.Context, token, id string) (*TransactionDetail, error) {
	tx, err := s.backend.Transaction(ctx, token, id)
	if err != nil {
		return nil, err
	}

	rows := make([]TableRow, 0, len(tx.Items))
	for _, item := range tx.Items {
		display := map[string]string{
			"Product":     item.ProductName,
			"Quantity":    format.Count(float64(item.Quantity)),
			"Unit Price":  format.Currency(item.UnitPrice.Float()),
			"Total Price": format.Currency(item.TotalPrice.Float()),
		}
		rows = append(rows, TableRow{Display: display, Export: exportRow(display)})
	}

	return &TransactionDetail{
		TransactionID: tx.TransactionID,
		Date:          displayTime(tx.TransactionDate),
		Cashier:       tx.CashierName,
		PaymentMethod: tx.PaymentMethod,
		Items:         Table{Name: "Items", Columns: receiptColumns, Rows: rows},
		Total:         format.Currency(tx.TotalAmount.Float()),
		AmountPaid:    format.Currency(tx.AmountPaid.Float()),
		ChangeDue:     format.Currency(tx.ChangeDue.Float()),
	}, nil
}

// exportRow derives the ASCII-safe form of a display row.
func exportRow(display map[string]string) map[string]string {
	export := make(map[string]string, len(display))
	for k, v := range display {
		export[k] = format.DisplayToExport(v)
	}
	return export
}

// displayTime renders a backend timestamp for the history table. Unparsable
// values pass through raw rather than blanking the cell.
func displayTime(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006 3:04 PM")
		}
	}
	return raw
}
