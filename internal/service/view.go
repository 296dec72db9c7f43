package service

import (
	"github.com/posadmin/reports-gateway/internal/chart"
)

// Render-ready structures handed to the presentation layer. Every money
// cell carries both a display form (peso glyph) and an export form (ASCII
// "PHP" prefix) with the same underlying numeric value.

// KPI is one summary card.
type KPI struct {
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Description string  `json:"description,omitempty"`
	Raw         float64 `json:"raw"`
}

// ChangeKPI is a KPI with a period-over-period change badge. Estimated is
// true when the previous period could not be fetched and the baseline was
// synthesized instead of measured.
type ChangeKPI struct {
	KPI
	ChangePct float64 `json:"change_pct"`
	Estimated bool    `json:"estimated"`
}

// TableRow maps column headers to cell strings, in both forms.
type TableRow struct {
	Display map[string]string `json:"display"`
	Export  map[string]string `json:"export"`
}

// Table is a render-ready table with a stable column order.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// StockStat is one bucket of the inventory status overview.
type StockStat struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// SalesView is the full sales report page payload.
type SalesView struct {
	Degraded bool   `json:"degraded"`
	Filename string `json:"filename"`

	Revenue        ChangeKPI `json:"revenue"`
	Transactions   KPI       `json:"transactions"`
	AvgTransaction KPI       `json:"avg_transaction"`
	TopPayment     KPI       `json:"top_payment"`

	TrendChart    *chart.Config `json:"trend_chart"`
	CategoryChart *chart.Config `json:"category_chart"`
	PaymentChart  *chart.Config `json:"payment_chart"`

	TopProducts Table `json:"top_products"`
}

// ProfitabilityView is the profitability report page payload.
type ProfitabilityView struct {
	Degraded bool   `json:"degraded"`
	Filename string `json:"filename"`

	TotalGrossProfit KPI `json:"total_gross_profit"`
	AverageMargin    KPI `json:"average_margin"`
	MostProfitable   KPI `json:"most_profitable"`

	Products Table `json:"products"`
}

// InventoryView is the inventory report page payload.
type InventoryView struct {
	Degraded bool   `json:"degraded"`
	Filename string `json:"filename"`

	TotalProducts  KPI `json:"total_products"`
	InventoryValue KPI `json:"inventory_value"`
	LowStock       KPI `json:"low_stock"`
	OutOfStock     KPI `json:"out_of_stock"`

	// InStock may go negative when upstream counts disagree; it is shown
	// raw as a data-inconsistency signal, never clamped.
	StockStats []StockStat `json:"stock_stats"`

	ByCategory Table `json:"by_category"`
	Attention  Table `json:"attention"`
}

// TransactionsView is the transaction history page payload.
type TransactionsView struct {
	Degraded bool   `json:"degraded"`
	Filename string `json:"filename"`
	History  Table  `json:"history"`
}

// TransactionDetail is the receipt modal payload.
type TransactionDetail struct {
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	Cashier       string `json:"cashier"`
	PaymentMethod string `json:"payment_method"`

	Items Table `json:"items"`

	Total      string `json:"total"`
	AmountPaid string `json:"amount_paid"`
	ChangeDue  string `json:"change_due"`
}
