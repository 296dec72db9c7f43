package model

// Raw report payloads as served by the POS backend under its {"data": ...}
// envelope. Field sets mirror the backend responses; all numerics are Flex
// types (see flex.go).

type SalesSummary struct {
	TotalRevenue            FlexFloat `json:"total_revenue"`
	TotalTransactions       FlexInt   `json:"total_transactions"`
	AverageTransactionValue FlexFloat `json:"average_transaction_value"`
	TopPaymentMethod        string    `json:"top_payment_method"`
}

type SalesTrendPoint struct {
	DateLabel       string    `json:"date_label"`
	TotalRevenue    FlexFloat `json:"total_revenue"`
	TotalSalesCount FlexInt   `json:"total_sales_count"`
}

type CategorySales struct {
	CategoryName string    `json:"category_name"`
	TotalRevenue FlexFloat `json:"total_revenue"`
	TotalVolume  FlexInt   `json:"total_volume"`
}

type PaymentMethodUsage struct {
	PaymentMethod string  `json:"payment_method"`
	UsageCount    FlexInt `json:"usage_count"`
}

type TopProduct struct {
	ProductName  string    `json:"product_name"`
	CategoryName string    `json:"category_name"`
	TotalSold    FlexInt   `json:"total_sold"`
	TotalRevenue FlexFloat `json:"total_revenue"`
	TotalProfit  FlexFloat `json:"total_profit"`
}

type SalesReport struct {
	Summary         SalesSummary         `json:"summary"`
	SalesTrend      []SalesTrendPoint    `json:"sales_trend"`
	SalesByCategory []CategorySales      `json:"sales_by_category"`
	PaymentMethods  []PaymentMethodUsage `json:"payment_methods"`
	TopProducts     []TopProduct         `json:"top_products"`
}

type ProfitabilityRow struct {
	ProductName   string    `json:"product_name"`
	CategoryName  string    `json:"category_name"`
	CostPrice     FlexFloat `json:"cost_price"`
	SellingPrice  FlexFloat `json:"selling_price"`
	GrossProfit   FlexFloat `json:"gross_profit"`
	MarginPercent FlexFloat `json:"margin_percent"`
}

type InventorySummary struct {
	TotalProducts       FlexInt   `json:"total_products"`
	LowStockCount       FlexInt   `json:"low_stock_count"`
	OutOfStockCount     FlexInt   `json:"out_of_stock_count"`
	TotalInventoryValue FlexFloat `json:"total_inventory_value"`
}

type InventoryCategory struct {
	CategoryName  string    `json:"category_name"`
	ProductCount  FlexInt   `json:"product_count"`
	TotalStock    FlexInt   `json:"total_stock"`
	TotalValue    FlexFloat `json:"total_value"`
	LowStockCount FlexInt   `json:"low_stock_count"`
}

type AttentionProduct struct {
	ProductName  string  `json:"product_name"`
	Quantity     FlexInt `json:"quantity"`
	ReorderLevel FlexInt `json:"reorder_level"`
}

type InventoryReport struct {
	Summary                    InventorySummary   `json:"summary"`
	InventoryByCategory        []InventoryCategory `json:"inventory_by_category"`
	ProductsRequiringAttention []AttentionProduct  `json:"products_requiring_attention"`
}

type TransactionItem struct {
	ProductName string    `json:"product_name"`
	Quantity    FlexInt   `json:"quantity"`
	UnitPrice   FlexFloat `json:"unit_price"`
	TotalPrice  FlexFloat `json:"total_price"`
}

type Transaction struct {
	TransactionID   string            `json:"transaction_id"`
	TransactionDate string            `json:"transaction_date"`
	CashierName     string            `json:"cashier_name"`
	PaymentMethod   string            `json:"payment_method"`
	TotalAmount     FlexFloat         `json:"total_amount"`
	Items           []TransactionItem `json:"items"`
	AmountPaid      FlexFloat         `json:"amount_paid"`
	ChangeDue       FlexFloat         `json:"change_due"`
}
