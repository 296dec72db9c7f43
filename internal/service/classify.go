package service

// Margin status buckets. Ties resolve toward the adjacent bucket exactly as
// displayed on the dashboard: 50 is Excellent, 30 is Average, 29.99 is Poor.
const (
	StatusExcellent = "Excellent"
	StatusAverage   = "Average"
	StatusPoor      = "Poor"
)

func MarginStatus(marginPercent float64) string {
	switch {
	case marginPercent >= 50:
		return StatusExcellent
	case marginPercent < 30:
		return StatusPoor
	default:
		return StatusAverage
	}
}

// Stock status for products in the requires-attention list. Inclusion in
// the list already implies quantity <= reorder level, so anything above
// zero is low stock.
const (
	StatusOutOfStock = "Out of Stock"
	StatusLowStock   = "Low Stock"
)

func StockStatus(quantity int64) string {
	if quantity == 0 {
		return StatusOutOfStock
	}
	return StatusLowStock
}
