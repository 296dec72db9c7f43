package model

// Settings mirrors the backend's store configuration document. The gateway
// validates threshold consistency before any write reaches the backend:
// the low-stock threshold must sit strictly above the critical threshold,
// and out-of-stock is fixed at zero.
type Settings struct {
	StockThresholdLow      int `json:"stock_threshold_low" validate:"gte=0,gtfield=StockThresholdCritical"`
	StockThresholdCritical int `json:"stock_threshold_critical" validate:"gte=0"`
	SessionTimeout         int `json:"session_timeout" validate:"gt=0"`
	MaxLoginAttempts       int `json:"max_login_attempts" validate:"gt=0"`
}

// DefaultSettings are applied when the backend has no stored document yet.
func DefaultSettings() Settings {
	return Settings{
		StockThresholdLow:      10,
		StockThresholdCritical: 3,
		SessionTimeout:         30,
		MaxLoginAttempts:       5,
	}
}
