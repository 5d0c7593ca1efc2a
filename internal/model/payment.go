package model

// Order is returned by the server before the provider-hosted checkout step.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	KeyID    string `json:"key"`
}

// PaymentVerification is what the checkout step hands back for server-side verification.
type PaymentVerification struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	PlanID    string `json:"planId,omitempty"`
}
