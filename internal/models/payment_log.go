package models

import "time"

type PaymentStatus string

// The mock payment only writes SUCCESS; FAILED mirrors the payment_logs.status
// column values.
const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentLog is the append-only audit row written for every successful
// listing payment.
type PaymentLog struct {
	ID          int           `json:"id"`
	PropertyID  int           `json:"property_id"`
	OwnerID     int           `json:"owner_id"`
	AmountPaid  float64       `json:"amount_paid"`
	PaymentDate time.Time     `json:"payment_date"`
	Status      PaymentStatus `json:"status"`
}

type PayRequest struct {
	PropertyID int `json:"property_id"`
}

type PayResponse struct {
	Message    string     `json:"message"`
	Amount     float64    `json:"amount"`
	PropertyID int        `json:"property_id"`
	IsPaid     bool       `json:"is_paid"`
	PaidUntil  *time.Time `json:"paid_until"`
}
