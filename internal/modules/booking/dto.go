package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"aqarat/internal/domain"
)

type CreateBookingRequest struct {
	UserID      int64              `json:"-"`
	PropertyID  int64              `json:"property_id" binding:"required"`
	BookingType domain.BookingType `json:"booking_type" binding:"required"`
	// StartDate defaults to today when omitted.
	StartDate time.Time `json:"start_date"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type PayInstallmentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
	// PaidAmount defaults to the scheduled amount when omitted.
	PaidAmount decimal.Decimal `json:"paid_amount"`
}
