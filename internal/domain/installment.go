package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "pending"
	InstallmentPaid      InstallmentStatus = "paid"
	InstallmentOverdue   InstallmentStatus = "overdue"
	InstallmentCancelled InstallmentStatus = "cancelled"
)

// Settled reports whether the installment can no longer be paid.
// Paid and cancelled installments are immutable.
func (s InstallmentStatus) Settled() bool {
	return s == InstallmentPaid || s == InstallmentCancelled
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Installment is one scheduled monthly payment within a rent booking.
// The persisted status only moves to overdue through the sweep job;
// read paths derive the overdue view instead (booking.ApplyOverdueView).
type Installment struct {
	ID                int64             `json:"id" gorm:"primaryKey"`
	BookingID         int64             `json:"booking_id" gorm:"uniqueIndex:idx_booking_installment,priority:1"`
	InstallmentNumber int               `json:"installment_number" gorm:"uniqueIndex:idx_booking_installment,priority:2"`
	DueDate           time.Time         `json:"due_date" gorm:"index"`
	Amount            decimal.Decimal   `json:"amount" gorm:"type:decimal(12,2)"`
	Status            InstallmentStatus `json:"status"`
	PaymentMethod     PaymentMethod     `json:"payment_method,omitempty"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	PaidAmount        decimal.Decimal   `json:"paid_amount,omitempty" gorm:"type:decimal(12,2)"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// PaymentRecord is the read-model row used by transfer eligibility: one
// installment of one of the tenant's rent bookings. Derived, never persisted.
type PaymentRecord struct {
	BookingID         int64             `json:"booking_id"`
	InstallmentNumber int               `json:"installment_number"`
	DueDate           time.Time         `json:"due_date"`
	Status            InstallmentStatus `json:"status"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
}
