package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingType string

const (
	BookingRent BookingType = "rent"
	BookingSale BookingType = "sale"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is legal from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCompleted || s == BookingCancelled
}

// Blocking reports whether a booking in this status still claims the
// property for its user. At most one blocking booking may exist per
// (user, property) pair.
func (s BookingStatus) Blocking() bool {
	return s == BookingPending || s == BookingApproved || s == BookingActive
}

// Booking is one user's claim on one offer of a property.
type Booking struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	PropertyID  int64         `json:"property_id" gorm:"index:idx_booking_user_property"`
	UserID      int64         `json:"user_id" gorm:"index:idx_booking_user_property"`
	BookingType BookingType   `json:"booking_type"`
	Status      BookingStatus `json:"status" gorm:"index"`

	TotalAmount          decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2)"`
	MonthlyAmount        decimal.Decimal `json:"monthly_amount,omitempty" gorm:"type:decimal(12,2)"`
	NumberOfInstallments int             `json:"number_of_installments,omitempty"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	ContractID      *int64 `json:"contract_id,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Installments []Installment `json:"installments,omitempty" gorm:"foreignKey:BookingID"`
}
