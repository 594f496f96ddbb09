package domain

import "time"

type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferApproved TransferStatus = "approved"
	TransferRejected TransferStatus = "rejected"
)

// EligibilityCheck is the three-predicate gate governing transfer approval.
// Fields are computed, never user-supplied, and are recomputed at decision
// time before an approval is finalized.
type EligibilityCheck struct {
	SimilarUnitAvailable bool   `json:"similar_unit_available"`
	NoLatePayments       bool   `json:"no_late_payments"`
	AllInstallmentsPaid  bool   `json:"all_installments_paid"`
	Message              string `json:"message,omitempty" gorm:"type:text"`
}

// Eligible reports whether all three predicates hold.
func (e EligibilityCheck) Eligible() bool {
	return e.SimilarUnitAvailable && e.NoLatePayments && e.AllInstallmentsPaid
}

// TransferRequest is a tenant's request to move an active rent booking to a
// different unit. Approval cancels the current booking and opens a new
// pending booking on the requested property.
type TransferRequest struct {
	ID                  int64          `json:"id" gorm:"primaryKey"`
	UserID              int64          `json:"user_id" gorm:"index"`
	BookingID           int64          `json:"booking_id" gorm:"index"`
	CurrentPropertyID   int64          `json:"current_property_id"`
	RequestedPropertyID int64          `json:"requested_property_id"`
	Reason              string         `json:"reason" gorm:"type:text"`
	Status              TransferStatus `json:"status" gorm:"index"`

	Eligibility EligibilityCheck `json:"eligibility_check" gorm:"embedded;embeddedPrefix:eligibility_"`

	// Snapshot of the tenant's payment history at submission time, kept for
	// the admin view. Decisions always recompute from live installments.
	PaymentHistory []PaymentRecord `json:"payment_history,omitempty" gorm:"type:json;serializer:json"`

	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	DecidedBy       *int64     `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	NewBookingID    *int64     `json:"new_booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
