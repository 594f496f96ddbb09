package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractType string

const (
	ContractRent ContractType = "rent"
	ContractSale ContractType = "sale"
)

type ContractStatus string

const (
	ContractDraft            ContractStatus = "draft"
	ContractPendingSignature ContractStatus = "pending_signature"
	ContractActive           ContractStatus = "active"
	ContractCompleted        ContractStatus = "completed"
	ContractCancelled        ContractStatus = "cancelled"
	ContractTerminated       ContractStatus = "terminated"
)

// SignerRole identifies which party of the contract is signing. For sale
// contracts "tenant" is the buyer and "landlord" is the seller.
type SignerRole string

const (
	SignerTenant   SignerRole = "tenant"
	SignerLandlord SignerRole = "landlord"
)

// Contract is the legal document bound to a booking. It requires both
// electronic signatures before it may report active; contract state is the
// legal source of truth and is never fixed up implicitly.
type Contract struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	Number       string         `json:"number" gorm:"uniqueIndex"`
	BookingID    int64          `json:"booking_id" gorm:"uniqueIndex"`
	ContractType ContractType   `json:"contract_type"`
	Status       ContractStatus `json:"status"`

	TenantID   int64 `json:"tenant_id" gorm:"index"`
	LandlordID int64 `json:"landlord_id" gorm:"index"`

	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`

	Terms []string `json:"terms" gorm:"type:json;serializer:json"`

	ElectronicSignatureTenant   string     `json:"electronic_signature_tenant,omitempty"`
	ElectronicSignatureLandlord string     `json:"electronic_signature_landlord,omitempty"`
	SignedAtTenant              *time.Time `json:"signed_at_tenant,omitempty"`
	SignedAtLandlord            *time.Time `json:"signed_at_landlord,omitempty"`

	CancellationRequestedAt *time.Time `json:"cancellation_requested_at,omitempty"`
	CancellationReason      string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancellationRequestedBy SignerRole `json:"cancellation_requested_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignedBy reports whether the given role has already signed.
func (c *Contract) SignedBy(role SignerRole) bool {
	if role == SignerTenant {
		return c.SignedAtTenant != nil
	}
	return c.SignedAtLandlord != nil
}

// FullySigned reports whether both parties have signed.
func (c *Contract) FullySigned() bool {
	return c.SignedAtTenant != nil && c.SignedAtLandlord != nil
}

// HasPendingCancellation reports whether a cancellation request awaits an
// admin decision.
func (c *Contract) HasPendingCancellation() bool {
	return c.CancellationRequestedAt != nil
}
