package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is fixed for the whole marketplace.
const Currency = "QAR"

// OfferKind is resolved once at validation time from the two availability
// flags; everything downstream branches on the closed variant, not the flags.
type OfferKind string

const (
	RentOnly    OfferKind = "rent_only"
	SaleOnly    OfferKind = "sale_only"
	RentAndSale OfferKind = "both"
)

// PropertyOffer describes how a property may be transacted. A property can be
// dual-listed: rentable and sellable at the same time.
type PropertyOffer struct {
	ID         int64 `json:"id" gorm:"primaryKey"`
	PropertyID int64 `json:"property_id" gorm:"uniqueIndex"`

	AvailableForRent bool `json:"available_for_rent"`
	AvailableForSale bool `json:"available_for_sale"`

	// Rent terms; required and positive when AvailableForRent.
	RentPrice              decimal.Decimal `json:"rent_price" gorm:"type:decimal(12,2)"`
	ContractDurationMonths int             `json:"contract_duration_months"`
	NumberOfInstallments   int             `json:"number_of_installments"`
	InsuranceDeposit       decimal.Decimal `json:"insurance_deposit" gorm:"type:decimal(12,2)"`

	// Sale terms; required and positive when AvailableForSale.
	SalePrice decimal.Decimal `json:"sale_price" gorm:"type:decimal(12,2)"`

	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Kind reports the closed offer variant. ok is false when neither
// availability flag is set, which is never a valid offer.
func (o *PropertyOffer) Kind() (OfferKind, bool) {
	switch {
	case o.AvailableForRent && o.AvailableForSale:
		return RentAndSale, true
	case o.AvailableForRent:
		return RentOnly, true
	case o.AvailableForSale:
		return SaleOnly, true
	default:
		return "", false
	}
}

// Supports reports whether the offer can be booked with the given type.
func (o *PropertyOffer) Supports(t BookingType) bool {
	if t == BookingRent {
		return o.AvailableForRent
	}
	return o.AvailableForSale
}
