package offer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"aqarat/internal/domain"
)

func validRentOffer() *domain.PropertyOffer {
	return &domain.PropertyOffer{
		PropertyID:             1,
		AvailableForRent:       true,
		RentPrice:              decimal.NewFromInt(5000),
		ContractDurationMonths: 12,
		NumberOfInstallments:   12,
		InsuranceDeposit:       decimal.NewFromInt(5000),
		Currency:               domain.Currency,
	}
}

func TestValidate_RentOffer(t *testing.T) {
	assert.NoError(t, Validate(validRentOffer()))
}

func TestValidate_SaleOffer(t *testing.T) {
	o := &domain.PropertyOffer{
		PropertyID:       1,
		AvailableForSale: true,
		SalePrice:        decimal.NewFromInt(1_200_000),
	}
	assert.NoError(t, Validate(o))
}

func TestValidate_DualListing(t *testing.T) {
	o := validRentOffer()
	o.AvailableForSale = true
	o.SalePrice = decimal.NewFromInt(900_000)

	assert.NoError(t, Validate(o))

	kind, ok := o.Kind()
	assert.True(t, ok)
	assert.Equal(t, domain.RentAndSale, kind)
}

func TestValidate_NeitherRentNorSale(t *testing.T) {
	o := &domain.PropertyOffer{PropertyID: 1}

	err := Validate(o)
	assert.ErrorIs(t, err, ErrValidation)

	_, ok := o.Kind()
	assert.False(t, ok)
}

func TestValidate_RentOfferMissingTerms(t *testing.T) {
	o := validRentOffer()
	o.ContractDurationMonths = 0
	o.InsuranceDeposit = decimal.Zero

	err := Validate(o)
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "contract_duration_months")
	assert.Contains(t, ve.Fields, "insurance_deposit")
	assert.NotContains(t, ve.Fields, "rent_price")
}

func TestValidate_NonPositivePrices(t *testing.T) {
	o := validRentOffer()
	o.RentPrice = decimal.NewFromInt(-100)
	assert.ErrorIs(t, Validate(o), ErrValidation)

	s := &domain.PropertyOffer{AvailableForSale: true, SalePrice: decimal.Zero}
	assert.ErrorIs(t, Validate(s), ErrValidation)
}

func TestValidate_ForeignCurrencyRejected(t *testing.T) {
	o := validRentOffer()
	o.Currency = "USD"
	assert.ErrorIs(t, Validate(o), ErrValidation)
}
