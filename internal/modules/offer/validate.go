package offer

import (
	"aqarat/internal/domain"
	"aqarat/internal/pkg/money"
)

// Validate checks an offer against the marketplace rules. It is a pure
// function with no side effects, used as the gate before any booking may be
// created against the offer.
//
// An offer must be transactable at least one way. A rentable offer carries
// the full rent terms (price, duration, installment count, deposit), all
// positive; a sellable offer carries a positive sale price.
func Validate(o *domain.PropertyOffer) error {
	fields := map[string]string{}

	if _, ok := o.Kind(); !ok {
		fields["available_for_rent"] = "at least one of rent/sale must be available"
	}

	if o.AvailableForRent {
		if !money.Positive(o.RentPrice) {
			fields["rent_price"] = "required and must be positive for rent offers"
		}
		if o.ContractDurationMonths <= 0 {
			fields["contract_duration_months"] = "required and must be positive for rent offers"
		}
		if o.NumberOfInstallments <= 0 {
			fields["number_of_installments"] = "required and must be positive for rent offers"
		}
		if !money.Positive(o.InsuranceDeposit) {
			fields["insurance_deposit"] = "required and must be positive for rent offers"
		}
	}

	if o.AvailableForSale {
		if !money.Positive(o.SalePrice) {
			fields["sale_price"] = "required and must be positive for sale offers"
		}
	}

	if o.Currency != "" && o.Currency != domain.Currency {
		fields["currency"] = "only " + domain.Currency + " is supported"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
