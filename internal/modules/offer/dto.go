package offer

import "github.com/shopspring/decimal"

type UpsertOfferRequest struct {
	AvailableForRent bool `json:"available_for_rent"`
	AvailableForSale bool `json:"available_for_sale"`

	RentPrice              decimal.Decimal `json:"rent_price"`
	ContractDurationMonths int             `json:"contract_duration_months"`
	NumberOfInstallments   int             `json:"number_of_installments"`
	InsuranceDeposit       decimal.Decimal `json:"insurance_deposit"`

	SalePrice decimal.Decimal `json:"sale_price"`
}
