package contract

import (
	"fmt"

	"aqarat/internal/domain"
)

// TermsFor renders the standard clause set for a contract. The clauses are
// fixed per contract type; only the figures come from the booking.
func TermsFor(t domain.ContractType, b *domain.Booking) []string {
	switch t {
	case domain.ContractRent:
		return rentTerms(b)
	default:
		return saleTerms(b)
	}
}

func rentTerms(b *domain.Booking) []string {
	duration := fmt.Sprintf("The lease starts %s.", b.StartDate.Format("2 January 2006"))
	if b.EndDate != nil {
		duration = fmt.Sprintf("The lease runs from %s to %s.",
			b.StartDate.Format("2 January 2006"), b.EndDate.Format("2 January 2006"))
	}
	return []string{
		duration,
		fmt.Sprintf("The total contract value is %s %s, payable in %d monthly installments of %s %s each.",
			b.TotalAmount, domain.Currency, b.NumberOfInstallments, b.MonthlyAmount, domain.Currency),
		"Installments are due on the monthly anniversary of the start date; post-dated payment instruments are accepted for the full schedule.",
		"The tenant may request a transfer to a similar unit once all due installments are settled and no late payments are on record.",
		"A commitment reward applies when every installment of the schedule is settled on or before its due date.",
		"Electronic signatures recorded on this contract are binding on both parties.",
		"The security deposit is refundable at the end of the lease, less any documented damages.",
	}
}

func saleTerms(b *domain.Booking) []string {
	return []string{
		fmt.Sprintf("The purchase price is %s %s, payable in full on completion.",
			b.TotalAmount, domain.Currency),
		"Title transfers to the buyer upon full payment and registration.",
		"Electronic signatures recorded on this contract are binding on both parties.",
	}
}
