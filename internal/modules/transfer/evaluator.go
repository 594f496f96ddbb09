package transfer

import (
	"strings"
	"time"

	"aqarat/internal/domain"
)

// Evaluate is the pure eligibility gate for a transfer request. It looks at
// the tenant's full rent payment history, the installments of the booking
// being transferred, and whether a similar unit is currently free.
//
// graceDays is how many days past the due date a payment may land before it
// counts as late; 0 means strictly on time.
func Evaluate(current []domain.Installment, history []domain.PaymentRecord, similarAvailable bool, graceDays int, now time.Time) domain.EligibilityCheck {
	check := domain.EligibilityCheck{
		SimilarUnitAvailable: similarAvailable,
		NoLatePayments:       noLatePayments(history, graceDays, now),
		AllInstallmentsPaid:  allDuePaid(current, now),
	}
	check.Message = summarize(check)
	return check
}

// noLatePayments fails on any payment recorded after its grace window, on
// any installment swept to overdue, and on any pending installment already
// past due. A late payment stays on the record even after it is settled.
func noLatePayments(history []domain.PaymentRecord, graceDays int, now time.Time) bool {
	for _, rec := range history {
		switch rec.Status {
		case domain.InstallmentPaid:
			if rec.PaidAt != nil && rec.PaidAt.After(rec.DueDate.AddDate(0, 0, graceDays)) {
				return false
			}
		case domain.InstallmentOverdue:
			return false
		case domain.InstallmentPending:
			if rec.DueDate.Before(now) {
				return false
			}
		}
	}
	return true
}

// allDuePaid checks the booking under transfer: every installment that has
// come due must be settled. Future installments do not count against the
// tenant.
func allDuePaid(current []domain.Installment, now time.Time) bool {
	for _, inst := range current {
		if inst.DueDate.After(now) {
			continue
		}
		if inst.Status != domain.InstallmentPaid {
			return false
		}
	}
	return true
}

func summarize(check domain.EligibilityCheck) string {
	if check.Eligible() {
		return "eligible for transfer"
	}

	var reasons []string
	if !check.SimilarUnitAvailable {
		reasons = append(reasons, "no similar unit is currently available for rent")
	}
	if !check.NoLatePayments {
		reasons = append(reasons, "payment history shows late or overdue installments")
	}
	if !check.AllInstallmentsPaid {
		reasons = append(reasons, "not all due installments on the current booking are settled")
	}
	return strings.Join(reasons, "; ")
}
