package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aqarat/internal/domain"
)

var evalNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func paidOn(due, paid time.Time) domain.PaymentRecord {
	return domain.PaymentRecord{DueDate: due, Status: domain.InstallmentPaid, PaidAt: &paid}
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate_AllPredicatesPass(t *testing.T) {
	history := []domain.PaymentRecord{
		paidOn(day(1), day(1)),
		paidOn(day(5), day(4)),
	}
	current := []domain.Installment{
		{InstallmentNumber: 1, DueDate: day(1), Status: domain.InstallmentPaid},
		{InstallmentNumber: 2, DueDate: day(20), Status: domain.InstallmentPending},
	}

	check := Evaluate(current, history, true, 0, evalNow)
	assert.True(t, check.Eligible())
	assert.Equal(t, "eligible for transfer", check.Message)
}

func TestEvaluate_LatePaymentStaysOnRecord(t *testing.T) {
	// Settled, but three days past due with zero grace.
	history := []domain.PaymentRecord{paidOn(day(1), day(4))}
	current := []domain.Installment{
		{InstallmentNumber: 1, DueDate: day(1), Status: domain.InstallmentPaid},
	}

	check := Evaluate(current, history, true, 0, evalNow)
	assert.False(t, check.NoLatePayments)
	assert.True(t, check.AllInstallmentsPaid)
	assert.False(t, check.Eligible())
	assert.Contains(t, check.Message, "late or overdue")

	// The same payment is fine under a wider grace window.
	check = Evaluate(current, history, true, 5, evalNow)
	assert.True(t, check.NoLatePayments)
}

func TestEvaluate_OverdueInstallmentFailsBothWays(t *testing.T) {
	overdue := domain.PaymentRecord{DueDate: day(1), Status: domain.InstallmentPending}
	current := []domain.Installment{
		{InstallmentNumber: 1, DueDate: day(1), Status: domain.InstallmentPending},
	}

	check := Evaluate(current, []domain.PaymentRecord{overdue}, true, 0, evalNow)
	assert.False(t, check.NoLatePayments)
	assert.False(t, check.AllInstallmentsPaid)

	// Swept records count the same as derived ones.
	swept := domain.PaymentRecord{DueDate: day(1), Status: domain.InstallmentOverdue}
	check = Evaluate(current, []domain.PaymentRecord{swept}, true, 0, evalNow)
	assert.False(t, check.NoLatePayments)
}

func TestEvaluate_FutureInstallmentsDoNotCount(t *testing.T) {
	current := []domain.Installment{
		{InstallmentNumber: 1, DueDate: day(1), Status: domain.InstallmentPaid},
		{InstallmentNumber: 2, DueDate: day(30), Status: domain.InstallmentPending},
	}

	check := Evaluate(current, nil, true, 0, evalNow)
	assert.True(t, check.AllInstallmentsPaid)
}

func TestEvaluate_NoSimilarUnit(t *testing.T) {
	check := Evaluate(nil, nil, false, 0, evalNow)
	assert.False(t, check.Eligible())
	assert.True(t, check.NoLatePayments)
	assert.True(t, check.AllInstallmentsPaid)
	assert.Contains(t, check.Message, "no similar unit")
}

func TestEvaluate_PayingLateDoesNotRestoreEligibility(t *testing.T) {
	// The overdue installment gets settled, late. Full settlement recovers,
	// punctuality does not.
	history := []domain.PaymentRecord{paidOn(day(1), day(10))}
	current := []domain.Installment{
		{InstallmentNumber: 1, DueDate: day(1), Status: domain.InstallmentPaid},
	}

	check := Evaluate(current, history, true, 0, evalNow)
	assert.True(t, check.AllInstallmentsPaid)
	assert.False(t, check.NoLatePayments)
	assert.False(t, check.Eligible())
}
