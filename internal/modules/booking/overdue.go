package booking

import (
	"time"

	"aqarat/internal/domain"
)

// DisplayStatus derives what an installment should read as right now: a
// pending installment past its due date is shown overdue. The persisted
// status only changes through the sweep job, so concurrent reads never
// mutate state and every screen derives the same answer.
func DisplayStatus(inst domain.Installment, now time.Time) domain.InstallmentStatus {
	if inst.Status == domain.InstallmentPending && inst.DueDate.Before(now) {
		return domain.InstallmentOverdue
	}
	return inst.Status
}

// ApplyOverdueView rewrites the booking's installment statuses with their
// derived display values. The input is mutated in place; callers pass their
// own copy, never a cached one.
func ApplyOverdueView(b *domain.Booking, now time.Time) {
	for i := range b.Installments {
		b.Installments[i].Status = DisplayStatus(b.Installments[i], now)
	}
}
