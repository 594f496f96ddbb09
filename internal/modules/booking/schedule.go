package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"aqarat/internal/domain"
	"aqarat/internal/pkg/money"
)

// GenerateSchedule materializes the installment plan of a rent booking:
// count installments numbered 1..count, each for the fixed monthly amount,
// due one calendar month apart starting at start.
//
// Due dates use calendar-month arithmetic with last-day clamping, not fixed
// 30-day increments: Jan 31 + 1 month is the last day of February.
//
// The result is persisted verbatim with the booking and never regenerated;
// re-running this against a live schedule would erase recorded payments.
func GenerateSchedule(start time.Time, monthly decimal.Decimal, count int) ([]domain.Installment, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: installment count must be at least 1", ErrValidation)
	}
	if !money.Positive(monthly) {
		return nil, fmt.Errorf("%w: monthly amount must be positive", ErrValidation)
	}

	amount := money.Round2(monthly)
	out := make([]domain.Installment, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, domain.Installment{
			InstallmentNumber: i,
			DueDate:           AddMonths(start, i-1),
			Amount:            amount,
			Status:            domain.InstallmentPending,
		})
	}
	return out, nil
}

// ScheduleTotal is the authoritative total of a rent booking: the fixed
// monthly amount times the installment count, exactly. No remainder is
// distributed because the monthly amount is given, not derived by division.
func ScheduleTotal(monthly decimal.Decimal, count int) decimal.Decimal {
	return money.MulInt(monthly, count)
}

// AddMonths advances t by whole calendar months, clamping the day to the
// last day of the target month. time.AddDate normalizes instead (Jan 31 + 1
// month becomes Mar 2/3), which is exactly the behavior due dates must not
// have.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	// Normalized first-of-month carries the year/month arithmetic.
	anchor := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(anchor.Year(), anchor.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(anchor.Year(), anchor.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
