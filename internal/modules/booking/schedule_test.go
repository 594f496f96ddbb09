package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"aqarat/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSchedule_TotalInvariant(t *testing.T) {
	monthly := decimal.RequireFromString("4166.67")

	for _, count := range []int{1, 3, 12, 24, 48} {
		schedule, err := GenerateSchedule(date(2024, time.March, 1), monthly, count)
		assert.NoError(t, err)
		assert.Len(t, schedule, count)

		sum := decimal.Zero
		for i, inst := range schedule {
			assert.Equal(t, i+1, inst.InstallmentNumber)
			assert.Equal(t, domain.InstallmentPending, inst.Status)
			sum = sum.Add(inst.Amount)
		}
		assert.True(t, sum.Equal(ScheduleTotal(monthly, count)),
			"count=%d sum=%s total=%s", count, sum, ScheduleTotal(monthly, count))
	}
}

func TestGenerateSchedule_CalendarRollover(t *testing.T) {
	schedule, err := GenerateSchedule(date(2024, time.January, 31), decimal.NewFromInt(1000), 3)
	assert.NoError(t, err)

	// Jan 31 -> Feb 29 (leap) -> Mar 31: last-day clamping, not +30 days.
	assert.Equal(t, date(2024, time.January, 31), schedule[0].DueDate)
	assert.Equal(t, date(2024, time.February, 29), schedule[1].DueDate)
	assert.Equal(t, date(2024, time.March, 31), schedule[2].DueDate)
}

func TestGenerateSchedule_NonLeapFebruary(t *testing.T) {
	schedule, err := GenerateSchedule(date(2023, time.January, 30), decimal.NewFromInt(1000), 2)
	assert.NoError(t, err)
	assert.Equal(t, date(2023, time.February, 28), schedule[1].DueDate)
}

func TestGenerateSchedule_MidMonthKeepsDay(t *testing.T) {
	schedule, err := GenerateSchedule(date(2024, time.April, 15), decimal.NewFromInt(2500), 12)
	assert.NoError(t, err)
	for i, inst := range schedule {
		assert.Equal(t, 15, inst.DueDate.Day(), "installment %d", i+1)
	}
	assert.Equal(t, date(2025, time.March, 15), schedule[11].DueDate)
}

func TestGenerateSchedule_ZeroCountIsValidationError(t *testing.T) {
	_, err := GenerateSchedule(date(2024, time.January, 1), decimal.NewFromInt(1000), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateSchedule_NonPositiveAmount(t *testing.T) {
	_, err := GenerateSchedule(date(2024, time.January, 1), decimal.Zero, 12)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddMonths_YearBoundary(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 31), AddMonths(date(2024, time.December, 31), 1))
	assert.Equal(t, date(2026, time.February, 28), AddMonths(date(2024, time.February, 29), 24))
}
