package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"aqarat/internal/domain"
	"aqarat/internal/repository"
)

type fakeContracts struct {
	nextID     int64
	status     domain.ContractStatus
	draftErr   error
	drafts     []int64
	completed  []int64
	closed     []int64
	closeNotes []string
}

func (f *fakeContracts) CreateDraft(_ context.Context, b *domain.Booking, _ int64) (*domain.Contract, error) {
	if f.draftErr != nil {
		return nil, f.draftErr
	}
	f.nextID++
	f.drafts = append(f.drafts, b.ID)
	return &domain.Contract{ID: f.nextID, BookingID: b.ID}, nil
}

func (f *fakeContracts) StatusForBooking(context.Context, int64) (domain.ContractStatus, error) {
	if f.status == "" {
		return domain.ContractDraft, nil
	}
	return f.status, nil
}

func (f *fakeContracts) MarkCompleted(_ context.Context, bookingID int64) error {
	f.completed = append(f.completed, bookingID)
	return nil
}

func (f *fakeContracts) CloseForBooking(_ context.Context, bookingID int64, reason string) error {
	f.closed = append(f.closed, bookingID)
	f.closeNotes = append(f.closeNotes, reason)
	return nil
}

func setupBookingService(t *testing.T) (*Service, *fakeContracts, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:booking_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		},
	)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.PropertyOffer{},
		&domain.Booking{},
		&domain.Installment{},
	))

	contracts := &fakeContracts{}
	svc := NewService(
		repository.NewBookingRepository(db),
		repository.NewPropertyRepository(db),
		contracts,
		zerolog.Nop(),
	)
	return svc, contracts, db
}

func seedRentProperty(t *testing.T, db *gorm.DB, ownerID int64) *domain.Property {
	t.Helper()

	p := &domain.Property{
		OwnerID: ownerID,
		Title:   "Two-bedroom in Lusail",
		Type:    domain.PropertyApartment,
		City:    "Doha",
		AreaSqm: 120,
		Status:  domain.PropertyActive,
	}
	require.NoError(t, db.Create(p).Error)

	offer := &domain.PropertyOffer{
		PropertyID:             p.ID,
		AvailableForRent:       true,
		AvailableForSale:       true,
		RentPrice:              decimal.NewFromInt(5000),
		ContractDurationMonths: 12,
		NumberOfInstallments:   12,
		InsuranceDeposit:       decimal.NewFromInt(5000),
		SalePrice:              decimal.NewFromInt(900000),
		Currency:               domain.Currency,
	}
	require.NoError(t, db.Create(offer).Error)
	p.Offer = offer
	return p
}

func TestCreateRentBooking_MaterializesSchedule(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	start := date(2024, time.March, 1)
	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID:      10,
		PropertyID:  p.ID,
		BookingType: domain.BookingRent,
		StartDate:   start,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 12, b.NumberOfInstallments)
	assert.True(t, b.MonthlyAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(60000)), "total=%s", b.TotalAmount)
	require.NotNil(t, b.EndDate)
	assert.Equal(t, date(2025, time.March, 1), *b.EndDate)

	// The schedule persists with the booking.
	loaded, err := svc.GetByID(ctx, b.ID, 10, domain.RoleClient)
	require.NoError(t, err)
	require.Len(t, loaded.Installments, 12)
	for i, inst := range loaded.Installments {
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.True(t, inst.Amount.Equal(b.MonthlyAmount))
	}
	assert.Equal(t, date(2025, time.February, 1), loaded.Installments[11].DueDate)

	// A draft contract opened alongside.
	assert.Equal(t, []int64{b.ID}, contracts.drafts)
	require.NotNil(t, b.ContractID)
}

func TestCreateSaleBooking_NoSchedule(t *testing.T) {
	svc, _, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		UserID:      10,
		PropertyID:  p.ID,
		BookingType: domain.BookingSale,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, b.Status)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(900000)))
	assert.Empty(t, b.Installments)
	assert.Nil(t, b.EndDate)
}

func TestCreateBooking_UnsupportedType(t *testing.T) {
	svc, _, db := setupBookingService(t)

	p := seedRentProperty(t, db, 2)
	require.NoError(t, db.Model(&domain.PropertyOffer{}).
		Where("property_id = ?", p.ID).
		Update("available_for_sale", false).Error)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		UserID:      10,
		PropertyID:  p.ID,
		BookingType: domain.BookingSale,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBooking_DuplicateOpenBooking(t *testing.T) {
	svc, _, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingSale,
	})
	var dup *DuplicateBookingError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.ExistingBookingID)
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// Another user is not blocked by the first user's booking.
	_, err = svc.Create(ctx, CreateBookingRequest{
		UserID: 11, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	// A closed booking releases the pair.
	_, err = svc.Cancel(ctx, first.ID, "changed plans")
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)
}

func TestApproveBooking_WaitsForContract(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	contracts.status = domain.ContractPendingSignature
	approved, err := svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, approved.Status)

	// Approving twice loses to the state machine.
	_, err = svc.Approve(ctx, b.ID)
	var inv *InvalidTransitionError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, string(domain.BookingApproved), inv.From)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveBooking_ActivatesWhenContractSigned(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	// Both parties signed before the admin got to the queue.
	contracts.status = domain.ContractActive
	approved, err := svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingActive, approved.Status)
}

func TestRejectBooking_RequiresReason(t *testing.T) {
	svc, _, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, b.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	rejected, err := svc.Reject(ctx, b.ID, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRejected, rejected.Status)
	assert.Equal(t, "incomplete documents", rejected.RejectionReason)

	// Rejection is terminal.
	_, err = svc.Approve(ctx, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkInstallmentPaid_Lifecycle(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	require.NoError(t, db.Model(&domain.PropertyOffer{}).
		Where("property_id = ?", p.ID).
		Update("number_of_installments", 3).Error)

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)

	// Payments require an active booking.
	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 1, domain.PaymentCard, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	contracts.status = domain.ContractActive
	_, err = svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	inst, err := svc.MarkInstallmentPaid(ctx, b.ID, 1, domain.PaymentCard, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentPaid, inst.Status)
	assert.Equal(t, domain.PaymentCard, inst.PaymentMethod)
	assert.True(t, inst.PaidAmount.Equal(inst.Amount))
	require.NotNil(t, inst.PaidAt)

	// The cash desk loses the race it arrived second to.
	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 1, domain.PaymentCash, decimal.Zero)
	var settled *AlreadySettledError
	require.ErrorAs(t, err, &settled)
	assert.Equal(t, 1, settled.InstallmentNumber)
	assert.ErrorIs(t, err, ErrAlreadySettled)

	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 2, domain.PaymentCash, decimal.Zero)
	require.NoError(t, err)

	assert.Empty(t, contracts.completed)

	// Settling the last open installment completes the booking.
	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 3, domain.PaymentCard, decimal.Zero)
	require.NoError(t, err)

	done, err := svc.GetByID(ctx, b.ID, 10, domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, done.Status)
	assert.Equal(t, []int64{b.ID}, contracts.completed)
}

func TestMarkInstallmentPaid_Validation(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)
	contracts.status = domain.ContractActive
	_, err = svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 1, "wire", decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 99, domain.PaymentCard, decimal.Zero)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_VoidsOpenInstallments(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent,
	})
	require.NoError(t, err)
	contracts.status = domain.ContractActive
	_, err = svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.MarkInstallmentPaid(ctx, b.ID, 1, domain.PaymentCard, decimal.Zero)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID, "tenant relocated")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, []int64{b.ID}, contracts.closed)
	assert.Equal(t, []string{"tenant relocated"}, contracts.closeNotes)

	// The paid installment stays paid; the rest of the schedule is voided.
	for _, inst := range cancelled.Installments {
		if inst.InstallmentNumber == 1 {
			assert.Equal(t, domain.InstallmentPaid, inst.Status)
		} else {
			assert.Equal(t, domain.InstallmentCancelled, inst.Status)
		}
	}

	// Cancelled is terminal.
	_, err = svc.Cancel(ctx, b.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetBooking_OwnershipAndOverdueView(t *testing.T) {
	svc, contracts, db := setupBookingService(t)
	p := seedRentProperty(t, db, 2)
	ctx := context.Background()

	start := time.Now().UTC().AddDate(0, -2, 0)
	b, err := svc.Create(ctx, CreateBookingRequest{
		UserID: 10, PropertyID: p.ID, BookingType: domain.BookingRent, StartDate: start,
	})
	require.NoError(t, err)
	contracts.status = domain.ContractActive
	_, err = svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, b.ID, 99, domain.RoleClient)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins see everything.
	_, err = svc.GetByID(ctx, b.ID, 99, domain.RoleAdmin)
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, b.ID, 10, domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentOverdue, loaded.Installments[0].Status)
	assert.Equal(t, domain.InstallmentOverdue, loaded.Installments[1].Status)
	assert.Equal(t, domain.InstallmentPending, loaded.Installments[11].Status)

	// The view is derived on read, never written back.
	var persisted domain.Installment
	require.NoError(t, db.
		Where("booking_id = ? AND installment_number = ?", b.ID, 1).
		First(&persisted).Error)
	assert.Equal(t, domain.InstallmentPending, persisted.Status)
}

func TestListByStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := setupBookingService(t)

	_, err := svc.ListByStatus(context.Background(), "vanished")
	assert.ErrorIs(t, err, ErrValidation)
}
