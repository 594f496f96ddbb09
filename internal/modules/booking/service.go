package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"aqarat/internal/domain"
	"aqarat/internal/modules/offer"
	"aqarat/internal/pkg/money"
)

type Service struct {
	bookings  BookingRepository
	props     PropertyReader
	contracts ContractManager
	log       zerolog.Logger
}

func NewService(bookings BookingRepository, props PropertyReader, contracts ContractManager, log zerolog.Logger) *Service {
	return &Service{
		bookings:  bookings,
		props:     props,
		contracts: contracts,
		log:       log,
	}
}

// Create opens a pending booking against the property's offer. The offer
// must validate for the chosen type, and the user must not already hold an
// open booking on the property.
//
// For rent bookings the installment schedule is materialized here, with the
// booking itself, and persisted verbatim; the schedule-derived total is
// authoritative.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.BookingType != domain.BookingRent && req.BookingType != domain.BookingSale {
		return nil, fmt.Errorf("%w: booking_type must be rent or sale", ErrValidation)
	}

	p, err := s.props.GetByID(ctx, req.PropertyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: property %d", ErrNotFound, req.PropertyID)
	}
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PropertyActive {
		return nil, fmt.Errorf("%w: property is not listed", ErrValidation)
	}
	if p.Offer == nil {
		return nil, fmt.Errorf("%w: property has no offer", ErrValidation)
	}
	if err := offer.Validate(p.Offer); err != nil {
		return nil, err
	}
	if !p.Offer.Supports(req.BookingType) {
		return nil, fmt.Errorf("%w: property is not offered for %s", ErrValidation, req.BookingType)
	}

	if existing, err := s.bookings.FindBlocking(ctx, req.UserID, req.PropertyID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &DuplicateBookingError{ExistingBookingID: existing.ID}
	}

	start := req.StartDate
	if start.IsZero() {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	b := &domain.Booking{
		PropertyID:  req.PropertyID,
		UserID:      req.UserID,
		BookingType: req.BookingType,
		Status:      domain.BookingPending,
		StartDate:   start,
	}

	switch req.BookingType {
	case domain.BookingRent:
		monthly := money.Round2(p.Offer.RentPrice)
		count := p.Offer.NumberOfInstallments

		schedule, err := GenerateSchedule(start, monthly, count)
		if err != nil {
			return nil, err
		}

		end := AddMonths(start, p.Offer.ContractDurationMonths)
		b.MonthlyAmount = monthly
		b.NumberOfInstallments = count
		b.TotalAmount = ScheduleTotal(monthly, count)
		b.EndDate = &end
		b.Installments = schedule

	case domain.BookingSale:
		b.TotalAmount = money.Round2(p.Offer.SalePrice)
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if dup := s.mapDuplicateCreate(ctx, req.UserID, req.PropertyID, err); dup != nil {
			return nil, dup
		}
		return nil, err
	}

	// The contract draft opens with the booking. A failure here is not fatal
	// to the booking; the draft endpoint can be retried explicitly.
	if s.contracts != nil {
		c, err := s.contracts.CreateDraft(ctx, b, p.OwnerID)
		if err != nil {
			s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("contract draft failed")
		} else {
			b.ContractID = &c.ID
		}
	}

	return b, nil
}

// mapDuplicateCreate turns a unique-index violation on the open-booking
// index into DuplicateBookingError. The index is the backstop for the race
// the FindBlocking pre-check cannot close.
func (s *Service) mapDuplicateCreate(ctx context.Context, userID, propertyID int64, err error) error {
	var pgErr *pgconn.PgError
	isDup := errors.Is(err, gorm.ErrDuplicatedKey)
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "idx_one_open_booking") {
		isDup = true
	}
	if !isDup {
		return nil
	}

	existing, ferr := s.bookings.FindBlocking(ctx, userID, propertyID)
	if ferr != nil || existing == nil {
		return &DuplicateBookingError{}
	}
	return &DuplicateBookingError{ExistingBookingID: existing.ID}
}

// Approve moves a pending booking to approved. Activation waits for the
// contract: money never moves before both signatures land. If the contract
// is already fully signed by the time the admin approves, the booking
// activates immediately.
func (s *Service) Approve(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingPending}, domain.BookingApproved, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionErr(ctx, bookingID, "approve")
	}

	if s.contracts != nil {
		status, err := s.contracts.StatusForBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if status == domain.ContractActive {
			if _, err := s.bookings.UpdateStatusIf(ctx, bookingID,
				[]domain.BookingStatus{domain.BookingApproved}, domain.BookingActive, nil); err != nil {
				return nil, err
			}
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// Reject is terminal and requires a reason; admins are accountable for
// every rejection.
func (s *Service) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingPending}, domain.BookingRejected,
		map[string]any{"rejection_reason": reason})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionErr(ctx, bookingID, "reject")
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// Activate moves an approved booking to active. Only the contract module
// calls this, after both signatures are recorded.
func (s *Service) Activate(ctx context.Context, bookingID int64) error {
	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingApproved}, domain.BookingActive, nil)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionErr(ctx, bookingID, "activate")
	}
	return nil
}

// MarkInstallmentPaid settles one installment of an active booking. The
// same installment is paid at most once: the loser of a cash-desk vs
// card-callback race gets AlreadySettledError, never a second credit.
// Settling the final open installment completes the booking.
func (s *Service) MarkInstallmentPaid(ctx context.Context, bookingID int64, number int, method domain.PaymentMethod, paidAmount decimal.Decimal) (*domain.Installment, error) {
	if method != domain.PaymentCard && method != domain.PaymentCash {
		return nil, fmt.Errorf("%w: payment_method must be card or cash", ErrValidation)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingActive {
		return nil, &InvalidTransitionError{From: string(b.Status), Event: "record payment"}
	}

	inst, err := s.bookings.GetInstallment(ctx, bookingID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: installment %d", ErrNotFound, number)
	}
	if err != nil {
		return nil, err
	}

	if paidAmount.IsZero() {
		paidAmount = inst.Amount
	}
	if !money.Positive(paidAmount) {
		return nil, fmt.Errorf("%w: paid_amount must be positive", ErrValidation)
	}

	ok, err := s.bookings.MarkInstallmentPaid(ctx, bookingID, number, method, money.Round2(paidAmount), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &AlreadySettledError{BookingID: bookingID, InstallmentNumber: number}
	}

	// Completion is decided from the latest installment set, not the copy
	// loaded above.
	open, err := s.bookings.CountOpenInstallments(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if open == 0 {
		if _, err := s.bookings.UpdateStatusIf(ctx, bookingID,
			[]domain.BookingStatus{domain.BookingActive}, domain.BookingCompleted, nil); err != nil {
			return nil, err
		}
		if s.contracts != nil {
			if err := s.contracts.MarkCompleted(ctx, bookingID); err != nil {
				s.log.Error().Err(err).Int64("booking_id", bookingID).Msg("contract completion failed")
			}
		}
	}

	return s.bookings.GetInstallment(ctx, bookingID, number)
}

// Cancel is legal from any non-terminal state. It also voids the remaining
// schedule and closes the linked contract. Approved transfers go through
// here too.
func (s *Service) Cancel(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	now := time.Now().UTC()
	ok, err := s.bookings.UpdateStatusIf(ctx, bookingID,
		statusesAllowing(domain.BookingCancelled), domain.BookingCancelled,
		map[string]any{"cancelled_at": &now})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionErr(ctx, bookingID, "cancel")
	}

	if err := s.bookings.CancelOpenInstallments(ctx, bookingID); err != nil {
		return nil, err
	}
	if s.contracts != nil {
		if err := s.contracts.CloseForBooking(ctx, bookingID, reason); err != nil {
			s.log.Error().Err(err).Int64("booking_id", bookingID).Msg("contract close failed")
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// GetByID returns the booking with the overdue view applied. Non-admins see
// only their own bookings.
func (s *Service) GetByID(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && b.UserID != actorID {
		return nil, ErrForbidden
	}
	ApplyOverdueView(b, time.Now().UTC())
	return b, nil
}

func (s *Service) ListMy(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range rows {
		ApplyOverdueView(&rows[i], now)
	}
	return rows, nil
}

func (s *Service) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.bookings.ListByStatus(ctx, status)
}

func validStatus(s domain.BookingStatus) bool {
	switch s {
	case domain.BookingPending, domain.BookingApproved, domain.BookingRejected,
		domain.BookingActive, domain.BookingCompleted, domain.BookingCancelled:
		return true
	}
	return false
}

// transitionErr re-reads the booking to report the state the caller lost to.
func (s *Service) transitionErr(ctx context.Context, bookingID int64, event string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return err
	}
	return &InvalidTransitionError{From: string(b.Status), Event: event}
}
