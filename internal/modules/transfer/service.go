package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"aqarat/internal/database"
	"aqarat/internal/domain"
	"aqarat/internal/modules/booking"
)

type Service struct {
	db        *gorm.DB
	bookings  BookingLifecycle
	payments  PaymentHistorian
	units     SimilarUnitFinder
	graceDays int
	log       zerolog.Logger
}

func NewService(db *gorm.DB, bookings BookingLifecycle, payments PaymentHistorian, units SimilarUnitFinder, graceDays int, log zerolog.Logger) *Service {
	return &Service{
		db:        db,
		bookings:  bookings,
		payments:  payments,
		units:     units,
		graceDays: graceDays,
		log:       log,
	}
}

func (s *Service) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, s.db).WithContext(ctx)
}

// Submit opens a transfer request for the tenant's active rent booking on
// the current property. Eligibility is computed and snapshotted for the
// admin view; the decision path recomputes it regardless.
func (s *Service) Submit(ctx context.Context, req CreateTransferRequest) (*domain.TransferRequest, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if req.RequestedPropertyID == req.CurrentPropertyID {
		return nil, fmt.Errorf("%w: requested property must differ from the current one", ErrValidation)
	}

	current, err := s.activeRentBooking(ctx, req.UserID, req.CurrentPropertyID)
	if err != nil {
		return nil, err
	}

	var open int64
	if err := s.conn(ctx).
		Model(&domain.TransferRequest{}).
		Where("booking_id = ? AND status = ?", current.ID, domain.TransferPending).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, fmt.Errorf("%w: a transfer request for this booking is already pending", ErrValidation)
	}

	var target domain.Property
	err = s.conn(ctx).Preload("Offer").First(&target, req.RequestedPropertyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: property %d", ErrNotFound, req.RequestedPropertyID)
	}
	if err != nil {
		return nil, err
	}
	if target.Status != domain.PropertyActive || target.Offer == nil || !target.Offer.AvailableForRent {
		return nil, fmt.Errorf("%w: requested property is not available for rent", ErrValidation)
	}

	check, history, err := s.evaluate(ctx, current)
	if err != nil {
		return nil, err
	}

	tr := &domain.TransferRequest{
		UserID:              req.UserID,
		BookingID:           current.ID,
		CurrentPropertyID:   req.CurrentPropertyID,
		RequestedPropertyID: req.RequestedPropertyID,
		Reason:              req.Reason,
		Status:              domain.TransferPending,
		Eligibility:         check,
		PaymentHistory:      history,
	}
	if err := s.conn(ctx).Create(tr).Error; err != nil {
		return nil, err
	}
	return tr, nil
}

// Decide is the admin resolution. Approval re-evaluates eligibility against
// live data first: the snapshot shown to the admin may have gone stale the
// moment a payment slipped overdue. On approval the current booking is
// cancelled and a fresh pending booking opens on the requested property,
// all inside one transaction: a failed approval leaves the request pending
// and the tenant's current booking untouched.
func (s *Service) Decide(ctx context.Context, transferID, adminID int64, approve bool, reason string) (*domain.TransferRequest, error) {
	tr, err := s.byID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if tr.Status != domain.TransferPending {
		return nil, &InvalidTransitionError{From: string(tr.Status), Event: "decide transfer"}
	}

	now := time.Now().UTC()

	if !approve {
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
		}
		ok, err := s.updateStatusIf(ctx, tr.ID, domain.TransferRejected, map[string]any{
			"rejection_reason": reason,
			"decided_by":       adminID,
			"decided_at":       &now,
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, s.lostDecisionRace(ctx, tr.ID)
		}
		return s.byID(ctx, tr.ID)
	}

	current, err := s.loadBooking(ctx, tr.BookingID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingActive {
		return nil, &InvalidTransitionError{From: string(current.Status), Event: "approve transfer for booking"}
	}

	check, _, err := s.evaluate(ctx, current)
	if err != nil {
		return nil, err
	}
	if !check.Eligible() {
		return nil, &EligibilityError{Check: check}
	}

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := database.WithTx(ctx, tx)

		// Claim the request first; the conditional update is the lock two
		// concurrent admins race for. Any failure past this point rolls the
		// claim back together with the booking writes.
		ok, err := s.updateStatusIf(txCtx, tr.ID, domain.TransferApproved, map[string]any{
			"decided_by": adminID,
			"decided_at": &now,

			"eligibility_similar_unit_available": check.SimilarUnitAvailable,
			"eligibility_no_late_payments":       check.NoLatePayments,
			"eligibility_all_installments_paid":  check.AllInstallmentsPaid,
			"eligibility_message":                check.Message,
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.lostDecisionRace(txCtx, tr.ID)
		}

		newBooking, err := s.bookings.Create(txCtx, booking.CreateBookingRequest{
			UserID:      tr.UserID,
			PropertyID:  tr.RequestedPropertyID,
			BookingType: domain.BookingRent,
		})
		if err != nil {
			return err
		}

		if _, err := s.bookings.Cancel(txCtx, tr.BookingID, "transfer approved"); err != nil {
			return err
		}

		return tx.Model(&domain.TransferRequest{}).
			Where("id = ?", tr.ID).
			Update("new_booking_id", newBooking.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("transfer_id", tr.ID).
		Int64("admin_id", adminID).
		Msg("transfer approved")
	return s.byID(ctx, tr.ID)
}

// Get returns the transfer request if the actor owns it or is an admin.
func (s *Service) Get(ctx context.Context, transferID, actorID int64, actorRole domain.UserRole) (*domain.TransferRequest, error) {
	tr, err := s.byID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && tr.UserID != actorID {
		return nil, ErrForbidden
	}
	return tr, nil
}

func (s *Service) ListMy(ctx context.Context, userID int64) ([]domain.TransferRequest, error) {
	var rows []domain.TransferRequest
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) ListByStatus(ctx context.Context, status domain.TransferStatus) ([]domain.TransferRequest, error) {
	switch status {
	case "", domain.TransferPending, domain.TransferApproved, domain.TransferRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	q := s.conn(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []domain.TransferRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// evaluate assembles the live inputs and runs the pure check.
func (s *Service) evaluate(ctx context.Context, current *domain.Booking) (domain.EligibilityCheck, []domain.PaymentRecord, error) {
	history, err := s.payments.PaymentHistory(ctx, current.UserID)
	if err != nil {
		return domain.EligibilityCheck{}, nil, err
	}
	similar, err := s.units.SimilarRentableExists(ctx, current.PropertyID)
	if err != nil {
		return domain.EligibilityCheck{}, nil, err
	}
	check := Evaluate(current.Installments, history, similar, s.graceDays, time.Now().UTC())
	return check, history, nil
}

func (s *Service) activeRentBooking(ctx context.Context, userID, propertyID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := s.conn(ctx).
		Preload("Installments").
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Where("booking_type = ? AND status = ?", domain.BookingRent, domain.BookingActive).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: transfer requires an active rent booking on the current property", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) loadBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := s.conn(ctx).Preload("Installments").First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) byID(ctx context.Context, transferID int64) (*domain.TransferRequest, error) {
	var tr domain.TransferRequest
	err := s.conn(ctx).First(&tr, transferID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: transfer request %d", ErrNotFound, transferID)
	}
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// updateStatusIf finalizes a pending request. The conditional WHERE means
// two admins deciding at once cannot both win.
func (s *Service) updateStatusIf(ctx context.Context, transferID int64, to domain.TransferStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	tx := s.conn(ctx).
		Model(&domain.TransferRequest{}).
		Where("id = ? AND status = ?", transferID, domain.TransferPending).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (s *Service) lostDecisionRace(ctx context.Context, transferID int64) error {
	tr, err := s.byID(ctx, transferID)
	if err != nil {
		return err
	}
	return &InvalidTransitionError{From: string(tr.Status), Event: "decide transfer"}
}
