package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aqarat/internal/database"
	"aqarat/internal/domain"
)

// Service owns the contract lifecycle. Contract state is the legal source of
// truth: a booking only activates after both parties have signed, and nothing
// here is ever fixed up implicitly.
type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// conn joins the transaction carried by ctx, if any. Booking cancellation
// runs inside a caller-owned transaction and closes the contract with it.
func (s *Service) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, s.db).WithContext(ctx)
}

// CreateDraft opens the draft contract bound to a booking. Idempotent: the
// unique index on booking_id guarantees one contract per booking, and a
// repeated call returns the existing one.
func (s *Service) CreateDraft(ctx context.Context, b *domain.Booking, landlordID int64) (*domain.Contract, error) {
	if existing, err := s.ByBooking(ctx, b.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	c := &domain.Contract{
		Number:       uuid.NewString(),
		BookingID:    b.ID,
		ContractType: domain.ContractType(b.BookingType),
		Status:       domain.ContractDraft,
		TenantID:     b.UserID,
		LandlordID:   landlordID,
		Amount:       b.TotalAmount,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
	}
	c.Terms = TermsFor(c.ContractType, b)

	if err := s.conn(ctx).Create(c).Error; err != nil {
		if isUniqueConstraintError(err) {
			if existing, ferr := s.ByBooking(ctx, b.ID); ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	if err := s.conn(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", b.ID).
		Update("contract_id", c.ID).Error; err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Str("contract_number", c.Number).
		Msg("contract draft opened")
	return c, nil
}

// EnsureDraft retries draft creation for a booking whose draft failed to open
// at booking time. The booking must still be open.
func (s *Service) EnsureDraft(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole) (*domain.Contract, error) {
	var b domain.Booking
	err := s.conn(ctx).First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && b.UserID != actorID {
		return nil, ErrForbidden
	}
	if b.Status.Terminal() {
		return nil, &InvalidTransitionError{From: string(b.Status), Event: "open contract draft"}
	}

	var p domain.Property
	if err := s.conn(ctx).First(&p, b.PropertyID).Error; err != nil {
		return nil, err
	}
	return s.CreateDraft(ctx, &b, p.OwnerID)
}

// Get returns the contract if the actor is a party to it or an admin.
func (s *Service) Get(ctx context.Context, contractID, actorID int64, actorRole domain.UserRole) (*domain.Contract, error) {
	var c domain.Contract
	err := s.conn(ctx).First(&c, contractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && c.TenantID != actorID && c.LandlordID != actorID {
		return nil, ErrForbidden
	}
	return &c, nil
}

// ListByUser returns contracts where the user is a party, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Contract, error) {
	var rows []domain.Contract
	err := s.conn(ctx).
		Where("tenant_id = ? OR landlord_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Sign records one party's electronic signature. The signer must be a party
// to the contract, may sign only once, and signatures land in either order.
// The second signature activates the contract and, if the booking is already
// admin-approved, the booking with it, in the same transaction.
func (s *Service) Sign(ctx context.Context, contractID, actorID int64, signature string) (*domain.Contract, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, fmt.Errorf("%w: signature is required", ErrValidation)
	}

	var c domain.Contract
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, contractID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
		}
		if err != nil {
			return err
		}

		var role domain.SignerRole
		switch actorID {
		case c.TenantID:
			role = domain.SignerTenant
		case c.LandlordID:
			role = domain.SignerLandlord
		default:
			return ErrForbidden
		}

		if c.Status != domain.ContractDraft && c.Status != domain.ContractPendingSignature {
			return &InvalidTransitionError{From: string(c.Status), Event: "sign"}
		}
		if c.SignedBy(role) {
			return ErrAlreadySigned
		}

		now := time.Now().UTC()
		updates := map[string]any{"updated_at": now}
		if role == domain.SignerTenant {
			c.ElectronicSignatureTenant = signature
			c.SignedAtTenant = &now
			updates["electronic_signature_tenant"] = signature
			updates["signed_at_tenant"] = &now
		} else {
			c.ElectronicSignatureLandlord = signature
			c.SignedAtLandlord = &now
			updates["electronic_signature_landlord"] = signature
			updates["signed_at_landlord"] = &now
		}

		if c.FullySigned() {
			c.Status = domain.ContractActive
		} else {
			c.Status = domain.ContractPendingSignature
		}
		updates["status"] = c.Status

		if err := tx.Model(&domain.Contract{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
			return err
		}

		if c.Status == domain.ContractActive {
			// A booking still awaiting admin approval activates later, at
			// approval time.
			if err := tx.Model(&domain.Booking{}).
				Where("id = ? AND status = ?", c.BookingID, domain.BookingApproved).
				Updates(map[string]any{"status": domain.BookingActive, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RequestCancellation records one party's request to cancel a contract that
// is active or still awaiting the counterparty's signature. The request
// itself changes nothing; an admin resolves it.
func (s *Service) RequestCancellation(ctx context.Context, contractID, actorID int64, reason string) (*domain.Contract, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}

	var c domain.Contract
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, contractID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
		}
		if err != nil {
			return err
		}

		var by domain.SignerRole
		switch actorID {
		case c.TenantID:
			by = domain.SignerTenant
		case c.LandlordID:
			by = domain.SignerLandlord
		default:
			return ErrForbidden
		}

		if c.Status != domain.ContractActive && c.Status != domain.ContractPendingSignature {
			return &InvalidTransitionError{From: string(c.Status), Event: "request cancellation"}
		}
		if c.HasPendingCancellation() {
			return &InvalidTransitionError{From: string(c.Status), Event: "request cancellation again"}
		}

		now := time.Now().UTC()
		c.CancellationRequestedAt = &now
		c.CancellationReason = reason
		c.CancellationRequestedBy = by

		return tx.Model(&domain.Contract{}).Where("id = ?", c.ID).Updates(map[string]any{
			"cancellation_requested_at": &now,
			"cancellation_reason":       reason,
			"cancellation_requested_by": by,
			"updated_at":                now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveCancellation is the admin decision on a pending cancellation
// request. Approval terminates the contract, cancels the booking and voids
// its remaining schedule in one transaction; denial clears the request and
// the contract stays active.
func (s *Service) ResolveCancellation(ctx context.Context, contractID int64, approve bool) (*domain.Contract, error) {
	var c domain.Contract
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, contractID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contract %d", ErrNotFound, contractID)
		}
		if err != nil {
			return err
		}
		if !c.HasPendingCancellation() {
			return &InvalidTransitionError{From: string(c.Status), Event: "resolve cancellation"}
		}

		now := time.Now().UTC()
		if !approve {
			c.CancellationRequestedAt = nil
			c.CancellationReason = ""
			c.CancellationRequestedBy = ""
			return tx.Model(&domain.Contract{}).Where("id = ?", c.ID).Updates(map[string]any{
				"cancellation_requested_at": nil,
				"cancellation_reason":       "",
				"cancellation_requested_by": "",
				"updated_at":                now,
			}).Error
		}

		c.Status = closedStatus(c.Status)
		if err := tx.Model(&domain.Contract{}).Where("id = ?", c.ID).Updates(map[string]any{
			"status":     c.Status,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Booking{}).
			Where("id = ? AND status IN ?", c.BookingID,
				[]domain.BookingStatus{domain.BookingPending, domain.BookingApproved, domain.BookingActive}).
			Updates(map[string]any{
				"status":       domain.BookingCancelled,
				"cancelled_at": &now,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Installment{}).
			Where("booking_id = ?", c.BookingID).
			Where("status IN ?", []domain.InstallmentStatus{domain.InstallmentPending, domain.InstallmentOverdue}).
			Updates(map[string]any{
				"status":     domain.InstallmentCancelled,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// StatusForBooking reports the contract status bound to a booking, or ""
// when no contract has been drafted yet.
func (s *Service) StatusForBooking(ctx context.Context, bookingID int64) (domain.ContractStatus, error) {
	c, err := s.ByBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.Status, nil
}

// MarkCompleted closes the contract of a fully paid booking. A no-op when
// the contract is not active.
func (s *Service) MarkCompleted(ctx context.Context, bookingID int64) error {
	return s.conn(ctx).
		Model(&domain.Contract{}).
		Where("booking_id = ? AND status = ?", bookingID, domain.ContractActive).
		Updates(map[string]any{
			"status":     domain.ContractCompleted,
			"updated_at": time.Now().UTC(),
		}).Error
}

// CloseForBooking closes the contract when its booking is cancelled. An
// active contract terminates; an unsigned one is cancelled; a contract
// already closed is left alone.
func (s *Service) CloseForBooking(ctx context.Context, bookingID int64, reason string) error {
	c, err := s.ByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	switch c.Status {
	case domain.ContractCompleted, domain.ContractCancelled, domain.ContractTerminated:
		return nil
	}

	updates := map[string]any{
		"status":     closedStatus(c.Status),
		"updated_at": time.Now().UTC(),
	}
	if reason != "" {
		updates["cancellation_reason"] = reason
	}
	return s.conn(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", c.ID).
		Updates(updates).Error
}

// ByBooking returns nil, nil when the booking has no contract.
func (s *Service) ByBooking(ctx context.Context, bookingID int64) (*domain.Contract, error) {
	var c domain.Contract
	err := s.conn(ctx).Where("booking_id = ?", bookingID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// closedStatus maps an open contract status to its closed counterpart: a
// contract both parties committed to terminates, one never fully signed is
// simply cancelled.
func closedStatus(s domain.ContractStatus) domain.ContractStatus {
	if s == domain.ContractActive {
		return domain.ContractTerminated
	}
	return domain.ContractCancelled
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
