package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"aqarat/internal/database"
	"aqarat/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// conn resolves the gorm handle for this call, joining the transaction
// carried by ctx when there is one.
func (r *BookingRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

// Create persists the booking together with its installment schedule in one
// transaction. Either everything commits or nothing does.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.conn(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number")
		}).
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBlocking returns the user's open booking on the property, if any:
// the one in pending, approved or active status. nil, nil when the pair is
// free to book.
func (r *BookingRepository) FindBlocking(ctx context.Context, userID, propertyID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.conn(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Where("status IN ?", []domain.BookingStatus{domain.BookingPending, domain.BookingApproved, domain.BookingActive}).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.conn(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	q := r.conn(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []domain.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatusIf moves the booking from one of the given statuses to the new
// one. The WHERE clause makes the transition conditional, so two concurrent
// writers cannot both win; the caller treats ok=false as an illegal
// transition and re-reads the current state for the error message.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, bookingID int64, from []domain.BookingStatus, to domain.BookingStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	tx := r.conn(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status IN ?", bookingID, from).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) SetContract(ctx context.Context, bookingID, contractID int64) error {
	return r.conn(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Update("contract_id", contractID).Error
}

func (r *BookingRepository) GetInstallment(ctx context.Context, bookingID int64, number int) (*domain.Installment, error) {
	var inst domain.Installment
	err := r.conn(ctx).
		Where("booking_id = ? AND installment_number = ?", bookingID, number).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// MarkInstallmentPaid settles one installment. The conditional UPDATE is the
// idempotency guard: of two concurrent callers exactly one sees ok=true, the
// other observes zero affected rows because the status is no longer payable.
func (r *BookingRepository) MarkInstallmentPaid(ctx context.Context, bookingID int64, number int, method domain.PaymentMethod, paidAmount decimal.Decimal, paidAt time.Time) (bool, error) {
	tx := r.conn(ctx).
		Model(&domain.Installment{}).
		Where("booking_id = ? AND installment_number = ?", bookingID, number).
		Where("status IN ?", []domain.InstallmentStatus{domain.InstallmentPending, domain.InstallmentOverdue}).
		Updates(map[string]any{
			"status":         domain.InstallmentPaid,
			"payment_method": method,
			"paid_amount":    paidAmount,
			"paid_at":        paidAt,
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CountOpenInstallments counts installments still payable on the booking.
func (r *BookingRepository) CountOpenInstallments(ctx context.Context, bookingID int64) (int64, error) {
	var cnt int64
	err := r.conn(ctx).
		Model(&domain.Installment{}).
		Where("booking_id = ?", bookingID).
		Where("status IN ?", []domain.InstallmentStatus{domain.InstallmentPending, domain.InstallmentOverdue}).
		Count(&cnt).Error
	return cnt, err
}

// CancelOpenInstallments voids the remaining schedule of a cancelled booking.
func (r *BookingRepository) CancelOpenInstallments(ctx context.Context, bookingID int64) error {
	return r.conn(ctx).
		Model(&domain.Installment{}).
		Where("booking_id = ?", bookingID).
		Where("status IN ?", []domain.InstallmentStatus{domain.InstallmentPending, domain.InstallmentOverdue}).
		Updates(map[string]any{
			"status":     domain.InstallmentCancelled,
			"updated_at": time.Now().UTC(),
		}).Error
}

// PaymentHistory returns every installment across the user's rent bookings,
// oldest first. This is the read model transfer eligibility evaluates over.
func (r *BookingRepository) PaymentHistory(ctx context.Context, userID int64) ([]domain.PaymentRecord, error) {
	var rows []domain.PaymentRecord
	q := `
SELECT
  i.booking_id,
  i.installment_number,
  i.due_date,
  i.status,
  i.paid_at
FROM installments i
JOIN bookings b ON b.id = i.booking_id
WHERE b.user_id = ?
  AND b.booking_type = 'rent'
ORDER BY i.due_date, i.installment_number
`
	tx := r.conn(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
