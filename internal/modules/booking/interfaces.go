package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"aqarat/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindBlocking(ctx context.Context, userID, propertyID int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	UpdateStatusIf(ctx context.Context, bookingID int64, from []domain.BookingStatus, to domain.BookingStatus, extra map[string]any) (bool, error)
	SetContract(ctx context.Context, bookingID, contractID int64) error
	GetInstallment(ctx context.Context, bookingID int64, number int) (*domain.Installment, error)
	MarkInstallmentPaid(ctx context.Context, bookingID int64, number int, method domain.PaymentMethod, paidAmount decimal.Decimal, paidAt time.Time) (bool, error)
	CountOpenInstallments(ctx context.Context, bookingID int64) (int64, error)
	CancelOpenInstallments(ctx context.Context, bookingID int64) error
}

type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// ContractManager is implemented by the contract module. The booking side
// only needs to open a draft alongside a new booking and to know whether the
// contract is already active when an admin approves.
type ContractManager interface {
	CreateDraft(ctx context.Context, b *domain.Booking, landlordID int64) (*domain.Contract, error)
	StatusForBooking(ctx context.Context, bookingID int64) (domain.ContractStatus, error)
	MarkCompleted(ctx context.Context, bookingID int64) error
	CloseForBooking(ctx context.Context, bookingID int64, reason string) error
}
