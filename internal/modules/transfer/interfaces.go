package transfer

import (
	"context"

	"aqarat/internal/domain"
	"aqarat/internal/modules/booking"
)

// BookingLifecycle is the slice of the booking service a transfer decision
// needs: approving a transfer cancels the current booking and opens a fresh
// pending one on the requested property.
type BookingLifecycle interface {
	Create(ctx context.Context, req booking.CreateBookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error)
}

// PaymentHistorian supplies the tenant's installment history across all
// their rent bookings.
type PaymentHistorian interface {
	PaymentHistory(ctx context.Context, userID int64) ([]domain.PaymentRecord, error)
}

// SimilarUnitFinder answers whether another rentable unit of comparable
// type and area is currently free.
type SimilarUnitFinder interface {
	SimilarRentableExists(ctx context.Context, propertyID int64) (bool, error)
}
