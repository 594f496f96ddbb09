package offer

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aqarat/internal/domain"
)

type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	UpsertOffer(ctx context.Context, o *domain.PropertyOffer) error
	GetOffer(ctx context.Context, propertyID int64) (*domain.PropertyOffer, error)
}

// OfferChanged is notified after a successful write so read caches can drop
// stale property views.
type OfferChanged interface {
	InvalidateProperty(ctx context.Context, propertyID int64)
}

type Service struct {
	props   PropertyRepository
	changed OfferChanged
}

func NewService(props PropertyRepository, changed OfferChanged) *Service {
	return &Service{props: props, changed: changed}
}

// Upsert validates and stores the offer of a property. Only the property's
// owner or an admin may edit terms; the booking flow reads them but never
// writes.
func (s *Service) Upsert(ctx context.Context, actorID int64, actorRole domain.UserRole, propertyID int64, req UpsertOfferRequest) (*domain.PropertyOffer, error) {
	p, err := s.props.GetByID(ctx, propertyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && p.OwnerID != actorID {
		return nil, ErrForbidden
	}

	o := &domain.PropertyOffer{
		PropertyID:             propertyID,
		AvailableForRent:       req.AvailableForRent,
		AvailableForSale:       req.AvailableForSale,
		RentPrice:              req.RentPrice,
		ContractDurationMonths: req.ContractDurationMonths,
		NumberOfInstallments:   req.NumberOfInstallments,
		InsuranceDeposit:       req.InsuranceDeposit,
		SalePrice:              req.SalePrice,
		Currency:               domain.Currency,
	}

	if err := Validate(o); err != nil {
		return nil, err
	}

	if err := s.props.UpsertOffer(ctx, o); err != nil {
		return nil, err
	}
	if s.changed != nil {
		s.changed.InvalidateProperty(ctx, propertyID)
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, propertyID int64) (*domain.PropertyOffer, error) {
	o, err := s.props.GetOffer(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}
