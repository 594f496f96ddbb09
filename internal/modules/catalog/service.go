package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"aqarat/internal/domain"
	"aqarat/internal/pkg/cache"
	"aqarat/internal/pkg/validator"
	"aqarat/internal/repository"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context, f repository.PropertyFilters) ([]domain.Property, int64, error)
	FindSimilarRentable(ctx context.Context, propertyType domain.PropertyType, areaMin, areaMax float64, excludeID int64) ([]domain.Property, error)
}

// Service is the property read model. Single-property views go through a
// Redis cache; offer writes invalidate them. The cache is optional: a nil
// cache means every read hits the database.
type Service struct {
	props        PropertyRepository
	cache        *cache.Cache
	ttl          time.Duration
	tolerancePct float64
	log          zerolog.Logger
}

func NewService(props PropertyRepository, c *cache.Cache, ttl time.Duration, tolerancePct float64, log zerolog.Logger) *Service {
	return &Service{
		props:        props,
		cache:        c,
		ttl:          ttl,
		tolerancePct: tolerancePct,
		log:          log,
	}
}

func propertyKey(id int64) string {
	return fmt.Sprintf("property:%d", id)
}

// Create lists a new property owned by the actor. Admins may list on behalf
// of an owner; clients may not list at all.
func (s *Service) Create(ctx context.Context, actorID int64, actorRole domain.UserRole, req CreatePropertyRequest) (*domain.Property, error) {
	if actorRole != domain.RoleOwner && actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	p := &domain.Property{
		OwnerID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.PropertyType(req.Type),
		City:        req.City,
		District:    req.District,
		AreaSqm:     req.AreaSqm,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Status:      domain.PropertyActive,
	}
	if fields := validator.Validate(p); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	if err := s.props.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get serves the property view, cache first.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Property, error) {
	if s.cache != nil {
		var cached domain.Property
		hit, err := s.cache.Get(ctx, propertyKey(id), &cached)
		if err != nil {
			s.log.Warn().Err(err).Int64("property_id", id).Msg("property cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	p, err := s.props.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, propertyKey(id), p, s.ttl); err != nil {
			s.log.Warn().Err(err).Int64("property_id", id).Msg("property cache write failed")
		}
	}
	return p, nil
}

// List is uncached: the filter space is wide and listings change often.
func (s *Service) List(ctx context.Context, q ListPropertiesQuery) ([]domain.Property, int64, error) {
	return s.props.List(ctx, repository.PropertyFilters{
		Type:    domain.PropertyType(q.Type),
		City:    q.City,
		ForRent: q.ForRent,
		ForSale: q.ForSale,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
}

// InvalidateProperty drops the cached view after an offer or listing write.
func (s *Service) InvalidateProperty(ctx context.Context, propertyID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, propertyKey(propertyID)); err != nil {
		s.log.Warn().Err(err).Int64("property_id", propertyID).Msg("property cache invalidation failed")
	}
}

// SimilarRentableExists answers the transfer evaluator's availability
// predicate: is another unit of the same type, within the area tolerance,
// rentable and unclaimed right now.
func (s *Service) SimilarRentableExists(ctx context.Context, propertyID int64) (bool, error) {
	p, err := s.props.GetByID(ctx, propertyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	spread := p.AreaSqm * s.tolerancePct / 100
	rows, err := s.props.FindSimilarRentable(ctx, p.Type, p.AreaSqm-spread, p.AreaSqm+spread, p.ID)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
