package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aqarat/internal/database"
	"aqarat/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

type PropertyFilters struct {
	Type    domain.PropertyType
	City    string
	ForRent bool
	ForSale bool
	Page    int
	PerPage int
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.conn(ctx).Create(p).Error
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	return r.conn(ctx).Save(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	if err := r.conn(ctx).Preload("Offer").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context, f PropertyFilters) ([]domain.Property, int64, error) {
	q := r.conn(ctx).
		Model(&domain.Property{}).
		Where("properties.status = ?", domain.PropertyActive)

	if f.Type != "" {
		q = q.Where("properties.type = ?", f.Type)
	}
	if f.City != "" {
		q = q.Where("LOWER(properties.city) = LOWER(?)", f.City)
	}
	if f.ForRent || f.ForSale {
		q = q.Joins("JOIN property_offers po ON po.property_id = properties.id")
		if f.ForRent {
			q = q.Where("po.available_for_rent = ?", true)
		}
		if f.ForSale {
			q = q.Where("po.available_for_sale = ?", true)
		}
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var rows []domain.Property
	err := q.Preload("Offer").
		Order("properties.created_at DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpsertOffer creates or replaces the single offer row of a property.
func (r *PropertyRepository) UpsertOffer(ctx context.Context, o *domain.PropertyOffer) error {
	o.UpdatedAt = time.Now().UTC()
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "property_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"available_for_rent", "available_for_sale",
				"rent_price", "contract_duration_months", "number_of_installments",
				"insurance_deposit", "sale_price", "currency", "updated_at",
			}),
		}).
		Create(o).Error
}

// GetOffer returns nil, nil when the property has no offer yet.
func (r *PropertyRepository) GetOffer(ctx context.Context, propertyID int64) (*domain.PropertyOffer, error) {
	var o domain.PropertyOffer
	err := r.conn(ctx).Where("property_id = ?", propertyID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindSimilarRentable returns active properties of the same type whose area
// falls inside [areaMin, areaMax], that carry a rentable offer and have no
// open booking claiming them. Used by transfer eligibility.
func (r *PropertyRepository) FindSimilarRentable(ctx context.Context, propertyType domain.PropertyType, areaMin, areaMax float64, excludeID int64) ([]domain.Property, error) {
	var rows []domain.Property
	q := `
SELECT p.*
FROM properties p
JOIN property_offers po ON po.property_id = p.id
WHERE p.status = 'active'
  AND p.id <> ?
  AND p.type = ?
  AND p.area_sqm BETWEEN ? AND ?
  AND po.available_for_rent = ?
  AND NOT EXISTS (
    SELECT 1 FROM bookings b
    WHERE b.property_id = p.id
      AND b.status IN ('pending', 'approved', 'active')
  )
ORDER BY p.area_sqm
`
	tx := r.conn(ctx).Raw(q, excludeID, propertyType, areaMin, areaMax, true).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
