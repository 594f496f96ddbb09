package domain

import "time"

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyVilla     PropertyType = "villa"
	PropertyStudio    PropertyType = "studio"
	PropertyOffice    PropertyType = "office"
	PropertyShop      PropertyType = "shop"
)

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertyArchived PropertyStatus = "archived"
)

type Property struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	OwnerID     int64          `json:"owner_id" gorm:"index"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Type        PropertyType   `json:"type" validate:"required"`
	City        string         `json:"city"`
	District    string         `json:"district,omitempty"`
	AreaSqm     float64        `json:"area_sqm" validate:"gt=0"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Status      PropertyStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Offer *PropertyOffer `json:"offer,omitempty" gorm:"foreignKey:PropertyID"`
}
