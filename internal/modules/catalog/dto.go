package catalog

type CreatePropertyRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" binding:"required,oneof=apartment villa studio office shop"`
	City        string  `json:"city" binding:"required"`
	District    string  `json:"district"`
	AreaSqm     float64 `json:"area_sqm" binding:"required,gt=0"`
	Bedrooms    int     `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int     `json:"bathrooms" binding:"gte=0"`
}

type ListPropertiesQuery struct {
	Type    string `form:"type"`
	City    string `form:"city"`
	ForRent bool   `form:"for_rent"`
	ForSale bool   `form:"for_sale"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
