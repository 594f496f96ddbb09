package offer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aqarat/internal/domain"
	"aqarat/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/properties/:id/offer", h.UpsertOffer)
	rg.GET("/properties/:id/offer", h.GetOffer)
}

func (h *Handler) UpsertOffer(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid property id")
		return
	}

	var req UpsertOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	actorID := c.GetInt64("user_id")
	actorRole := domain.UserRole(c.GetString("role"))

	o, err := h.service.Upsert(c.Request.Context(), actorID, actorRole, propertyID, req)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Offer is invalid", ve.Fields)
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Only the property owner or an admin may edit the offer")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to save offer")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offer": o})
}

func (h *Handler) GetOffer(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid property id")
		return
	}

	o, err := h.service.Get(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Offer not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load offer")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offer": o})
}
