package catalog

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/properties", h.ListProperties)
	rg.GET("/properties/:id", h.GetProperty)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties", h.CreateProperty)
}

func (h *Handler) ListProperties(c *gin.Context) {
	var q ListPropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters")
		return
	}

	rows, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load properties")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": rows, "total": total})
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load property")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(),
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Only owners may list properties")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create property")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"property": p})
}
