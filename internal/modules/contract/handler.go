package contract

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
	rg.GET("/contracts/my", h.MyContracts)
	rg.GET("/contracts/:id", h.GetContract)
	rg.POST("/contracts/:id/sign", h.SignContract)
	rg.POST("/contracts/:id/cancellation", h.RequestCancellation)
	rg.POST("/bookings/:id/contract", h.EnsureDraft)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts/:id/cancellation/resolve", h.ResolveCancellation)
}

func (h *Handler) MyContracts(c *gin.Context) {
	rows, err := h.service.ListByUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load contracts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contracts": rows})
}

func (h *Handler) GetContract(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	ct, err := h.service.Get(c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")))
	if err != nil {
		h.writeError(c, err, "Failed to load contract")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contract": ct})
}

func (h *Handler) SignContract(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Signature is required")
		return
	}

	ct, err := h.service.Sign(c.Request.Context(), id, c.GetInt64("user_id"), req.Signature)
	if err != nil {
		h.writeError(c, err, "Failed to sign contract")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contract": ct})
}

func (h *Handler) RequestCancellation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req CancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Cancellation reason is required")
		return
	}

	ct, err := h.service.RequestCancellation(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to request cancellation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contract": ct})
}

func (h *Handler) ResolveCancellation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req ResolveCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	ct, err := h.service.ResolveCancellation(c.Request.Context(), id, req.Approve)
	if err != nil {
		h.writeError(c, err, "Failed to resolve cancellation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contract": ct})
}

func (h *Handler) EnsureDraft(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return
	}

	ct, err := h.service.EnsureDraft(c.Request.Context(), bookingID,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")))
	if err != nil {
		h.writeError(c, err, "Failed to open contract draft")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"contract": ct})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var inv *InvalidTransitionError
	switch {
	case errors.As(err, &inv):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeInvalidTransition,
			inv.Error(), gin.H{"current_status": inv.From})
	case errors.Is(err, ErrAlreadySigned):
		response.Error(c, http.StatusConflict, response.CodeInvalidTransition, "You have already signed this contract")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Contract not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You are not a party to this contract")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, fallback)
	}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return 0, err
	}
	return id, nil
}
