package transfer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aqarat/internal/domain"
	"aqarat/internal/modules/booking"
	"aqarat/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transfers", h.CreateTransfer)
	rg.GET("/transfers/my", h.MyTransfers)
	rg.GET("/transfers/:id", h.GetTransfer)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/transfers", h.AdminListTransfers)
	rg.POST("/transfers/:id/decide", h.DecideTransfer)
}

func (h *Handler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	tr, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to submit transfer request")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"transfer": tr})
}

func (h *Handler) MyTransfers(c *gin.Context) {
	rows, err := h.service.ListMy(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load transfer requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transfers": rows})
}

func (h *Handler) GetTransfer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return
	}

	tr, err := h.service.Get(c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")))
	if err != nil {
		h.writeError(c, err, "Failed to load transfer request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transfer": tr})
}

func (h *Handler) AdminListTransfers(c *gin.Context) {
	rows, err := h.service.ListByStatus(c.Request.Context(), domain.TransferStatus(c.Query("status")))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load transfer requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transfers": rows})
}

func (h *Handler) DecideTransfer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return
	}

	var req DecideTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	tr, err := h.service.Decide(c.Request.Context(), id, c.GetInt64("user_id"), req.Approve, req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to decide transfer request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transfer": tr})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var elig *EligibilityError
	var inv *InvalidTransitionError
	var dup *booking.DuplicateBookingError
	switch {
	case errors.As(err, &elig):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeNotEligible,
			"Tenant is not eligible for transfer", gin.H{"eligibility_check": elig.Check})
	case errors.As(err, &inv):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeInvalidTransition,
			inv.Error(), gin.H{"current_status": inv.From})
	case errors.As(err, &dup):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeDuplicateBooking,
			"Tenant already has an open booking on the requested property",
			gin.H{"existing_booking_id": dup.ExistingBookingID})
	case errors.Is(err, ErrValidation), errors.Is(err, booking.ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not your transfer request")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, fallback)
	}
}
