package booking

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
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.MyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/installments/:number/pay", h.PayInstallment)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.AdminListBookings)
	rg.POST("/bookings/:id/approve", h.ApproveBooking)
	rg.POST("/bookings/:id/reject", h.RejectBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		var dup *DuplicateBookingError
		switch {
		case errors.As(err, &dup):
			response.ErrorWithDetails(c, http.StatusConflict, response.CodeDuplicateBooking,
				"You already have an open booking for this property",
				gin.H{"existing_booking_id": dup.ExistingBookingID})
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Property not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) MyBookings(c *gin.Context) {
	rows, err := h.service.ListMy(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not your booking")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load booking")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) AdminListBookings(c *gin.Context) {
	rows, err := h.service.ListByStatus(c.Request.Context(), domain.BookingStatus(c.Query("status")))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	b, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to approve booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RejectBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Rejection reason is required")
		return
	}

	b, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to reject booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	// Ownership gate: the access rules of GetByID apply to cancellation too.
	if _, err := h.service.GetByID(c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role"))); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not your booking")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to cancel booking")
		}
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	b, err := h.service.Cancel(c.Request.Context(), id, body.Reason)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) PayInstallment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid installment number")
		return
	}

	// Ownership gate: the access rules of GetByID apply to payments too.
	if _, err := h.service.GetByID(c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role"))); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not your booking")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to record payment")
		}
		return
	}

	var req PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	inst, err := h.service.MarkInstallmentPaid(c.Request.Context(), id, number, req.PaymentMethod, req.PaidAmount)
	if err != nil {
		var settled *AlreadySettledError
		switch {
		case errors.As(err, &settled):
			response.ErrorWithDetails(c, http.StatusConflict, response.CodeAlreadySettled,
				"Installment is already settled",
				gin.H{"booking_id": settled.BookingID, "installment_number": settled.InstallmentNumber})
		default:
			h.writeTransitionError(c, err, "Failed to record payment")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"installment": inst})
}

func (h *Handler) writeTransitionError(c *gin.Context, err error, fallback string) {
	var inv *InvalidTransitionError
	switch {
	case errors.As(err, &inv):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeInvalidTransition,
			inv.Error(), gin.H{"current_status": inv.From})
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, fallback)
	}
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid id")
		return 0, err
	}
	return id, nil
}
