package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aqarat/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/auth")
	{
		grp.POST("/register", h.Register)
		grp.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, response.CodeValidation, "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": res.User, "token": res.Token})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": res.User, "token": res.Token})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.CurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil || u == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}
