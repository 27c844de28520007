package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restom/restom-backend/internal/dto"
	"github.com/restom/restom-backend/internal/http/handlers/common"
	"github.com/restom/restom-backend/internal/pkg/apperror"
	"github.com/restom/restom-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой регистрации, подтверждения и входа.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup обрабатывает POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, apperror.ErrMissingSignupFields.Message)
		return
	}

	_, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.PhoneNumber(),
		Password: req.Password,
	})
	if err != nil {
		common.RespondError(c, err, "Signup failed")
		return
	}

	common.RespondMessage(c, http.StatusOK, "OTP sent to email")
}

// VerifyOTP обрабатывает POST /api/auth/verify-otp.
// Неизвестный email здесь отдаётся как 400, а не 404.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, apperror.ErrMissingOTPFields.Message)
		return
	}

	_, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if errors.Is(err, apperror.ErrAccountNotFound) {
		err = apperror.ErrAccountNotFound.WithStatus(http.StatusBadRequest)
	}
	if err != nil {
		common.RespondError(c, err, "OTP verification failed")
		return
	}

	common.RespondMessage(c, http.StatusOK, "Account verified successfully")
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, apperror.ErrMissingLoginFields.Message)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// Profile обрабатывает GET /api/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	accountID, err := common.CurrentAccountID(c)
	if err != nil {
		common.RespondMessage(c, apperror.ErrInvalidToken.HTTPStatus, apperror.ErrInvalidToken.Message)
		return
	}

	account, err := h.auth.Profile(c.Request.Context(), accountID)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{User: account})
}
