package handlers

import (
	"net/http"

	"innovatube/backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterPayload struct {
	FirstName       string `json:"firstName" binding:"required,trimmin=2,trimmax=50"`
	LastName        string `json:"lastName" binding:"required,trimmin=2,trimmax=50"`
	Username        string `json:"username" binding:"required,min=3,max=30,username"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	RecaptchaToken  string `json:"recaptchaToken" binding:"required"`
}

type LoginPayload struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.Named("auth_handler")}
}

// Register cria a conta e já devolve uma sessão.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload RegisterPayload
	if !bindJSON(c, &payload) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Username:       payload.Username,
		Email:          payload.Email,
		Password:       payload.Password,
		RecaptchaToken: payload.RecaptchaToken,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "User registered successfully", result)
}

// Login aceita username ou email no mesmo campo.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload LoginPayload
	if !bindJSON(c, &payload) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), payload.UsernameOrEmail, payload.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"user": profile})
}
