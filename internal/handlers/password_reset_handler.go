package handlers

import (
	"net/http"

	"innovatube/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordPayload struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// ForgotPassword responde sempre com a mesma mensagem, exista ou não o email.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var payload ForgotPasswordPayload
	if !bindJSON(c, &payload) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), payload.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, services.MsgResetLinkSent)
}

// ResetPassword troca a senha e abre uma nova sessão.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var payload ResetPasswordPayload
	if !bindJSON(c, &payload) {
		return
	}

	result, err := h.auth.ResetPassword(c.Request.Context(), payload.Token, payload.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Password reset successful", result)
}
