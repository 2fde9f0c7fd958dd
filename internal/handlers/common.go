package handlers

import (
	"errors"
	"net/http"

	"innovatube/backend/internal/auth"
	"innovatube/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope é o formato de todas as respostas da API.
type Envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []services.FieldError `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: status < http.StatusBadRequest, Message: message})
}

// statusFor mapeia o tipo de erro do serviço para o status HTTP.
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindInvalidOrExpiredToken:
		return http.StatusBadRequest
	case services.KindInvalidCredentials, services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError escreve a resposta de erro. Detalhes internos ficam apenas no log.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		log.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, services.MsgInternal)
		return
	}

	status := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, Envelope{Success: false, Message: services.MsgInternal})
		return
	}
	c.JSON(status, Envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields})
}

// requireUser lê o usuário autenticado; responde 401 se o AuthMiddleware não rodou.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
