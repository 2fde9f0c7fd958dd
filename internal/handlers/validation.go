package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"innovatube/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	registerOnce    sync.Once
	registerOnceErr error
)

// fieldLabels dá nomes legíveis aos campos JSON usados nas mensagens.
var fieldLabels = map[string]string{
	"firstName":       "First name",
	"lastName":        "Last name",
	"username":        "Username",
	"usernameOrEmail": "Username or email",
	"email":           "Email",
	"password":        "Password",
	"token":           "Reset token",
	"videoId":         "Video ID",
	"videoTitle":      "Video title",
	"videoThumbnail":  "Video thumbnail",
	"channelTitle":    "Channel title",
}

// RegisterValidators configura o validador do gin: nomes de campo pelo json e a tag "username".
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerOnceErr = errors.New("unexpected gin validator engine")
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		registerOnceErr = errors.Join(
			v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return usernamePattern.MatchString(fl.Field().String())
			}),
			v.RegisterValidation("trimmin", trimmedLength(func(n, limit int) bool { return n >= limit })),
			v.RegisterValidation("trimmax", trimmedLength(func(n, limit int) bool { return n <= limit })),
		)
	})
	return registerOnceErr
}

// trimmedLength compara o tamanho em runas do valor já sem espaços nas pontas com o parâmetro da tag.
func trimmedLength(ok func(n, limit int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return ok(utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())), limit)
	}
}

// bindJSON faz o bind do corpo e responde 400 com mensagens por campo em caso de erro.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: services.MsgValidation,
			Errors:  fieldErrors(err),
		})
		return false
	}
	return true
}

func fieldErrors(err error) []services.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]services.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, services.FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []services.FieldError{{Field: typeErr.Field, Message: fmt.Sprintf("Expected %s", typeErr.Type.Kind())}}
	}
	return []services.FieldError{{Field: "body", Message: "Invalid JSON payload"}}
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if field == "recaptchaToken" {
			return "reCAPTCHA verification is required"
		}
		return label(field) + " is required"
	case "min", "trimmin":
		return fmt.Sprintf("%s must be at least %s characters", label(field), fe.Param())
	case "max", "trimmax":
		return fmt.Sprintf("%s must be at most %s characters", label(field), fe.Param())
	case "email":
		return "Invalid email address"
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "eqfield":
		return "Passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", label(field))
	}
}
