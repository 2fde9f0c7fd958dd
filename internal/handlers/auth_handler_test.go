package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/auth/register", annPayload(), "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)

	var data sessionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "annlee", data.User.Username)
	assert.Equal(t, "ann@x.com", data.User.Email)
	assert.NotContains(t, rr.Body.String(), "password")

	userID, err := s.tokens.ValidateToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, userID.String())

	t.Run("same email is rejected", func(t *testing.T) {
		payload := annPayload()
		payload["username"] = "annlee2"
		rr := s.do(t, http.MethodPost, "/api/auth/register", payload, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.False(t, env.Success)
		assert.Equal(t, "Email already registered", env.Message)
	})

	t.Run("same username is rejected", func(t *testing.T) {
		payload := annPayload()
		payload["email"] = "other@x.com"
		rr := s.do(t, http.MethodPost, "/api/auth/register", payload, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Username already taken", decodeEnvelope(t, rr).Message)
	})

	t.Run("captcha rejected", func(t *testing.T) {
		payload := annPayload()
		payload["email"] = "bot@x.com"
		payload["username"] = "bot"
		payload["recaptchaToken"] = "bad"
		rr := s.do(t, http.MethodPost, "/api/auth/register", payload, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "reCAPTCHA verification failed", decodeEnvelope(t, rr).Message)
	})
}

func TestRegisterHandler_Validation(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name    string
		mutate  func(map[string]string)
		field   string
		message string
	}{
		{"short first name", func(p map[string]string) { p["firstName"] = "A" }, "firstName", "First name must be at least 2 characters"},
		{"blank first name", func(p map[string]string) { p["firstName"] = "   " }, "firstName", "First name must be at least 2 characters"},
		{"padded short last name", func(p map[string]string) { p["lastName"] = "  A  " }, "lastName", "Last name must be at least 2 characters"},
		{"long first name", func(p map[string]string) { p["firstName"] = strings.Repeat("a", 51) }, "firstName", "First name must be at most 50 characters"},
		{"bad username", func(p map[string]string) { p["username"] = "ann lee" }, "username", "Username can only contain letters, numbers, and underscores"},
		{"bad email", func(p map[string]string) { p["email"] = "not-an-email" }, "email", "Invalid email address"},
		{"short password", func(p map[string]string) { p["password"] = "123"; p["confirmPassword"] = "123" }, "password", "Password must be at least 6 characters"},
		{"passwords differ", func(p map[string]string) { p["confirmPassword"] = "secret2" }, "confirmPassword", "Passwords do not match"},
		{"missing captcha", func(p map[string]string) { delete(p, "recaptchaToken") }, "recaptchaToken", "reCAPTCHA verification is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload := annPayload()
			tc.mutate(payload)
			rr := s.do(t, http.MethodPost, "/api/auth/register", payload, "")
			require.Equal(t, http.StatusBadRequest, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, "Validation error", env.Message)
			require.Len(t, env.Errors, 1, rr.Body.String())
			assert.Equal(t, tc.field, env.Errors[0].Field)
			assert.Equal(t, tc.message, env.Errors[0].Message)
		})
	}

	t.Run("padded names are stored trimmed", func(t *testing.T) {
		payload := annPayload()
		payload["firstName"] = "  Ann  "
		payload["lastName"] = " " + strings.Repeat("b", 50) + " "
		rr := s.do(t, http.MethodPost, "/api/auth/register", payload, "")
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var session sessionData
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &session))
		assert.Equal(t, "Ann", session.User.FirstName)
	})

	t.Run("body is not an object", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/auth/register", "{", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Validation error", decodeEnvelope(t, rr).Message)
	})
}

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	s.registerAnn(t)

	rr := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"usernameOrEmail": "ANN@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Login successful", env.Message)

	unknown := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"usernameOrEmail": "nobody", "password": "secret1"}, "")
	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"usernameOrEmail": "annlee", "password": "wrong!!"}, "")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknown.Body.String(), wrongPassword.Body.String())
	assert.Equal(t, "Invalid credentials", decodeEnvelope(t, unknown).Message)
}

func TestMeHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAnn(t)

	rr := s.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Authentication required", decodeEnvelope(t, rr).Message)

	rr = s.do(t, http.MethodGet, "/api/auth/me", nil, token+"x")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid or expired token", decodeEnvelope(t, rr).Message)

	rr = s.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var data struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
	assert.Equal(t, "annlee", data.User.Username)
}

func TestPasswordResetHandlers(t *testing.T) {
	s := newTestServer(t)
	s.registerAnn(t)

	unknown := s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@x.com"}, "")
	known := s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ann@x.com"}, "")
	require.Equal(t, http.StatusOK, unknown.Code)
	require.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, unknown.Body.String(), known.Body.String())
	assert.Equal(t, "If the email exists, a password reset link has been sent", decodeEnvelope(t, known).Message)
	assert.Equal(t, 1, s.mailer.sent)

	raw := s.mailer.lastToken()
	require.NotEmpty(t, raw)

	mismatch := s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": raw, "password": "newpass1", "confirmPassword": "newpass2",
	}, "")
	assert.Equal(t, http.StatusBadRequest, mismatch.Code)
	assert.Equal(t, "Validation error", decodeEnvelope(t, mismatch).Message)

	reset := map[string]string{"token": raw, "password": "newpass1", "confirmPassword": "newpass1"}
	rr := s.do(t, http.MethodPost, "/api/auth/reset-password", reset, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Password reset successful", env.Message)
	var data sessionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)

	rr = s.do(t, http.MethodPost, "/api/auth/reset-password", reset, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid or expired token", decodeEnvelope(t, rr).Message)

	rr = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"usernameOrEmail": "annlee", "password": "newpass1"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"usernameOrEmail": "annlee", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
