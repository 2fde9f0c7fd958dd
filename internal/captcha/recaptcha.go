package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultVerifyURL é o endpoint de verificação do Google reCAPTCHA.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier decide se um token de bot-check foi emitido para um humano.
// Qualquer falha (rede, resposta inválida) é tratada como false.
type Verifier interface {
	Verify(ctx context.Context, token string) bool
}

// RecaptchaVerifier valida tokens no serviço siteverify do Google.
type RecaptchaVerifier struct {
	secret    string
	verifyURL string
	minScore  float64
	client    *http.Client
	log       *zap.Logger
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

func NewRecaptchaVerifier(secret, verifyURL string, minScore float64, log *zap.Logger) *RecaptchaVerifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &RecaptchaVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		minScore:  minScore,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.Named("recaptcha"),
	}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		v.log.Error("Error creating reCAPTCHA request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.Error("reCAPTCHA verification request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.log.Warn("reCAPTCHA verification returned unexpected status", zap.String("status", resp.Status))
		return false
	}

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.log.Error("Failed to decode reCAPTCHA response", zap.Error(err))
		return false
	}

	if !result.Success {
		v.log.Info("reCAPTCHA rejected token", zap.Strings("error_codes", result.ErrorCodes))
		return false
	}
	// Tokens v2 não trazem score.
	if result.Score != nil && *result.Score < v.minScore {
		v.log.Info("reCAPTCHA score below threshold",
			zap.Float64("score", *result.Score),
			zap.Float64("min_score", v.minScore))
		return false
	}
	return true
}

// PassThroughVerifier aceita qualquer token. Só é usado fora de produção quando
// RECAPTCHA_SECRET_KEY não está configurada.
type PassThroughVerifier struct{}

func (PassThroughVerifier) Verify(context.Context, string) bool { return true }

// NewVerifier escolhe a implementação de acordo com a configuração.
func NewVerifier(secret, verifyURL string, minScore float64, production bool, log *zap.Logger) (Verifier, error) {
	if secret != "" {
		return NewRecaptchaVerifier(secret, verifyURL, minScore, log), nil
	}
	if production {
		return nil, fmt.Errorf("reCAPTCHA secret is required in production")
	}
	log.Warn("RECAPTCHA_SECRET_KEY not configured, bot-check verification is disabled")
	return PassThroughVerifier{}, nil
}
