package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// ResetTokenBytes gera 160 bits de entropia.
	ResetTokenBytes = 20
	// ResetTokenWindow é a validade de um ticket de reset.
	ResetTokenWindow = 10 * time.Minute
)

// ResetTicket é o resultado de Issue. Raw vai para o usuário, apenas Digest e ExpiresAt são persistidos.
type ResetTicket struct {
	Raw       string
	Digest    string
	ExpiresAt time.Time
}

// ResetTokenCodec gera e confere tokens de redefinição de senha.
type ResetTokenCodec struct {
	window time.Duration
}

func NewResetTokenCodec() ResetTokenCodec {
	return ResetTokenCodec{window: ResetTokenWindow}
}

func (c ResetTokenCodec) Issue(now time.Time) (ResetTicket, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return ResetTicket{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return ResetTicket{
		Raw:       raw,
		Digest:    c.Digest(raw),
		ExpiresAt: now.Add(c.windowOrDefault()),
	}, nil
}

// Digest é determinístico para permitir a busca pelo token apresentado.
func (c ResetTokenCodec) Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Match confere o digest em tempo constante e exige now < expiry.
func (c ResetTokenCodec) Match(raw, storedDigest string, storedExpiry, now time.Time) bool {
	if raw == "" || storedDigest == "" {
		return false
	}
	digest := c.Digest(raw)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) != 1 {
		return false
	}
	return now.Before(storedExpiry)
}

func (c ResetTokenCodec) windowOrDefault() time.Duration {
	if c.window <= 0 {
		return ResetTokenWindow
	}
	return c.window
}
