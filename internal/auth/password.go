package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost é o custo fixo do bcrypt para senhas de usuário.
const PasswordCost = 10

// PasswordHasher gera e confere hashes bcrypt. O texto puro nunca é logado.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{cost: PasswordCost}
}

func (h PasswordHasher) Hash(plain string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = PasswordCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify retorna false para senha incorreta ou hash malformado.
func (h PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
