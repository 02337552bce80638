package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kadankyi1/amforex/internal/config"
)

var ErrMismatch = errors.New("hash mismatch")

// Hasher produces and verifies bcrypt hashes for passwords and PINs. PINs
// get a dedicated context prefix so a PIN hash can never be replayed as a
// password hash for the same digits.
type Hasher struct {
	cost int
}

const pinContext = "pin:"

func NewHasher(cfg *config.Config) *Hasher {
	cost := bcrypt.DefaultCost
	if cfg.IsProduction() {
		cost = bcrypt.DefaultCost + 2
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *Hasher) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *Hasher) HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pinContext+pin), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

func (h *Hasher) VerifyPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pinContext+pin)) == nil
}
