// Package auth guards the administrative commands (listing every
// reservation, editing the catalog) with a bcrypt password hash.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/hotel-reservations/internal/internaltypes"
)

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", fmt.Errorf("%w: empty password", internaltypes.ErrInvalidArgument)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	return err == nil
}

// Gate checks admin passwords against a configured hash. A gate with no
// hash is open: every caller is admin.
type Gate struct {
	hash string
}

func NewGate(hash string) (*Gate, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	}
	return &Gate{hash: hash}, nil
}

func (g *Gate) Open() bool { return g == nil || g.hash == "" }

// Require returns nil when the gate is open or password matches.
func (g *Gate) Require(password string) error {
	if g.Open() {
		return nil
	}
	if password == "" || !CheckPassword(g.hash, password) {
		return fmt.Errorf("%w: admin password required", internaltypes.ErrUnauthorized)
	}
	return nil
}
