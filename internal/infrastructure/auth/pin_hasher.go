package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrPepperRequired is returned when no PIN pepper is configured
var ErrPepperRequired = errors.New("PIN pepper must not be empty")

// PinHasher implements identity.PinHasher.
//
// Hash is bcrypt. Lookup is HMAC-SHA256 keyed with a server-side pepper over
// branch ID and PIN, hex encoded; the 10^4 PIN space makes an unkeyed digest
// reversible, so the pepper must stay out of the database.
type PinHasher struct {
	pepper []byte
	cost   int
}

// NewPinHasher creates a PinHasher. A cost <= 0 uses bcrypt.DefaultCost.
func NewPinHasher(pepper string, cost int) (*PinHasher, error) {
	if pepper == "" {
		return nil, ErrPepperRequired
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, bcrypt.InvalidCostError(cost)
	}
	return &PinHasher{pepper: []byte(pepper), cost: cost}, nil
}

// Hash returns the bcrypt hash of pin
func (h *PinHasher) Hash(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether pin matches hash
func (h *PinHasher) Compare(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// Lookup returns the branch-scoped keyed digest of pin
func (h *PinHasher) Lookup(branchID uuid.UUID, pin string) string {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write(branchID[:])
	mac.Write([]byte{':'})
	mac.Write([]byte(pin))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ identity.PinHasher = (*PinHasher)(nil)
