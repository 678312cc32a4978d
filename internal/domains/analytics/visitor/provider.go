package visitor

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonPrefix marks identifiers that were never persisted. Callers must not
// assume stability across calls for these.
const AnonPrefix = "anon-"

// Provider hands out a stable pseudo-anonymous visitor identifier.
// As long as the backing storage works, the same storage state always yields
// the same id. When storage fails the Provider falls back to a fresh
// AnonPrefix id per call and skips persistence.
type Provider struct {
	storage Storage
}

func NewProvider(storage Storage) *Provider {
	return &Provider{storage: storage}
}

// VisitorID returns the persisted id, or mints, persists and returns a new
// one. Storage failure on either read or write degrades to an ephemeral id.
func (p *Provider) VisitorID() string {
	existing, err := p.storage.Get(VisitorKey)
	if err != nil {
		return ephemeralID()
	}
	if existing != "" {
		return existing
	}

	id := uuid.NewString()
	if err := p.storage.Set(VisitorKey, id); err != nil {
		return ephemeralID()
	}
	return id
}

// IsEphemeral reports whether an id came from the degraded path.
func IsEphemeral(id string) bool {
	return strings.HasPrefix(id, AnonPrefix)
}

func ephemeralID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure leaves the timestamp as the only entropy
		return AnonPrefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return AnonPrefix + strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + hex.EncodeToString(buf)
}
