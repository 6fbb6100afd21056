package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/auth/jwt"
)

// SecretParam is the query parameter carrying the admin secret.
const SecretParam = "pwd"

// GuardConfig configures the admin guard. PasswordHash wins over Password when both are set.
type GuardConfig struct {
	Password     string
	PasswordHash string
	Cost         int
	Sessions     *jwt.Manager
}

// Guard decides whether a request acts as the admin.
type Guard struct {
	hash string
	// digest of the admin secret once it is known; later checks skip bcrypt.
	digest   atomic.Pointer[[sha256.Size]byte]
	sessions *jwt.Manager
	logger   zerolog.Logger
}

// NewGuard hashes the configured secret (unless a hash is supplied) and returns a Guard.
func NewGuard(cfg GuardConfig, logger zerolog.Logger) (*Guard, error) {
	hash := cfg.PasswordHash
	if hash == "" {
		var err error
		hash, err = HashPassword(cfg.Password, cfg.Cost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	g := &Guard{
		hash:     hash,
		sessions: cfg.Sessions,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
	if cfg.PasswordHash == "" {
		sum := sha256.Sum256([]byte(cfg.Password))
		g.digest.Store(&sum)
	}
	return g, nil
}

// Check reports whether secret is the admin secret. bcrypt runs only until the secret has been
// verified once; after that a constant-time digest comparison answers.
func (g *Guard) Check(secret string) bool {
	if secret == "" {
		return false
	}
	sum := sha256.Sum256([]byte(secret))
	if known := g.digest.Load(); known != nil {
		return subtle.ConstantTimeCompare(sum[:], known[:]) == 1
	}
	if VerifyPassword(g.hash, secret) != nil {
		return false
	}
	g.digest.Store(&sum)
	return true
}

// SessionsEnabled reports whether admin session tokens can be issued.
func (g *Guard) SessionsEnabled() bool {
	return g.sessions != nil
}

// Login exchanges the admin secret for a session token.
func (g *Guard) Login(secret string) (string, time.Duration, error) {
	if g.sessions == nil {
		return "", 0, ErrSessionsDisabled
	}
	if !g.Check(secret) {
		return "", 0, ErrUnauthorized
	}
	token, err := g.sessions.GenerateAdminToken()
	if err != nil {
		return "", 0, fmt.Errorf("sign admin token: %w", err)
	}
	return token, g.sessions.TTL(), nil
}

// Authorize accepts either the pwd query parameter or an admin Bearer token.
func (g *Guard) Authorize(r *http.Request) error {
	if secret := r.URL.Query().Get(SecretParam); secret != "" {
		if g.Check(secret) {
			return nil
		}
		return ErrUnauthorized
	}

	header := r.Header.Get("Authorization")
	if header == "" || g.sessions == nil {
		return ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ErrUnauthorized
	}
	if _, err := g.sessions.ValidateAdminToken(strings.TrimSpace(parts[1])); err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}
