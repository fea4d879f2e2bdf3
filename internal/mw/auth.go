package mw

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// AdminSessions issues and checks bearer tokens for the admin API. Tokens
// live in a TTL cache; restarting the process invalidates all of them, which
// is acceptable for a single shared-secret console.
type AdminSessions struct {
	password string
	tokens   *cache.Cache
	ttl      time.Duration
}

// NewAdminSessions creates a session registry for the given shared secret.
func NewAdminSessions(password string, ttl time.Duration) *AdminSessions {
	return &AdminSessions{
		password: password,
		tokens:   cache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Login checks the password and returns a fresh token on success.
func (a *AdminSessions) Login(password string) (string, bool) {
	if a.password == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", false
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", false
	}
	token := hex.EncodeToString(buf)
	a.tokens.Set(token, true, a.ttl)
	return token, true
}

// Logout revokes a token.
func (a *AdminSessions) Logout(token string) {
	a.tokens.Delete(token)
}

// Valid reports whether a token is a live admin session.
func (a *AdminSessions) Valid(token string) bool {
	_, found := a.tokens.Get(token)
	return found
}

// RequireAdmin is a middleware gating the admin routes on a bearer token
// issued by Login.
func RequireAdmin(sessions *AdminSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || !sessions.Valid(token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// TokenFrom extracts the caller's own token, for logout.
func TokenFrom(c *gin.Context) (string, error) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	return token, nil
}
