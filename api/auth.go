package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zecrev/codez/config"
	"github.com/zecrev/codez/db"
	"github.com/zecrev/codez/log"
)

const (
	// tokenCookieName is the cookie carrying the auth token
	tokenCookieName = "codez_token"
	// tokenTTL is how long issued tokens stay valid
	tokenTTL = 30 * 24 * time.Hour
)

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	cfg := config.Get()
	if cfg.AuthMode != "password" {
		RespondBadRequest(c, "Password auth is not enabled")
		return
	}

	// Configured password wins; otherwise the first login sets the stored hash
	if cfg.AuthPassword != "" {
		if subtle.ConstantTimeCompare([]byte(body.Password), []byte(cfg.AuthPassword)) != 1 {
			log.Warn().Msg("login attempt with invalid password")
			RespondUnauthorized(c, "Invalid password")
			return
		}
	} else {
		storedHash, err := db.GetSetting("auth_password_hash")
		if err != nil {
			log.Error().Err(err).Msg("failed to get password hash")
			RespondInternalError(c, "Authentication error")
			return
		}
		if storedHash == "" {
			hash := hashPassword(body.Password)
			if err := db.SetSetting("auth_password_hash", hash); err != nil {
				log.Error().Err(err).Msg("failed to save password hash")
				RespondInternalError(c, "Failed to set password")
				return
			}
			storedHash = hash
			log.Info().Msg("password auth initialized with first login")
		}
		if hashPassword(body.Password) != storedHash {
			log.Warn().Msg("login attempt with invalid password")
			RespondUnauthorized(c, "Invalid password")
			return
		}
	}

	token, err := issueToken(cfg.JWTSecret)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")
		RespondInternalError(c, "Failed to create session")
		return
	}

	secure := !cfg.IsDevelopment()
	c.SetCookie(tokenCookieName, token, int(tokenTTL.Seconds()), "/", "", secure, true)

	log.Info().Msg("login successful")
	RespondData(c, gin.H{"token": token})
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(tokenCookieName, "", -1, "/", "", false, true)
	RespondNoContent(c)
}

// AuthMode handles GET /api/auth/mode so clients know whether to show a login
func (h *Handlers) AuthMode(c *gin.Context) {
	RespondData(c, gin.H{"mode": config.Get().AuthMode})
}

// RequireAuth gates requests behind a valid token when password auth is on.
// With auth mode "none" every request passes through.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.Get()
		if cfg.AuthMode != "password" {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(tokenCookieName)
		}
		if token == "" || !verifyToken(cfg.JWTSecret, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func issueToken(secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "codez",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})
	return token.SignedString(signingKey(secret))
}

func verifyToken(secret, raw string) bool {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return signingKey(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && token.Valid
}

// signingKey derives a stable key when no explicit secret is configured.
// An unset secret still yields working tokens for single-instance use.
func signingKey(secret string) []byte {
	if secret == "" {
		secret = "codez-default-signing-key"
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}
