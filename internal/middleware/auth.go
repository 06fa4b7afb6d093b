package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"realestate/internal/config"
	"realestate/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// Claims are the identity provider's token claims
type Claims struct {
	Name      string           `json:"name,omitempty"`
	Email     string           `json:"email,omitempty"`
	Picture   string           `json:"picture,omitempty"`
	CreatedAt *jwt.NumericDate `json:"created_at,omitempty"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token has no subject")

// Auth validates the bearer token and stores the principal in the context
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	opts := []jwt.ParserOption{jwt.WithValidMethods(cfg.AllowedAlgs)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		principal, err := parsePrincipal(parser, secret, tokenStr)
		if err != nil {
			slog.Debug("Rejected token", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func parsePrincipal(parser *jwt.Parser, secret []byte, tokenStr string) (*model.Principal, error) {
	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}

	p := &model.Principal{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
	}
	if claims.CreatedAt != nil {
		p.CreatedAt = claims.CreatedAt.Time.UTC()
	}
	return p, nil
}

// PrincipalFrom returns the principal stored by Auth
func PrincipalFrom(c *gin.Context) (*model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*model.Principal)
	return p, ok
}

// SignToken issues an HS256 token for p. It is used by tests and local
// tooling.
func SignToken(secret string, p *model.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    p.DisplayName,
		Email:   p.Email,
		Picture: p.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if !p.CreatedAt.IsZero() {
		claims.CreatedAt = jwt.NewNumericDate(p.CreatedAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
