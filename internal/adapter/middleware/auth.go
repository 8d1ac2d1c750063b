package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"loan-origination/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

type Claims struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID. Used by the token command
// and tests; production tokens come from the identity service.
func IssueToken(secret []byte, userID string, role user.Role, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !reHex32.MatchString(claims.UserID) {
		return nil, errors.New("invalid user id claim")
	}
	switch claims.Role {
	case user.RoleCustomer, user.RoleAdmin:
	default:
		return nil, errors.New("invalid role claim")
	}
	return claims, nil
}

// Auth validates the bearer token and stores the caller on the context.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization header is required"})
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
			}
			claims, err := parseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(principalKey, user.Principal{UserID: claims.UserID, Role: claims.Role})
			return next(c)
		}
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		}
	}
}

func PrincipalFrom(c echo.Context) (user.Principal, bool) {
	p, ok := c.Get(principalKey).(user.Principal)
	return p, ok && p.Authenticated()
}

// WithPrincipal is for tests that bypass Auth.
func WithPrincipal(c echo.Context, p user.Principal) { c.Set(principalKey, p) }
