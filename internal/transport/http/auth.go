package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const sessionContextKey = "dashboardSession"

// Claims are the gateway's session token claims. The token only carries the
// session id and role; the session store stays authoritative so logout
// invalidates tokens immediately.
type Claims struct {
	SessionID string             `json:"sid"`
	Role      domain.Stakeholder `json:"role"`
	jwt.RegisteredClaims
}

// SignToken mints an HS256 token for a session.
func SignToken(secret []byte, session app.Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: session.ID,
		Role:      session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RequireSession parses the Bearer token and resolves the backing session,
// rejecting requests whose session has been logged out or expired.
func RequireSession(secret []byte, auth *app.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			}
			claims, err := parseToken(secret, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			}
			session, err := auth.Resolve(c.Request().Context(), claims.SessionID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session expired"})
			}
			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) (app.Session, bool) {
	session, ok := c.Get(sessionContextKey).(app.Session)
	return session, ok
}
