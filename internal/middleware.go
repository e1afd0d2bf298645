package internal

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"squad-arena/internal/game"
)

const (
	cookieName      = "squad_token"
	adminCookieName = "admin_token"
	issuer          = "squad-arena"
)

type claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func tokenFrom(c *gin.Context, cookie string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		typ, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(typ, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, _ := c.Cookie(cookie)
	return tok
}

// Auth accepts a Bearer token or the named cookie.
func Auth(secret, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c, cookie)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized", "kind": game.KindUnauthorized})
			return
		}

		tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
		if err != nil || !tok.Valid {
			msg := "bad token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "kind": game.KindUnauthorized})
			return
		}

		cl, ok := tok.Claims.(*claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad claims", "kind": game.KindUnauthorized})
			return
		}

		c.Set("uid", cl.UserID)
		c.Set("role", cl.Role)
		c.Set("jti", cl.ID)
		c.Next()
	}
}

// RequireAdmin also checks the token is still the active admin session.
func RequireAdmin(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != game.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		active, err := app.Sessions.IsActive(c.Request.Context(), c.GetString("jti"))
		if err != nil {
			app.Log.Error("admin session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is invalid (logged out elsewhere)"})
			return
		}
		c.Next()
	}
}

func uid(c *gin.Context) int64 {
	v, _ := c.Get("uid")
	id, _ := v.(int64)
	return id
}

// RequestLogger emits one "http.access" line per request and tags the
// response with an X-Request-ID.
func RequestLogger(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header("X-Request-ID", rid)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		if id := uid(c); id != 0 {
			fields = append(fields, zap.Int64("uid", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			app.Log.Error("http.access", fields...)
		case status >= 400:
			app.Log.Warn("http.access", fields...)
		default:
			app.Log.Info("http.access", fields...)
		}
		if app.Metrics != nil {
			app.Metrics.observeRequest(c.Request.Method, route, status, latency)
		}
	}
}
