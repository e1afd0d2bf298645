package internal

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"squad-arena/internal/game"
)

func issueToken(app *App, userID int64, role string) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(app.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	})
	s, err := tok.SignedString([]byte(app.Secret))
	return s, jti, err
}

func SignUp(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "email, password and account name do not follow the rules", "kind": game.KindInvalidInput})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			writeErr(app, c, err)
			return
		}

		acc, err := app.Store.CreateAccount(c.Request.Context(), game.Account{
			Email:    req.Email,
			Name:     req.AccountName,
			PassHash: string(hash),
			Role:     game.RoleUser,
			Cash:     app.Rules.StartingCash,
			Rating:   game.StartingRating,
		})
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &acc.ID, "sign_up", "account registered")
		c.JSON(http.StatusCreated, viewOf(acc))
	}
}

func Login(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json", "kind": game.KindInvalidInput})
			return
		}

		acc, err := app.Store.AccountByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, game.ErrAccountNotFound) {
			c.JSON(401, gin.H{"error": "invalid credentials", "kind": game.KindUnauthorized})
			return
		}
		if err != nil {
			writeErr(app, c, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(acc.PassHash), []byte(req.Password)) != nil {
			c.JSON(401, gin.H{"error": "invalid credentials", "kind": game.KindUnauthorized})
			return
		}

		s, _, err := issueToken(app, acc.ID, acc.Role)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.SetCookie(cookieName, s, int(app.TokenTTL.Seconds()), "/", "", app.CookieSecure, true)

		logAction(app, c, &acc.ID, "login", "success")
		c.JSON(200, gin.H{"token": s, "expires_in": int(app.TokenTTL.Seconds())})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func AdminLogin(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminLoginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json", "kind": game.KindInvalidInput})
			return
		}
		if app.AdminID == "" || app.AdminPW == "" ||
			subtle.ConstantTimeCompare([]byte(req.Username), []byte(app.AdminID)) != 1 ||
			subtle.ConstantTimeCompare([]byte(req.Password), []byte(app.AdminPW)) != 1 {
			c.JSON(401, gin.H{"error": "invalid credentials", "kind": game.KindUnauthorized})
			return
		}

		s, jti, err := issueToken(app, 0, game.RoleAdmin)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		if err := app.Sessions.Activate(c.Request.Context(), jti, app.TokenTTL); err != nil {
			writeErr(app, c, err)
			return
		}
		c.SetCookie(adminCookieName, s, int(app.TokenTTL.Seconds()), "/", "", app.CookieSecure, true)

		logAction(app, c, nil, "admin_login", "success")
		c.JSON(200, gin.H{"message": "login successful", "token": s})
	}
}

func AdminWelcome(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "welcome to the admin page, " + app.AdminID + "!"})
	}
}

func AdminLogout(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Sessions.Revoke(c.Request.Context(), c.GetString("jti")); err != nil {
			writeErr(app, c, err)
			return
		}
		c.SetCookie(adminCookieName, "", -1, "/", "", false, true)
		logAction(app, c, nil, "admin_logout", "")
		c.JSON(200, gin.H{"ok": true})
	}
}
