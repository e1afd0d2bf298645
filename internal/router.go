package internal

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(app))

	r.GET("/healthz", func(c *gin.Context) {
		if err := app.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	auth := Auth(app.Secret, cookieName)

	api := r.Group("/api", Compress())
	{
		api.POST("/sign-up", SignUp(app))
		api.POST("/login", Login(app))
		api.POST("/logout", Logout())
		api.GET("/me", auth, Me(app))
		api.POST("/cash", auth, TopUpCash(app))

		// catalog and owned players
		api.GET("/players", ListCatalog(app))
		api.GET("/players/mine", auth, MyPlayers(app))
		api.GET("/players/:playerId", CatalogDetail(app))
		api.POST("/players/draw", auth, DrawPlayer(app))
		api.PATCH("/players/enhance", auth, EnhancePlayer(app))

		// squad
		api.GET("/squad/:accountId", auth, SquadOf(app))
		api.POST("/squad/:ownedId/setup", auth, SquadSetup(app))
		api.DELETE("/squad/:ownedId/setdown", auth, SquadSetdown(app))

		// matches
		api.GET("/lobby", auth, Lobby(app))
		api.POST("/start-game/:accountId", auth, StartGame(app))
		api.GET("/matches", auth, MyMatches(app))
		api.GET("/ranking", Ranking(app))

		// admin
		api.POST("/admin", AdminLogin(app))
		admin := api.Group("/admin", Auth(app.Secret, adminCookieName), RequireAdmin(app))
		{
			admin.GET("", AdminWelcome(app))
			admin.POST("/logout", AdminLogout(app))
			admin.GET("/logs", AdminLogs(app))
			admin.GET("/accounts", AdminAccounts(app))
			admin.POST("/catalog", AdminAddCatalog(app))
		}
	}
	return r
}
