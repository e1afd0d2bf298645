package internal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"squad-arena/internal/game"
)

func logAction(app *App, c *gin.Context, actorID *int64, action, details string) {
	if err := app.Store.LogAction(c.Request.Context(), actorID, action, details); err != nil {
		app.Log.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func statusOf(kind game.Kind) int {
	switch kind {
	case game.KindAccountNotFound, game.KindMissingCatalogEntry, game.KindPlayerNotOwned:
		return http.StatusNotFound
	case game.KindConflict, game.KindAlreadyInSquad, game.KindSquadFull, game.KindExhaustedRetries:
		return http.StatusConflict
	case game.KindUnauthorized:
		return http.StatusUnauthorized
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeErr renders a game rejection as {"error", "kind"}. Anything else is
// logged and reported as a bare 500.
func writeErr(app *App, c *gin.Context, err error) {
	kind := game.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		app.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "db"})
		return
	}
	msg := err.Error()
	var ge *game.Error
	if errors.As(err, &ge) {
		msg = ge.Msg
	}
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"error": "bad " + name, "kind": game.KindInvalidInput})
		return 0, false
	}
	return id, true
}
