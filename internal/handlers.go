package internal

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"squad-arena/internal/game"
)

func Me(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, err := app.Store.AccountByID(c.Request.Context(), uid(c))
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, viewOf(acc))
	}
}

// POST /api/cash
func TopUpCash(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cashReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "amount must be a positive integer", "kind": game.KindInvalidInput})
			return
		}
		if req.Amount > app.Rules.CashTopUpLimit {
			c.JSON(400, gin.H{"error": fmt.Sprintf("amount must not exceed %d", app.Rules.CashTopUpLimit), "kind": game.KindInvalidInput})
			return
		}

		id := uid(c)
		cash, err := app.Store.TopUpCash(c.Request.Context(), id, req.Amount)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &id, "cash_topup", "amount="+strconv.FormatInt(req.Amount, 10))
		c.JSON(200, gin.H{"cash": cash})
	}
}

// ------------------- Catalog -------------------

func ListCatalog(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := app.Store.ListCatalog(c.Request.Context())
		if err != nil {
			writeErr(app, c, err)
			return
		}
		out := make([]catalogView, 0, len(entries))
		for _, e := range entries {
			out = append(out, catalogViewOf(e))
		}
		c.JSON(200, out)
	}
}

func CatalogDetail(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "playerId")
		if !ok {
			return
		}
		e, err := app.Store.CatalogEntry(c.Request.Context(), id)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, catalogViewOf(e))
	}
}

// ------------------- Owned players -------------------

func MyPlayers(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := app.Store.OwnedPlayers(c.Request.Context(), uid(c))
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, out)
	}
}

// POST /api/players/draw
func DrawPlayer(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uid(c)
		res, err := game.Draw(c.Request.Context(), app.Store, app.rand(), app.Rules, id)
		app.Metrics.observeDraw(res, err)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &id, "draw", fmt.Sprintf("catalog_id=%d owned_id=%d attempts=%d", res.Entry.ID, res.Player.ID, res.Attempts))
		c.JSON(200, gin.H{
			"player":    res.Player,
			"entry":     catalogViewOf(res.Entry),
			"attempts":  res.Attempts,
			"duplicate": res.Duplicate,
			"cash":      res.CashLeft,
		})
	}
}

// PATCH /api/players/enhance
func EnhancePlayer(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enhanceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "target_id and material_id are required", "kind": game.KindInvalidInput})
			return
		}

		id := uid(c)
		res, err := game.Enhance(c.Request.Context(), app.Store, app.rand(), app.Rules, id, req.TargetID, req.MaterialID)
		app.Metrics.observeEnhance(res, err)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &id, "enhance", fmt.Sprintf("target=%d material=%d success=%t level=%d", req.TargetID, req.MaterialID, res.Success, res.Target.Level))
		c.JSON(200, res)
	}
}

// ------------------- Squad -------------------

func SquadOf(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := paramID(c, "accountId")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		players, err := app.Store.SquadView(ctx, accountID)
		if err != nil {
			writeErr(app, c, err)
			return
		}

		resp := gin.H{"account_id": accountID, "players": players, "complete": len(players) == game.SquadSize}
		if len(players) == game.SquadSize {
			avg, err := game.Aggregate(ctx, app.Store, accountID)
			if err != nil {
				writeErr(app, c, err)
				return
			}
			resp["average"] = avg.Value()
		}
		c.JSON(200, resp)
	}
}

// POST /api/squad/:ownedId/setup
func SquadSetup(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownedID, ok := paramID(c, "ownedId")
		if !ok {
			return
		}
		id := uid(c)
		slot, err := game.AssignToSquad(c.Request.Context(), app.Store, id, ownedID)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &id, "squad_setup", fmt.Sprintf("owned_id=%d slot=%d", ownedID, slot.Slot))
		c.JSON(200, slot)
	}
}

// DELETE /api/squad/:ownedId/setdown
func SquadSetdown(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownedID, ok := paramID(c, "ownedId")
		if !ok {
			return
		}
		id := uid(c)
		if err := game.RemoveFromSquad(c.Request.Context(), app.Store, id, ownedID); err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, &id, "squad_setdown", fmt.Sprintf("owned_id=%d", ownedID))
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Matches -------------------

func Lobby(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := app.Store.Lobby(c.Request.Context(), uid(c), app.LobbyWindow, 50)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, out)
	}
}

// POST /api/start-game/:accountId
func StartGame(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		opponentID, ok := paramID(c, "accountId")
		if !ok {
			return
		}
		id := uid(c)
		rep, err := app.arena().Play(c.Request.Context(), id, opponentID)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		app.Metrics.observeMatch(rep)
		logAction(app, c, &id, "match", fmt.Sprintf("match_id=%s opponent=%d outcome=%s score=%d-%d",
			rep.MatchID, opponentID, rep.Outcome, rep.Home.Goals, rep.Away.Goals))
		c.JSON(200, rep)
	}
}

// GET /api/matches?limit=
func MyMatches(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseUint(c.DefaultQuery("limit", "20"), 10, 64)
		if err != nil || limit == 0 || limit > 100 {
			limit = 20
		}
		out, err := app.Store.MatchesFor(c.Request.Context(), uid(c), limit)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, out)
	}
}

func Ranking(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := app.Store.Leaderboard(c.Request.Context(), 100)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, out)
	}
}

// ------------------- Admin -------------------

func AdminLogs(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := app.Store.ListLogs(c.Request.Context(), 200)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		c.JSON(200, out)
	}
}

// GET /api/admin/accounts?limit=&offset=
func AdminAccounts(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseUint(c.DefaultQuery("limit", "100"), 10, 64)
		if err != nil || limit == 0 || limit > 500 {
			limit = 100
		}
		offset, _ := strconv.ParseUint(c.DefaultQuery("offset", "0"), 10, 64)

		accs, err := app.Store.ListAccounts(c.Request.Context(), limit, offset)
		if err != nil {
			writeErr(app, c, err)
			return
		}
		out := make([]accountView, 0, len(accs))
		for _, a := range accs {
			out = append(out, viewOf(a))
		}
		c.JSON(200, out)
	}
}

func AdminAddCatalog(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "name and five attributes within 1..100 are required", "kind": game.KindInvalidInput})
			return
		}
		e, err := app.Store.AddCatalogEntry(c.Request.Context(), req.entry())
		if err != nil {
			writeErr(app, c, err)
			return
		}
		logAction(app, c, nil, "admin_add_catalog", fmt.Sprintf("catalog_id=%d name=%s", e.ID, e.Name))
		c.JSON(201, catalogViewOf(e))
	}
}
