package internal

import "squad-arena/internal/game"

type signUpReq struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,alphanum,min=6"`
	AccountName string `json:"account_name" binding:"required,alphanum,min=6"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type adminLoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type cashReq struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type enhanceReq struct {
	TargetID   int64 `json:"target_id" binding:"required,gt=0"`
	MaterialID int64 `json:"material_id" binding:"required,gt=0"`
}

type catalogReq struct {
	Name      string `json:"name" binding:"required"`
	Speed     int    `json:"speed" binding:"required,min=1,max=100"`
	Finishing int    `json:"finishing" binding:"required,min=1,max=100"`
	Power     int    `json:"power" binding:"required,min=1,max=100"`
	Defense   int    `json:"defense" binding:"required,min=1,max=100"`
	Stamina   int    `json:"stamina" binding:"required,min=1,max=100"`
}

func (r catalogReq) entry() game.CatalogEntry {
	return game.CatalogEntry{Name: r.Name, Stats: game.Stats{
		Speed: r.Speed, Finishing: r.Finishing, Power: r.Power, Defense: r.Defense, Stamina: r.Stamina,
	}}
}

// accountView is the public shape of an account.
type accountView struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"account_name"`
	Role   string `json:"role"`
	Cash   int64  `json:"cash"`
	Rating int    `json:"rating"`
}

func viewOf(a game.Account) accountView {
	return accountView{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role, Cash: a.Cash, Rating: a.Rating}
}

type catalogView struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Stats   game.Stats `json:"stats"`
	Average float64    `json:"average"`
}

func catalogViewOf(e game.CatalogEntry) catalogView {
	return catalogView{ID: e.ID, Name: e.Name, Stats: e.Stats, Average: e.Stats.Average()}
}
