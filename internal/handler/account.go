// Package handler exposes the HTTP handlers behind the relay API. Each
// handler parses its input, optionally relies on the login middleware for
// the caller's identity, runs the matching repository calls and shapes the
// JSON response. Handlers accept small store interfaces so tests can run
// against in-memory fakes.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/config"
	"github.com/opentrails/data-relay/internal/middleware"
	"github.com/opentrails/data-relay/internal/model"
	"github.com/opentrails/data-relay/internal/repository"
	"github.com/opentrails/data-relay/internal/session"
	"github.com/opentrails/data-relay/internal/utils"
)

// AccountStore is the persistence surface the account endpoints need.
// *repository.AccountRepo satisfies it.
type AccountStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, a model.Account) error
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	GetByID(ctx context.Context, accountID string) (model.Account, error)
	Update(ctx context.Context, a model.Account) error
	ListDemographics(ctx context.Context) ([]model.Account, error)
}

// AccountHandler bundles dependencies for the account and login endpoints.
type AccountHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Sessions *session.Store
}

func NewAccountHandler(cfg config.Config, accounts AccountStore, sessions *session.Store) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Accounts: accounts, Sessions: sessions}
}

// ----- DTOs -----

type accountReq struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	BirthYear *int    `json:"birthyear"`
	Weight    *int    `json:"weight"`
	Sex       *string `json:"sex"`
	Height    *int    `json:"height"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResp struct {
	BirthYear *int    `json:"birthyear"`
	Weight    *int    `json:"weight"`
	Sex       *string `json:"sex"`
	Height    *int    `json:"height"`
}

// Create registers a new account. Duplicate usernames get a 409 and do not
// insert a second row.
func (h *AccountHandler) Create(c echo.Context) error {
	var req accountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Accounts.Exists(ctx, req.Username)
	if err != nil {
		c.Logger().Errorf("account exists check: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be created"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "account already exists"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be created"})
	}
	acct := model.Account{
		AccountID:    repository.NewAccountID(),
		Username:     req.Username,
		PasswordHash: hash,
		BirthYear:    req.BirthYear,
		Weight:       req.Weight,
		Sex:          req.Sex,
		Height:       req.Height,
	}
	if err := h.Accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			// lost the race between Exists and Create
			return c.JSON(http.StatusConflict, echo.Map{"error": "account already exists"})
		}
		c.Logger().Errorf("account create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be created"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"username": req.Username})
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords produce byte-identical responses so callers cannot
// probe which usernames exist.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "username or password is incorrect"})
		}
		c.Logger().Errorf("login lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be logged in"})
	}
	if !utils.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "username or password is incorrect"})
	}

	token := h.Sessions.Create(acct.AccountID)
	return c.JSON(http.StatusOK, echo.Map{"token": token.String()})
}

// Info returns the logged-in caller's profile. Optional attributes come
// back as JSON null when unset.
func (h *AccountHandler) Info(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByID(ctx, middleware.AccountID(c))
	if err != nil {
		c.Logger().Errorf("account info: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get account info"})
	}
	return c.JSON(http.StatusOK, accountResp{
		BirthYear: acct.BirthYear,
		Weight:    acct.Weight,
		Sex:       acct.Sex,
		Height:    acct.Height,
	})
}

// Edit replaces the caller's account wholesale with the supplied values,
// re-hashing the password.
func (h *AccountHandler) Edit(c echo.Context) error {
	var req accountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be updated"})
	}
	acct := model.Account{
		AccountID:    middleware.AccountID(c),
		Username:     req.Username,
		PasswordHash: hash,
		BirthYear:    req.BirthYear,
		Weight:       req.Weight,
		Sex:          req.Sex,
		Height:       req.Height,
	}
	if err := h.Accounts.Update(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		}
		c.Logger().Errorf("account update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account couldn't be updated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": req.Username})
}
