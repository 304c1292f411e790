package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/connector"
	"github.com/dieptv1999/trustkeys-connector/internal/httputil"
)

// SessionResponse is the payload returned by session endpoints.
type SessionResponse struct {
	Account    string `json:"account,omitempty"`
	ChainID    string `json:"chainId,omitempty"`
	Authorized bool   `json:"authorized"`
}

// Activate handles POST /api/session/activate.
func Activate(c *connector.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upd, err := c.Activate(r.Context())
		switch {
		case errors.Is(err, config.ErrProviderUnavailable):
			httputil.Error(w, http.StatusServiceUnavailable, config.ErrorProviderUnavailable, "no wallet provider reachable")
		case errors.Is(err, config.ErrUserRejected):
			httputil.Error(w, http.StatusForbidden, config.ErrorUserRejected, "user declined the account access prompt")
		case err != nil:
			slog.Error("activation failed", "error", err)
			httputil.Error(w, http.StatusBadGateway, config.ErrorActivateFailed, err.Error())
		default:
			httputil.JSON(w, http.StatusOK, SessionResponse{
				Account:    upd.Account,
				Authorized: upd.Account != "",
			})
		}
	}
}

// Deactivate handles DELETE /api/session. Always succeeds.
func Deactivate(c *connector.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		c.Deactivate()
		httputil.JSON(w, http.StatusOK, map[string]bool{"active": false})
	}
}

// ChainID handles GET /api/session/chain-id. An empty chain id after the
// full negotiation is reported as-is, not as an error.
func ChainID(c *connector.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := c.ChainID(r.Context())
		switch {
		case errors.Is(err, config.ErrProviderUnavailable):
			httputil.Error(w, http.StatusServiceUnavailable, config.ErrorProviderUnavailable, "no wallet provider reachable")
		case err != nil:
			httputil.Error(w, http.StatusBadGateway, config.ErrorQueryFailed, err.Error())
		default:
			httputil.JSON(w, http.StatusOK, map[string]string{"chainId": id})
		}
	}
}

// Account handles GET /api/session/account.
func Account(c *connector.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := c.Account(r.Context())
		switch {
		case errors.Is(err, config.ErrProviderUnavailable):
			httputil.Error(w, http.StatusServiceUnavailable, config.ErrorProviderUnavailable, "no wallet provider reachable")
		case err != nil:
			slog.Warn("account negotiation failed", "error", err)
			httputil.Error(w, http.StatusBadGateway, config.ErrorQueryFailed, err.Error())
		default:
			httputil.JSON(w, http.StatusOK, map[string]string{"account": account})
		}
	}
}

// Authorized handles GET /api/session/authorized. Never fails.
func Authorized(c *connector.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]bool{
			"authorized": c.IsAuthorized(r.Context()),
		})
	}
}
