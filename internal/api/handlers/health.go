package handlers

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/dom/wallet-custody-api/internal/metrics"
)

// ChainInfo reports which network the RPC endpoint serves.
type ChainInfo interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

type HealthHandler struct {
	chain ChainInfo
	log   *slog.Logger
}

func NewHealthHandler(chain ChainInfo, log *slog.Logger) *HealthHandler {
	return &HealthHandler{chain: chain, log: log}
}

type ChainResponse struct {
	ChainID string `json:"chainId"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Ping confirms the caller's access token is accepted.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (h *HealthHandler) Chain(w http.ResponseWriter, r *http.Request) {
	id, err := h.chain.ChainID(r.Context())
	if err != nil {
		metrics.ChainRPCError("eth_chainId")
		writeError(w, r, h.log.With(slog.String("op", "handlers.Health.Chain")), err, "Failed to reach RPC endpoint")
		return
	}

	writeJSON(w, r, http.StatusOK, ChainResponse{ChainID: id.String()})
}
