package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dom/wallet-custody-api/internal/api/middleware"
	"github.com/dom/wallet-custody-api/internal/service"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type WalletHandler struct {
	walletService *service.WalletService
	log           *slog.Logger
}

func NewWalletHandler(walletService *service.WalletService, log *slog.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

type ImportWalletRequest struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

type BalanceRequest struct {
	Address string `json:"address"`
}

type CreateWalletResponse struct {
	Message string                 `json:"message"`
	Wallet  *service.CreatedWallet `json:"wallet"`
}

type ImportWalletResponse struct {
	Message string                  `json:"message"`
	Wallet  *service.ImportedWallet `json:"wallet"`
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Wallet.Create")

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, r, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	wallet, err := h.walletService.Create(r.Context(), userID)
	if err != nil {
		writeError(w, r, log, err, "Failed to create wallet")
		return
	}

	writeJSON(w, r, http.StatusCreated, CreateWalletResponse{
		Message: "Wallet created and saved",
		Wallet:  wallet,
	})
}

func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Wallet.Import")

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, r, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req ImportWalletRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Debug("failed to decode request body", slog.String("err", err.Error()))
		writeMessage(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	wallet, err := h.walletService.Import(r.Context(), service.ImportWalletInput{
		OwnerID:    userID,
		Address:    req.Address,
		PrivateKey: req.PrivateKey,
	})
	if err != nil {
		writeError(w, r, log, err, "Import failed")
		return
	}

	writeJSON(w, r, http.StatusCreated, ImportWalletResponse{
		Message: "Wallet imported",
		Wallet:  wallet,
	})
}

// Balance reads the address from the query string first, then from a JSON
// body. Any valid address may be queried.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Wallet.Balance")

	address := r.URL.Query().Get("address")
	if address == "" && r.Body != nil {
		var req BalanceRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			log.Debug("failed to decode request body", slog.String("err", err.Error()))
			writeMessage(w, r, http.StatusBadRequest, "Invalid request body", "")
			return
		}
		address = req.Address
	}

	balance, err := h.walletService.Balance(r.Context(), address)
	if err != nil {
		writeError(w, r, log, err, "Failed to fetch balance")
		return
	}

	writeJSON(w, r, http.StatusOK, balance)
}

func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Wallet.List")

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, r, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	wallets, err := h.walletService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, log, err, "Failed to fetch wallets")
		return
	}

	writeJSON(w, r, http.StatusOK, wallets)
}

func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, MessageResponse{
		Message: h.walletService.SendTransaction(r.Context()),
	})
}

func (h *WalletHandler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
	)
}
