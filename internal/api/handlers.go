package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/database"
	"github.com/cybersoul/portfolio-service/internal/fx"
	"github.com/cybersoul/portfolio-service/internal/kafka"
	"github.com/cybersoul/portfolio-service/internal/models"
	"github.com/cybersoul/portfolio-service/internal/snapshot"
	"github.com/cybersoul/portfolio-service/internal/stocks"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db       *database.DB
	producer *kafka.Producer
	store    *snapshot.Store
	fx       *fx.Service
	stocks   *stocks.Service
}

// NewHandler creates a new Handler. producer may be nil when Kafka is
// disabled.
func NewHandler(db *database.DB, producer *kafka.Producer, store *snapshot.Store, fxService *fx.Service, stockService *stocks.Service) *Handler {
	return &Handler{
		db:       db,
		producer: producer,
		store:    store,
		fx:       fxService,
		stocks:   stockService,
	}
}

// GetAllAssets handles GET /assets
func (h *Handler) GetAllAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.db.GetAllAssets()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assets)
}

// GetAsset handles GET /assets/{symbol}
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	asset, err := h.db.GetAsset(symbol)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// CreateAsset handles POST /assets
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.CreateAsset(&asset); err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishAssetAdded(r.Context(), &asset); err != nil {
			log.Printf("Failed to publish asset added event: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, asset)
}

// UpdateAsset handles PUT /assets/{symbol}. The symbol itself is immutable.
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateAsset(symbol, &asset); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// DeleteAsset handles DELETE /assets/{symbol}
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if err := h.db.DeleteAsset(symbol); err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishAssetRemoved(r.Context(), symbol); err != nil {
			log.Printf("Failed to publish asset removed event: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearAssets handles DELETE /assets
func (h *Handler) ClearAssets(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ClearAssets(); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// cashRequest is the body for cash mutations
type cashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetCurrentCash handles GET /cash
func (h *Handler) GetCurrentCash(w http.ResponseWriter, r *http.Request) {
	record, err := h.db.GetCurrentCash()
	if err != nil {
		respondError(w, err)
		return
	}
	if record == nil {
		// Empty ledger reads as zero cash
		respondJSON(w, http.StatusOK, models.CashRecord{Amount: decimal.Zero})
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetCashHistory handles GET /cash/history
func (h *Handler) GetCashHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.db.GetCashHistory()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// AppendCash handles POST /cash: a new ledger entry
func (h *Handler) AppendCash(w http.ResponseWriter, r *http.Request) {
	var req cashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.db.AppendCashRecord(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// SetCurrentCash handles PUT /cash: edits the most-recent ledger entry in
// place instead of appending
func (h *Handler) SetCurrentCash(w http.ResponseWriter, r *http.Request) {
	var req cashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.db.SetCurrentCash(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// DeleteCashRecord handles DELETE /cash/{id}
func (h *Handler) DeleteCashRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteCashRecord(id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearCashHistory handles DELETE /cash/history
func (h *Handler) ClearCashHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ClearCashHistory(); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFxCurrent handles GET /fx
func (h *Handler) GetFxCurrent(w http.ResponseWriter, r *http.Request) {
	bid, variation, err := h.fx.CurrentWithVariation()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pair":      h.fx.Pair(),
		"bid":       bid,
		"variation": variation,
	})
}

// GetFxHistory handles GET /fx/history
func (h *Handler) GetFxHistory(w http.ResponseWriter, r *http.Request) {
	rates, err := h.fx.History()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rates)
}

// GetPortfolio handles GET /portfolio: the latest published snapshot
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	if snap == nil {
		http.Error(w, "no snapshot published yet", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// GetPortfolioHistory handles GET /portfolio/history
func (h *Handler) GetPortfolioHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	snapshots, err := h.db.GetSnapshotHistory(limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshots)
}

// GetStockHistory handles GET /stocks/{symbol}/history
func (h *Handler) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = n
	}

	bars, err := h.stocks.GetStockHistory(symbol, days)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bars)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps the domain error taxonomy onto HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidValue):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateSymbol):
		status = http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}
	http.Error(w, err.Error(), status)
}
