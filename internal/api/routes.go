package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Asset registry
	api.HandleFunc("/assets", handler.GetAllAssets).Methods("GET")
	api.HandleFunc("/assets", handler.CreateAsset).Methods("POST")
	api.HandleFunc("/assets", handler.ClearAssets).Methods("DELETE")
	api.HandleFunc("/assets/{symbol}", handler.GetAsset).Methods("GET")
	api.HandleFunc("/assets/{symbol}", handler.UpdateAsset).Methods("PUT")
	api.HandleFunc("/assets/{symbol}", handler.DeleteAsset).Methods("DELETE")

	// Cash ledger
	api.HandleFunc("/cash", handler.GetCurrentCash).Methods("GET")
	api.HandleFunc("/cash", handler.AppendCash).Methods("POST")
	api.HandleFunc("/cash", handler.SetCurrentCash).Methods("PUT")
	api.HandleFunc("/cash/history", handler.GetCashHistory).Methods("GET")
	api.HandleFunc("/cash/history", handler.ClearCashHistory).Methods("DELETE")
	api.HandleFunc("/cash/{id:[0-9]+}", handler.DeleteCashRecord).Methods("DELETE")

	// FX rates
	api.HandleFunc("/fx", handler.GetFxCurrent).Methods("GET")
	api.HandleFunc("/fx/history", handler.GetFxHistory).Methods("GET")

	// Portfolio snapshot
	api.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/history", handler.GetPortfolioHistory).Methods("GET")

	// Market-data history
	api.HandleFunc("/stocks/{symbol}/history", handler.GetStockHistory).Methods("GET")

	return r
}
