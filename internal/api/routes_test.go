package api

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	router := SetupRoutes(NewHandler(nil, nil, nil, nil, nil))

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/api/v1/assets"},
		{"POST", "/api/v1/assets"},
		{"DELETE", "/api/v1/assets"},
		{"GET", "/api/v1/assets/AAPL"},
		{"PUT", "/api/v1/assets/AAPL"},
		{"DELETE", "/api/v1/assets/AAPL"},
		{"GET", "/api/v1/cash"},
		{"POST", "/api/v1/cash"},
		{"PUT", "/api/v1/cash"},
		{"GET", "/api/v1/cash/history"},
		{"DELETE", "/api/v1/cash/history"},
		{"DELETE", "/api/v1/cash/42"},
		{"GET", "/api/v1/fx"},
		{"GET", "/api/v1/fx/history"},
		{"GET", "/api/v1/portfolio"},
		{"GET", "/api/v1/portfolio/history"},
		{"GET", "/api/v1/stocks/AAPL/history"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.path, nil)
			require.NoError(t, err)

			var match mux.RouteMatch
			assert.True(t, router.Match(req, &match), "no route for %s %s", tt.method, tt.path)
		})
	}
}
