package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// Records builds a small plausible dataset ending at the given instant, one
// record per step going backwards.
func Records(end time.Time, step time.Duration, prices ...float64) []models.PriceRecord {
	out := make([]models.PriceRecord, len(prices))
	for i, p := range prices {
		ts := end.Add(-time.Duration(len(prices)-1-i) * step)
		out[i] = models.PriceRecord{
			ProductName:   "Aura Digital Gold 24K",
			PriceWithGST:  p,
			PriceExGST:    p / 1.03,
			AuraBuyPrice:  p - 10,
			AuraSellPrice: p - 60,
			UpdatedAt:     ts.Format(time.RFC3339),
		}
	}
	return out
}

// FeedServer serves the payload as the upstream feed would: JSON body,
// application/json content type, 200.
func FeedServer(t *testing.T, payload any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode payload: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// FeedServerRaw serves an arbitrary status, content type and body, for
// exercising the failure paths.
func FeedServerRaw(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
