package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/waypost-app/waypost/internal/adapters/places"
	"github.com/waypost-app/waypost/internal/core/domain"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/campground.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("access_token") != "test-token" {
			t.Errorf("missing access token, got %q", q.Get("access_token"))
		}
		if q.Get("bbox") == "" || q.Get("proximity") == "" {
			t.Error("expected bbox and proximity parameters")
		}
		if q.Get("limit") != "5" {
			t.Errorf("expected limit 5, got %q", q.Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"features": [
				{"center": [-110.21, 44.21], "text": "Echo Lake Campground", "properties": {"category": "campground"}},
				{"center": [-110.22, 44.22], "text": "Pine Ridge RV Park", "place_name": "Pine Ridge RV Park, WY"},
				{"center": [], "text": "Broken Feature"}
			]
		}`))
	}))
	defer srv.Close()

	c := places.NewClient("test-token", srv.URL, 2*time.Second)
	got, err := c.Search(context.Background(), "campground", domain.GeoPoint{Lat: 44.2, Lon: -110.2}, 8000, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 places (feature without coordinates dropped), got %d", len(got))
	}
	if got[0].Name != "Echo Lake Campground" || got[0].Category != "campground" {
		t.Errorf("unexpected place: %+v", got[0])
	}
	if got[0].Location.Lat != 44.21 || got[0].Location.Lon != -110.21 {
		t.Errorf("lon/lat order mixed up: %+v", got[0].Location)
	}
	if got[1].Category != "Pine Ridge RV Park, WY" {
		t.Errorf("expected place_name fallback category, got %q", got[1].Category)
	}
}

func TestClient_Search_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := places.NewClient("test-token", srv.URL, 2*time.Second)
	_, err := c.Search(context.Background(), "campground", domain.GeoPoint{Lat: 44.2, Lon: -110.2}, 8000, 5)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := places.NewClient("test-token", srv.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Search(ctx, "campground", domain.GeoPoint{Lat: 44.2, Lon: -110.2}, 8000, 5); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
