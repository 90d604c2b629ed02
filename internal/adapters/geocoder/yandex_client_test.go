package geocoder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/internal/core/domain"
)

func geoObjectJSON(precision, pos string) string {
	return fmt.Sprintf(`{
		"GeoObject": {
			"metaDataProperty": {"GeocoderMetaData": {"precision": %q}},
			"Point": {"pos": %q}
		}
	}`, precision, pos)
}

func collectionJSON(members ...string) string {
	body := ""
	for i, m := range members {
		if i > 0 {
			body += ","
		}
		body += m
	}
	return `{"response": {"GeoObjectCollection": {"featureMember": [` + body + `]}}}`
}

func TestResolveEmptyAddressSkipsRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewYandexClient(Config{BaseURL: server.URL})
	result := client.Resolve(context.Background(), "   ")

	if requests != 0 {
		t.Errorf("expected no requests for blank address, got %d", requests)
	}
	if result.Resolved() || result.Precision != domain.GeocodeNone {
		t.Errorf("got %+v, want unresolved with precision %q", result, domain.GeocodeNone)
	}
}

func TestResolvePicksMostPreciseCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("geocode"); got != "Ленина 5" {
			t.Errorf("geocode param = %q", got)
		}
		fmt.Fprint(w, collectionJSON(
			geoObjectJSON("street", "37.60 55.74"),
			geoObjectJSON("exact", "37.617635 55.755814"),
			geoObjectJSON("locality", "37.50 55.70"),
		))
	}))
	defer server.Close()

	client := NewYandexClient(Config{BaseURL: server.URL})
	result := client.Resolve(context.Background(), "Ленина 5")

	if !result.Resolved() {
		t.Fatalf("expected resolved result, got %+v", result)
	}
	if result.Precision != domain.PrecisionExact {
		t.Errorf("precision = %q, want exact", result.Precision)
	}
	// Point.pos приходит как "долгота широта"
	if *result.Latitude != 55.755814 || *result.Longitude != 37.617635 {
		t.Errorf("coords = (%v, %v), want (55.755814, 37.617635)", *result.Latitude, *result.Longitude)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, collectionJSON())
	}))
	defer server.Close()

	client := NewYandexClient(Config{BaseURL: server.URL})
	result := client.Resolve(context.Background(), "улица, которой нет")

	if result.Resolved() || result.Precision != domain.GeocodeNotFound {
		t.Errorf("got %+v, want unresolved with precision %q", result, domain.GeocodeNotFound)
	}
}

func TestResolveCandidatesWithoutCoords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, collectionJSON(
			geoObjectJSON("exact", ""),
			geoObjectJSON("street", "not numbers"),
		))
	}))
	defer server.Close()

	client := NewYandexClient(Config{BaseURL: server.URL})
	result := client.Resolve(context.Background(), "Ленина 5")

	if result.Resolved() || result.Precision != domain.GeocodeNoCoords {
		t.Errorf("got %+v, want unresolved with precision %q", result, domain.GeocodeNoCoords)
	}
}

func TestResolveProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewYandexClient(Config{BaseURL: server.URL})
	result := client.Resolve(context.Background(), "Ленина 5")

	if result.Resolved() || result.Precision != domain.GeocodeError {
		t.Errorf("got %+v, want unresolved with precision %q", result, domain.GeocodeError)
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		pos     string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{"37.617635 55.755814", 55.755814, 37.617635, true},
		{"", 0, 0, false},
		{"37.6", 0, 0, false},
		{"abc def", 0, 0, false},
	}

	for _, tt := range tests {
		lat, lng, ok := parsePos(tt.pos)
		if ok != tt.wantOK || lat != tt.wantLat || lng != tt.wantLng {
			t.Errorf("parsePos(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.pos, lat, lng, ok, tt.wantLat, tt.wantLng, tt.wantOK)
		}
	}
}
