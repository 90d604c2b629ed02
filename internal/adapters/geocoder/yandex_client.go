package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

const defaultBaseURL = "https://geocode-maps.yandex.ru/1.x/"

// Config - настройки HTTP-клиента геокодера.
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout ограничивает каждый запрос к провайдеру. Без него
	// зависший геокодер держал бы создание объявления до таймаута
	// всего HTTP-запроса.
	Timeout time.Duration
}

// YandexClient реализует GeocoderPort поверх HTTP-геокодера Яндекса.
// Любой сбой провайдера превращается в результат без координат с
// причиной в Precision, ошибок наружу клиент не отдает.
type YandexClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewYandexClient(cfg Config) *YandexClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &YandexClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *YandexClient) Resolve(ctx context.Context, address string) domain.GeocodeResult {
	logger := contextkeys.LoggerFromContext(ctx)
	geoLogger := logger.WithFields(port.Fields{
		"component": "YandexClient",
		"address":   address,
	})

	if strings.TrimSpace(address) == "" {
		return domain.GeocodeResult{Precision: domain.GeocodeNone}
	}

	candidates, err := c.fetchCandidates(ctx, address)
	if err != nil {
		geoLogger.Warn("Geocoding request failed", port.Fields{"error": err.Error()})
		return domain.GeocodeResult{Precision: domain.GeocodeError}
	}
	if len(candidates) == 0 {
		geoLogger.Info("Geocoder returned no candidates", nil)
		return domain.GeocodeResult{Precision: domain.GeocodeNotFound}
	}

	best := domain.BestCandidate(candidates)
	if best == nil {
		geoLogger.Warn("No geocoding candidate with parsable coordinates", port.Fields{
			"candidates": len(candidates),
		})
		return domain.GeocodeResult{Precision: domain.GeocodeNoCoords}
	}

	geoLogger.Debug("Address resolved", port.Fields{"precision": best.Precision})
	lat, lng := best.Latitude, best.Longitude
	return domain.GeocodeResult{
		Latitude:  &lat,
		Longitude: &lng,
		Precision: best.Precision,
	}
}

func (c *YandexClient) fetchCandidates(ctx context.Context, address string) ([]domain.GeoCandidate, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("geocode", address)
	params.Set("format", "json")
	params.Set("results", "10")
	params.Set("kind", "house")
	params.Set("lang", "ru_RU")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder responded with status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	candidates := make([]domain.GeoCandidate, 0, len(members))
	for _, m := range members {
		candidate := domain.GeoCandidate{
			Precision: m.GeoObject.MetaDataProperty.GeocoderMetaData.Precision,
		}
		if lat, lng, ok := parsePos(m.GeoObject.Point.Pos); ok {
			candidate.Latitude = lat
			candidate.Longitude = lng
			candidate.HasCoords = true
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// parsePos разбирает строку "долгота широта" формата Point.pos.
func parsePos(pos string) (lat, lng float64, ok bool) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
