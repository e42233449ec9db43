package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/pkg/config"
)

// HTTPClient calls the platform backend's AI recommendation routes.
type HTTPClient struct {
	baseURL           string
	doctorsPath       string
	healthCentersPath string
	doctorLimit       int
	httpClient        *http.Client
}

var _ providers.RecommendationProvider = (*HTTPClient)(nil)

type doctorsResponse struct {
	Doctors []entities.Doctor `json:"doctors"`
	Count   int               `json:"count"`
}

type healthCentersResponse struct {
	HealthCenters []entities.HealthCenter `json:"healthCenters"`
	Count         int                     `json:"count"`
}

// NewClient creates a backend lookup client
func NewClient(cfg *config.BackendAPIConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		doctorsPath:       cfg.DoctorsPath,
		healthCentersPath: cfg.HealthCentersPath,
		doctorLimit:       cfg.DoctorLimit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RecommendedDoctors returns doctors matching any of the given specialties.
func (c *HTTPClient) RecommendedDoctors(ctx context.Context, specialties []string, authToken string) ([]entities.Doctor, error) {
	if len(specialties) == 0 {
		return []entities.Doctor{}, nil
	}

	parsed, err := url.Parse(c.baseURL + c.doctorsPath)
	if err != nil {
		return nil, err
	}
	query := parsed.Query()
	query.Set("specialties", strings.Join(specialties, ","))
	parsed.RawQuery = query.Encode()

	var out doctorsResponse
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), authToken, nil, &out); err != nil {
		return nil, fmt.Errorf("recommended doctors: %w", err)
	}

	doctors := lo.Filter(out.Doctors, func(d entities.Doctor, _ int) bool {
		return d.ID != ""
	})
	if c.doctorLimit > 0 {
		doctors = lo.Slice(doctors, 0, c.doctorLimit)
	}
	return doctors, nil
}

// RecommendedHealthCenters returns the facilities nearest to location.
func (c *HTTPClient) RecommendedHealthCenters(ctx context.Context, location entities.Coordinates, limit int, authToken string) ([]entities.HealthCenter, error) {
	parsed, err := url.Parse(c.baseURL + c.healthCentersPath)
	if err != nil {
		return nil, err
	}
	query := parsed.Query()
	query.Set("latitude", strconv.FormatFloat(location.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(location.Longitude, 'f', -1, 64))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	parsed.RawQuery = query.Encode()

	var out healthCentersResponse
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), authToken, nil, &out); err != nil {
		return nil, fmt.Errorf("recommended health centers: %w", err)
	}

	centers := out.HealthCenters
	if limit > 0 {
		centers = lo.Slice(centers, 0, limit)
	}
	if centers == nil {
		centers = []entities.HealthCenter{}
	}
	return centers, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint, authToken string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
