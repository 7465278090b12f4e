package flights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"wanderplan/models"

	"go.uber.org/zap"
)

// maxResponseSize limits the provider body read into memory.
const maxResponseSize = 5 * 1024 * 1024

// DepartTomorrow is the relative date token the provider accepts when no date is known.
const DepartTomorrow = "TOMORROW"

// ApifyConfig configures the Skyscanner actor client.
type ApifyConfig struct {
	Endpoint string
	Token    string
	Origin   string
	Timeout  time.Duration
}

// ApifySource fetches offers from the Apify Skyscanner actor in a single synchronous run.
type ApifySource struct {
	cfg        ApifyConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewApifySource(cfg ApifyConfig, logger *zap.Logger) *ApifySource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApifySource{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// searchInput is the actor input; keys follow the actor's indexed form fields.
type searchInput struct {
	Origin string `json:"origin.0"`
	Target string `json:"target.0"`
	Depart string `json:"depart.0"`
}

// FetchOffers runs one search bounded by the configured timeout. Any failure is returned
// as *FlightSourceError; offers keep the provider's order.
func (s *ApifySource) FetchOffers(ctx context.Context, req models.TravelRequest) ([]models.FlightOffer, error) {
	input := searchInput{
		Origin: firstNonEmpty(req.Origin, s.cfg.Origin),
		Target: req.Destination,
		Depart: firstNonEmpty(req.DepartureDate, DepartTomorrow),
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, newSourceError(KindTransport, 0, fmt.Errorf("encode search input: %w", err))
	}

	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, newSourceError(KindTransport, 0, fmt.Errorf("parse endpoint: %w", err))
	}
	if s.cfg.Token != "" {
		q := endpoint.Query()
		q.Set("token", s.cfg.Token)
		endpoint.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, newSourceError(KindTransport, 0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Info("Searching flights",
		zap.String("origin", input.Origin),
		zap.String("target", input.Target),
		zap.String("depart", input.Depart),
		zap.Duration("timeout", s.cfg.Timeout),
	)

	started := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classifyTransport(ctx, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newSourceError(KindProvider, resp.StatusCode, fmt.Errorf("unexpected status: %s", snippet(respBody)))
	}

	offers, err := decodeOffers(respBody)
	if err != nil {
		return nil, newSourceError(KindProvider, resp.StatusCode, err)
	}

	s.logger.Info("Flight search finished",
		zap.Int("offers", len(offers)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return offers, nil
}

// classifyTransport separates the timeout bound from other network failures.
func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return newSourceError(KindTimeout, 0, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newSourceError(KindTimeout, 0, err)
	}
	return newSourceError(KindTransport, 0, err)
}

func snippet(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
