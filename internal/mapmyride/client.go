package mapmyride

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/2beens/ridesmap/internal/telemetry/metrics"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
)

const (
	DefaultAPIURL = "https://api.mapmyfitness.com"
	breakerName   = "mapmyride-api"
)

var (
	ErrMissingLink           = errors.New("missing link")
	ErrPathFormatUnavailable = errors.New("route path format unavailable")
)

// RequestError is returned for every non-2xx API response
type RequestError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf(
		"failed to get from endpoint %s\nStatus: %d %s\nResponse: %s",
		e.Endpoint, e.StatusCode, e.Status, e.Body,
	)
}

type NewClientParams struct {
	BaseURL        string
	ClientID       string
	AuthToken      string
	HttpClient     *http.Client
	RequestsPerSec float64
	// consecutive failures after which the breaker opens
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	MetricsManager  *metrics.Manager
}

type Client struct {
	baseURL    string
	clientID   string
	authToken  string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(params NewClientParams) *Client {
	baseURL := strings.TrimSuffix(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	httpClient := params.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	limit := rate.Inf
	if params.RequestsPerSec > 0 {
		limit = rate.Limit(params.RequestsPerSec)
	}

	failures := params.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breakerTimeout := params.BreakerTimeout
	if breakerTimeout == 0 {
		breakerTimeout = time.Minute
	}

	metricsManager := params.MetricsManager
	if metricsManager != nil {
		metricsManager.GaugeBreakerState.WithLabelValues(breakerName).Set(0)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    0, // counts are cleared only on state changes
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker [%s]: %s -> %s", name, from, to)
			if metricsManager != nil {
				metricsManager.GaugeBreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
		// client errors are our fault, not the API's
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var reqErr *RequestError
			return errors.As(err, &reqErr) && reqErr.StatusCode < http.StatusInternalServerError &&
				reqErr.StatusCode != http.StatusTooManyRequests
		},
	})

	return &Client{
		baseURL:    baseURL,
		clientID:   params.ClientID,
		authToken:  params.AuthToken,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

// Get requests the endpoint, a path relative to the API root or an absolute href, and returns the body
func (c *Client) Get(ctx context.Context, endpoint string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mapmyride.client.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("endpoint", endpoint))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		return c.doGet(ctx, endpoint)
	})
}

func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("close response body [%s]: %s", endpoint, err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body [%s]: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}
