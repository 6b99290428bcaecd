package media

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/resilience"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Retry defaults for fetching the player API
const (
	DefaultRetryMax     = 2
	DefaultRetryWaitMin = 200 * time.Millisecond
	DefaultRetryWaitMax = 2 * time.Second
)

// Loader fetches the player API script once per process. Transient
// failures (connection errors, 5xx, 429) are retried within one Load;
// concurrent Init calls share one successful load and a failed Load is
// tried again on the next call unless the breaker is open.
type Loader struct {
	client  *resty.Client
	retry   *retryablehttp.Client
	breaker *resilience.Breaker
	url     string
	logger  *zap.Logger

	mu     sync.Mutex
	loaded bool
}

// NewLoader creates a loader for the player API at url. Requests are
// bounded by timeout and guarded by breaker.
func NewLoader(url string, timeout time.Duration, breaker *resilience.Breaker, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if breaker == nil {
		breaker = resilience.New("media-api", resilience.Settings{
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c resilience.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		})
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = DefaultRetryMax
	retryClient.RetryWaitMin = DefaultRetryWaitMin
	retryClient.RetryWaitMax = DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = lastResponse

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetHeader("User-Agent", "AgentOS-Desktop/1.0")

	return &Loader{
		client:  client,
		retry:   retryClient,
		breaker: breaker,
		url:     url,
		logger:  logger,
	}
}

// WithRetry sets how often one Load retries and the backoff bounds
// between attempts. Zero disables retries.
func (l *Loader) WithRetry(retries int, waitMin, waitMax time.Duration) *Loader {
	if retries < 0 {
		retries = 0
	}
	l.retry.RetryMax = retries
	l.retry.RetryWaitMin = waitMin
	l.retry.RetryWaitMax = waitMax
	return l
}

// Loaded reports whether the API has been fetched
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Load fetches the player API unless an earlier call already did
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil
	}
	// A cancelled Init is not an API failure
	if err := ctx.Err(); err != nil {
		return err
	}

	err := l.breaker.Do(ctx, func(ctx context.Context) error {
		resp, err := l.client.R().SetContext(ctx).Get(l.url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		if len(resp.Body()) == 0 {
			return fmt.Errorf("empty response")
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("Player API load failed",
			zap.String("url", l.url),
			zap.String("breaker_state", l.breaker.State().String()),
			zap.Error(err))
		return fmt.Errorf("player API script load failed: %w", err)
	}

	l.loaded = true
	l.logger.Info("Player API loaded", zap.String("url", l.url))
	return nil
}

// lastResponse hands the final response back once retries are exhausted,
// so status errors keep their code
func lastResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}
