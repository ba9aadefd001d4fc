package producer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/knakagawa/citylens/internal/model"
	"github.com/knakagawa/citylens/internal/util"
	"github.com/knakagawa/citylens/internal/worker"
)

const produceMaxRetries = 3

// produceSleepFunc is the sleep function used between retries (injectable for tests)
var produceSleepFunc = time.Sleep

// HTTPProducer fetches raw analyses from a remote analysis service
type HTTPProducer struct {
	client    *http.Client
	endpoint  string
	userAgent string
	maxBytes  int64
	limiter   *worker.Limiter
}

// NewHTTPProducer creates a producer talking to the given endpoint
func NewHTTPProducer(endpoint string, httpCfg model.HTTPConfig) *HTTPProducer {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
	}
	if httpCfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &HTTPProducer{
		client: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		endpoint:  endpoint,
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		limiter:   worker.NewLimiter(httpCfg.RequestsPerSecond, httpCfg.Burst),
	}
}

// Name returns the producer name
func (p *HTTPProducer) Name() string {
	return "http"
}

// Produce fetches the raw analysis, retrying transient failures with
// exponential backoff
func (p *HTTPProducer) Produce(ctx context.Context, req Request) (*model.Analysis, error) {
	if err := p.limiter.Wait(ctx, p.endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < produceMaxRetries; attempt++ {
		analysis, retryable, err := p.produceOnce(ctx, req)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if attempt < produceMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			produceSleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func (p *HTTPProducer) produceOnce(ctx context.Context, req Request) (*model.Analysis, bool, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, false, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("address", req.Address)
	if req.Coordinates != nil {
		q.Set("lat", strconv.FormatFloat(req.Coordinates.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(req.Coordinates.Lng, 'f', -1, 64))
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", p.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, isRetryableNetworkError(err.Error()), fmt.Errorf("fetch analysis: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == 429 || (resp.StatusCode >= 500 && resp.StatusCode < 600)
		return nil, retryable, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	var analysis model.Analysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, false, fmt.Errorf("decode analysis: %w", err)
	}
	analysis.Address = req.Address
	analysis.Normalize()

	return &analysis, false, nil
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
