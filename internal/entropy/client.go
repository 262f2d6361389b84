package entropy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// DefaultEndpoint is the random.org JSON-RPC endpoint.
const DefaultEndpoint = "https://api.random.org/json-rpc/4/invoke"

// Client provides true random numbers from random.org with a local pool.
// Falls back to crypto/rand when the API is unavailable.
type Client struct {
	apiKey   string
	Endpoint string
	client   *client.Client

	mu          sync.Mutex
	pool        []float64
	lastFailAt  time.Time
	failBackoff time.Duration
}

const maxBackoff = 10 * time.Minute

// NewClient creates a random.org client. Returns nil if apiKey is empty.
// A nil *Client is still a valid Source backed by crypto/rand.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}
	hc, err := client.NewClient(
		client.WithDialTimeout(5*time.Second),
		client.WithClientReadTimeout(15*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("random.org client: %w", err)
	}
	return &Client{
		apiKey:   apiKey,
		Endpoint: DefaultEndpoint,
		client:   hc,
	}, nil
}

// Float returns a random float64 in [0, 1). Uses the pool, refilling from
// random.org when low. Falls back to crypto/rand on API failure.
func (c *Client) Float() float64 {
	if c == nil {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// After a failed refill, stay on crypto/rand until the backoff expires.
	if len(c.pool) < 10 && (c.failBackoff == 0 || time.Since(c.lastFailAt) >= c.failBackoff) {
		if err := c.refill(context.Background()); err != nil {
			c.lastFailAt = time.Now()
			if c.failBackoff == 0 {
				c.failBackoff = time.Minute
			} else if c.failBackoff < maxBackoff {
				c.failBackoff *= 2
			}
			slog.Debug("random.org refill failed", "error", err, "backoff", c.failBackoff)
		} else {
			c.failBackoff = 0
		}
	}

	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) refill(ctx context.Context) error {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req := &protocol.Request{}
	resp := &protocol.Response{}
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.Endpoint)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if result.Error != nil {
		return fmt.Errorf("api error: %s", result.Error.Message)
	}

	for _, v := range result.Result.Random.Data {
		// random.org fractions are in [0, 1]; 1.0 is outside the Source contract.
		if v >= 0 && v < 1 {
			c.pool = append(c.pool, v)
		}
	}
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
	return nil
}
