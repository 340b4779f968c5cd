package revalidate

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// PlaceholderCarrier is the sentinel IATA code the upstream API uses to
// report "no real carrier serves this route on this date".
const PlaceholderCarrier = "ZZ"

// ClientConfig configures the live offer API client.
type ClientConfig struct {
	BaseURL        string
	BearerToken    string
	APIVersion     string
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffMin     time.Duration
	BackoffMax     time.Duration
}

// offerRequest mirrors the live offer API's request shape.
type offerRequest struct {
	Slices      []offerSlice      `json:"slices"`
	Passengers  []offerPassenger  `json:"passengers"`
	CabinClass  string            `json:"cabin_class"`
	ReturnOffers bool             `json:"return_offers,omitempty"`
}

type offerSlice struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type offerPassenger struct {
	Type string `json:"type"`
}

type offerResponse struct {
	Data struct {
		Offers []liveOffer `json:"offers"`
	} `json:"data"`
}

type liveOffer struct {
	ID            string  `json:"id"`
	TotalAmount   float64 `json:"total_amount"`
	TotalCurrency string  `json:"total_currency"`
	Slices        []struct {
		Segments []struct {
			OperatingCarrier struct {
				IataCode string `json:"iata_code"`
			} `json:"operating_carrier"`
			DepartingAt string `json:"departing_at"`
			ArrivingAt  string `json:"arriving_at"`
		} `json:"segments"`
	} `json:"slices"`
}

// OfferAPIClient searches the live offer API for a single one-way segment.
// Its retry policy retries 429s and transient transport errors with
// backoff; context cancellation does not retry.
type OfferAPIClient struct {
	cfg    ClientConfig
	client *retryablehttp.Client
}

// NewOfferAPIClient builds a client with the configured bounded retry/backoff
// policy.
func NewOfferAPIClient(cfg ClientConfig) *OfferAPIClient {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = 500 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.BackoffMin
	client.RetryWaitMax = cfg.BackoffMax
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.RequestTimeout
	client.CheckRetry = rateLimitAwareRetryPolicy

	return &OfferAPIClient{cfg: cfg, client: client}
}

// rateLimitAwareRetryPolicy retries on 429 and 5xx/transport failures but
// never on a canceled or expired context, so cancellation always
// propagates immediately to the caller.
func rateLimitAwareRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Search issues one offer-search request for a single one-way economy
// segment. A non-nil error here always means ApiError at the call site;
// Search itself never returns Unavailable (that's the caller's scoring
// decision once offers are in hand).
func (c *OfferAPIClient) Search(ctx context.Context, seg CachedSegment) ([]liveOffer, error) {
	body := offerRequest{
		Slices: []offerSlice{{
			Origin:        seg.Origin,
			Destination:   seg.Destination,
			DepartureDate: seg.Date.Format("2006-01-02"),
		}},
		Passengers: []offerPassenger{{Type: "adult"}},
		CabinClass: "economy",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal offer request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/offers", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build offer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	req.Header.Set("X-Api-Version", c.cfg.APIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("offer search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("offer search returned status %d", resp.StatusCode)
	}

	if echoed := resp.Header.Get("X-Debug-Echo-Token"); echoed != "" && !verifyEchoedToken(c.cfg.BearerToken, echoed) {
		return nil, fmt.Errorf("offer search: test double echoed a mismatched bearer token")
	}

	var parsed offerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode offer response: %w", err)
	}
	return parsed.Data.Offers, nil
}

// verifyEchoedToken constant-time-compares a token echoed back by a test
// double against the configured bearer token.
func verifyEchoedToken(configured, echoed string) bool {
	return subtle.ConstantTimeCompare([]byte(configured), []byte(echoed)) == 1
}
