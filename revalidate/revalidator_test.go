package revalidate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, offers []liveOffer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(offerResponse{Data: struct {
			Offers []liveOffer `json:"offers"`
		}{Offers: offers}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sampleOffer(id, carrier string, depHour int, price float64) liveOffer {
	o := liveOffer{ID: id, TotalAmount: price}
	o.Slices = []struct {
		Segments []struct {
			OperatingCarrier struct {
				IataCode string `json:"iata_code"`
			} `json:"operating_carrier"`
			DepartingAt string `json:"departing_at"`
			ArrivingAt  string `json:"arriving_at"`
		} `json:"segments"`
	}{{
		Segments: []struct {
			OperatingCarrier struct {
				IataCode string `json:"iata_code"`
			} `json:"operating_carrier"`
			DepartingAt string `json:"departing_at"`
			ArrivingAt  string `json:"arriving_at"`
		}{{
			OperatingCarrier: struct {
				IataCode string `json:"iata_code"`
			}{IataCode: carrier},
			DepartingAt: time.Date(2026, 8, 1, depHour, 0, 0, 0, time.UTC).Format(time.RFC3339),
		}},
	}}
	return o
}

func TestValidateRoute_ConfirmsCloseMatch(t *testing.T) {
	srv := newTestServer(t, []liveOffer{sampleOffer("off-1", "AA", 10, 152)})
	client := NewOfferAPIClient(ClientConfig{BaseURL: srv.URL, BearerToken: "tok", APIVersion: "v1"})
	rv := NewRevalidator(client, Config{}, nil)

	result := rv.ValidateRoute(t.Context(), []CachedSegment{
		{Origin: "JFK", Destination: "LHR", CarrierCode: "AA", DepHour: 10, CachedPrice: 150, Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	})

	require.Len(t, result.Segments, 1)
	require.Equal(t, Confirmed, result.Status)
	require.NotNil(t, result.TotalLive)
}

func TestValidateRoute_PlaceholderOnlyIsUnavailable(t *testing.T) {
	srv := newTestServer(t, []liveOffer{sampleOffer("off-1", PlaceholderCarrier, 10, 152)})
	client := NewOfferAPIClient(ClientConfig{BaseURL: srv.URL, BearerToken: "tok", APIVersion: "v1"})
	rv := NewRevalidator(client, Config{}, nil)

	result := rv.ValidateRoute(t.Context(), []CachedSegment{
		{Origin: "JFK", Destination: "LHR", CarrierCode: "AA", DepHour: 10, CachedPrice: 150, Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	})

	require.Equal(t, Unavailable, result.Status)
	require.False(t, result.IsBookable)
}

func TestValidateRoute_PreservesSegmentOrder(t *testing.T) {
	srv := newTestServer(t, []liveOffer{sampleOffer("off-1", "AA", 10, 100)})
	client := NewOfferAPIClient(ClientConfig{BaseURL: srv.URL, BearerToken: "tok", APIVersion: "v1"})
	rv := NewRevalidator(client, Config{MaxConcurrent: 4}, nil)

	segs := make([]CachedSegment, 8)
	for i := range segs {
		segs[i] = CachedSegment{Origin: "JFK", Destination: "LHR", CarrierCode: "AA", DepHour: 10, CachedPrice: 100, Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	}

	result := rv.ValidateRoute(t.Context(), segs)
	require.Len(t, result.Segments, 8)
	for i, sv := range result.Segments {
		require.Equal(t, i, sv.SegmentIndex)
	}
}

func TestValidateRoute_ClientErrorIsApiError(t *testing.T) {
	client := NewOfferAPIClient(ClientConfig{
		BaseURL: "http://127.0.0.1:1", BearerToken: "tok", APIVersion: "v1",
		MaxRetries: 1, BackoffMin: 10 * time.Millisecond, BackoffMax: 20 * time.Millisecond,
		RequestTimeout: 200 * time.Millisecond,
	})
	rv := NewRevalidator(client, Config{}, nil)

	result := rv.ValidateRoute(t.Context(), []CachedSegment{
		{Origin: "JFK", Destination: "LHR", CarrierCode: "AA", DepHour: 10, CachedPrice: 150, Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	})

	require.Equal(t, ApiError, result.Status)
	require.False(t, result.IsBookable)
}
