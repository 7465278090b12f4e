package flights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

const skyscannerBody = `[
  {
    "id": "itin-1",
    "cheapest_price": {"amount": 420, "update_status": "current"},
    "legs": [{
      "departure_airport": {"display_code": "SFO", "name": "San Francisco International"},
      "arrival_airport": {"display_code": "CDG", "name": "Paris Charles de Gaulle"},
      "departure": "2024-03-15T14:30:00",
      "arrival": "2024-03-16T08:15:00"
    }],
    "pricing_options": [{"price": {"amount": 420}, "agent": "Air France", "url": "https://example.com/af"}]
  },
  {
    "cheapest_price": 380,
    "legs": [{"departure_airport": "SFO", "arrival_airport": "ORY", "departure_time": "09:00", "arrival_time": "06:00"}]
  }
]`

func newSource(url string, timeout time.Duration) *ApifySource {
	return NewApifySource(ApifyConfig{
		Endpoint: url,
		Token:    "apify-token",
		Origin:   "San Francisco",
		Timeout:  timeout,
	}, nil)
}

func TestApifySource_FetchOffers(t *testing.T) {
	var gotInput map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "apify-token", r.URL.Query().Get("token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))
		_, _ = w.Write([]byte(skyscannerBody))
	}))
	defer srv.Close()

	offers, err := newSource(srv.URL, time.Second).FetchOffers(context.Background(), models.TravelRequest{
		Destination: "Paris",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"origin.0": "San Francisco", "target.0": "Paris", "depart.0": "TOMORROW"}, gotInput)

	require.Len(t, offers, 2)
	best := offers[0]
	assert.Equal(t, "itin-1", best.ID)
	assert.Equal(t, models.Money(420), best.Price)
	assert.Equal(t, "Air France", best.Airline)
	assert.Equal(t, "https://example.com/af", best.BookingURL)
	assert.Equal(t, models.Endpoint{Airport: "SFO", Time: "14:30", Date: "2024-03-15"}, best.Departure)
	assert.Equal(t, models.Endpoint{Airport: "CDG", Time: "08:15", Date: "2024-03-16"}, best.Arrival)
	assert.False(t, best.Synthetic)

	// Order is the provider's: the cheaper second offer stays second.
	assert.Equal(t, models.Money(380), offers[1].Price)
	assert.Equal(t, "offer-2", offers[1].ID)
	assert.Equal(t, "ORY", offers[1].Arrival.Airport)
}

func TestApifySource_UsesRequestOriginAndDate(t *testing.T) {
	var gotInput map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	offers, err := newSource(srv.URL, time.Second).FetchOffers(context.Background(), models.TravelRequest{
		Destination:   "Tokyo",
		Origin:        "Seattle",
		DepartureDate: "2024-05-01",
	})

	require.NoError(t, err)
	assert.Empty(t, offers)
	assert.Equal(t, "Seattle", gotInput["origin.0"])
	assert.Equal(t, "2024-05-01", gotInput["depart.0"])
}

func TestApifySource_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		timeout    time.Duration
		wantKind   ErrorKind
		wantStatus int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"error": {"type": "actor-failed"}}`))
			},
			timeout:    time.Second,
			wantKind:   KindProvider,
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"cheapest_price": 4`))
			},
			timeout:    time.Second,
			wantKind:   KindProvider,
			wantStatus: http.StatusOK,
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error": "quota exceeded"}`))
			},
			timeout:    time.Second,
			wantKind:   KindProvider,
			wantStatus: http.StatusOK,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			timeout:  50 * time.Millisecond,
			wantKind: KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			offers, err := newSource(srv.URL, tt.timeout).FetchOffers(context.Background(), models.TravelRequest{Destination: "Paris"})

			require.Error(t, err)
			assert.Nil(t, offers)
			var fe *FlightSourceError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantKind, fe.Kind)
			assert.Equal(t, tt.wantStatus, fe.Status)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestApifySource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newSource(url, time.Second).FetchOffers(context.Background(), models.TravelRequest{Destination: "Paris"})

	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestFallbackOffers(t *testing.T) {
	offers := FallbackOffers(models.TravelRequest{Destination: "Paris", DestinationCode: "CDG"}, 650)

	require.Len(t, offers, 1)
	assert.Equal(t, models.Money(650), offers[0].Price)
	assert.True(t, offers[0].Synthetic)
	assert.Equal(t, "SFO", offers[0].Departure.Airport)
	assert.Equal(t, "CDG", offers[0].Arrival.Airport)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(context.Canceled))
}
