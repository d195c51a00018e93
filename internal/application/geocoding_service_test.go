package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdokResponse = `{
  "response": {
    "docs": [
      {
        "weergavenaam": "Domstraat 1, 3512JB Utrecht",
        "straatnaam": "Domstraat",
        "huisnummer": 1,
        "postcode": "3512JB",
        "woonplaatsnaam": "Utrecht",
        "centroide_ll": "POINT(5.12142 52.09266)"
      }
    ]
  }
}`

const nominatimResponse = `[
  {
    "display_name": "1, Hauptstrasse, Berlin, Deutschland",
    "lat": "52.52000",
    "lon": "13.40495",
    "address": {
      "road": "Hauptstrasse",
      "house_number": "1",
      "postcode": "10115",
      "city": "Berlin",
      "country_code": "de"
    }
  }
]`

func TestValidateDutchInput(t *testing.T) {
	tests := []struct {
		name       string
		postcode   string
		huisnummer string
		wantErr    error
	}{
		{"valid", "3512JB", "1", nil},
		{"lowercase with space", " 3512 jb ", "1", nil},
		{"too short", "351JB", "1", ErrInvalidPostcode},
		{"letters first", "AB3512", "1", ErrInvalidPostcode},
		{"missing letters", "351212", "1", ErrInvalidPostcode},
		{"non-numeric number", "3512JB", "1a", ErrInvalidHouseNumber},
		{"zero number", "3512JB", "0", ErrInvalidHouseNumber},
		{"negative number", "3512JB", "-3", ErrInvalidHouseNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, nr, err := ValidateDutchInput(tt.postcode, tt.huisnummer)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "3512JB", pc)
			assert.Equal(t, 1, nr)
		})
	}
}

func TestLookupDutch(t *testing.T) {
	var calls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Contains(t, r.URL.Query().Get("q"), "postcode:3512JB")
		assert.Contains(t, r.URL.Query().Get("q"), "huisnummer:1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pdokResponse))
	}))
	defer upstream.Close()

	rdb, _ := setupTestRedis(t)
	svc := NewGeocodingService(upstream.URL, "", 2*time.Second, rdb, time.Hour, testLogger())

	addr, err := svc.LookupDutch(context.Background(), "3512 jb", "1")
	require.NoError(t, err)
	assert.Equal(t, "Domstraat", addr.Street)
	assert.Equal(t, "1", addr.HouseNumber)
	assert.Equal(t, "Utrecht", addr.City)
	assert.Equal(t, "NL", addr.Country)
	assert.InDelta(t, 52.09266, addr.Lat, 0.0001)
	assert.InDelta(t, 5.12142, addr.Lon, 0.0001)

	// Second lookup is served from cache.
	_, err = svc.LookupDutch(context.Background(), "3512JB", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestLookupDutch_InvalidInputSkipsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid input")
	}))
	defer upstream.Close()

	svc := NewGeocodingService(upstream.URL, "", 2*time.Second, nil, time.Hour, testLogger())

	_, err := svc.LookupDutch(context.Background(), "bad", "1")
	require.ErrorIs(t, err, ErrInvalidPostcode)
	_, err = svc.LookupDutch(context.Background(), "3512JB", "een")
	require.ErrorIs(t, err, ErrInvalidHouseNumber)
}

func TestLookupDutch_NoMatch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"docs":[]}}`))
	}))
	defer upstream.Close()

	svc := NewGeocodingService(upstream.URL, "", 2*time.Second, nil, time.Hour, testLogger())
	_, err := svc.LookupDutch(context.Background(), "9999ZZ", "1")
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestLookupDutch_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := NewGeocodingService(upstream.URL, "", 2*time.Second, nil, time.Hour, testLogger())
	_, err := svc.LookupDutch(context.Background(), "3512JB", "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAddressNotFound)
}

func TestLookupGlobal(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "Hauptstrasse 1, Berlin, Duitsland", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nominatimResponse))
	}))
	defer upstream.Close()

	svc := NewGeocodingService("", upstream.URL, 2*time.Second, nil, time.Hour, testLogger())

	addr, err := svc.LookupGlobal(context.Background(), GlobalQuery{Address: "Hauptstrasse 1", City: "Berlin", Country: "Duitsland"})
	require.NoError(t, err)
	assert.Equal(t, "Hauptstrasse", addr.Street)
	assert.Equal(t, "Berlin", addr.City)
	assert.InDelta(t, 52.52, addr.Lat, 0.001)
}

func TestLookupGlobal_EmptyQuery(t *testing.T) {
	svc := NewGeocodingService("", "http://unused", 2*time.Second, nil, time.Hour, testLogger())
	_, err := svc.LookupGlobal(context.Background(), GlobalQuery{})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestParseCentroide(t *testing.T) {
	lat, lon := parseCentroide("POINT(5.12142 52.09266)")
	assert.InDelta(t, 52.09266, lat, 0.0001)
	assert.InDelta(t, 5.12142, lon, 0.0001)

	lat, lon = parseCentroide("garbage")
	assert.Zero(t, lat)
	assert.Zero(t, lon)
}
