package oursg

import (
	"context"
	"encoding/json"
	"errors"
	"grantsync-backend/lib/telemetry"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/oursg")
	defer cleanup()

	var detailRawQuery string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/grant_metadata/explore_grants":
			w.Write([]byte(`{"grant_metadata":[{"status":"green","value":"A1","name":"Foo"}]}`))
		case "/api/v1/grant_instruction/A1/":
			detailRawQuery = r.URL.RawQuery
			w.Write([]byte(`{"amount":1000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	client := NewClient(ClientOptions{BaseUrl: server.URL + "/"})
	require.Equal(t, server.URL+"/api/v1/grant_metadata/explore_grants", client.ListingUrl())
	require.Equal(t, server.URL+"/api/v1/grant_instruction/A1/?page_type=instruction&user_type=", client.DetailUrl("A1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	t.Run("TestGetGrants", func(t *testing.T) {
		grants, err := client.GetGrants(ctx)
		require.NoError(t, err)
		require.Equal(t, []Grant{{"status": "green", "value": "A1", "name": "Foo"}}, grants)
	})

	t.Run("TestGetGrantDetails", func(t *testing.T) {
		details, err := client.GetGrantDetails(ctx, "A1")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"amount": json.Number("1000")}, details)
		require.Equal(t, "page_type=instruction&user_type=", detailRawQuery)
	})

	t.Run("TestStatusError", func(t *testing.T) {
		_, err := client.GetGrantDetails(ctx, "B2")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})
}

func TestClientDefaults(t *testing.T) {
	client := NewClient(ClientOptions{})
	require.Equal(t, "https://oursggrants.gov.sg/api/v1/grant_metadata/explore_grants", client.ListingUrl())
	require.Equal(
		t,
		"https://oursggrants.gov.sg/api/v1/grant_instruction/abc-123/?page_type=instruction&user_type=",
		client.DetailUrl("abc-123"),
	)
	require.Equal(t, time.Duration(0), client.Http.GetClient().Timeout)
}

func TestClientWrapTransport(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "wrapped", r.Header.Get("x-wrapped"))
		w.Write([]byte(`{"grant_metadata":[]}`))
	})

	client := NewClient(ClientOptions{
		BaseUrl: server.URL,
		WrapTransport: func(inner http.RoundTripper) http.RoundTripper {
			return roundTripFunc(func(r *http.Request) (*http.Response, error) {
				r.Header.Set("x-wrapped", "wrapped")
				return inner.RoundTrip(r)
			})
		},
	})
	grants, err := client.GetGrants(context.Background())
	require.NoError(t, err)
	require.Empty(t, grants)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
