package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/config"
)

func newTestFactory(baseURL string) *Factory {
	return NewFactory(config.Config{
		SupabaseURL:            baseURL,
		SupabaseAnonKey:        "anon-key",
		SupabaseServiceRoleKey: "service-role-key",
		AuthTimeoutSeconds:     1,
		BackendTimeoutSeconds:  2,
	})
}

func TestScopedSelectForwardsCallerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/reservations", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "starts_at.desc", r.URL.Query().Get("order"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"a"},{"id":"b"}]`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	query := url.Values{}
	query.Set("order", "starts_at.desc")

	result, err := client.Select(context.Background(), "reservations", query)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
}

func TestPrivilegedClientUsesServiceRoleKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-role-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-role-key", r.Header.Get("Authorization"))
		io.WriteString(w, `[]`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Privileged()
	result, err := client.Select(context.Background(), "courts", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.NotNil(t, result.Rows)
}

func TestSelectSurfacesPostgrestError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"code":"42501","message":"permission denied for table reservations"}`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	_, err := client.Select(context.Background(), "reservations", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "permission denied for table reservations", apiErr.Message)
	assert.Equal(t, "42501", apiErr.Code)
}

func TestSelectToleratesNonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	_, err := client.Select(context.Background(), "reservations", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestInsertReturnsRepresentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var record map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, "weather dome", record["name"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"created","name":"weather dome"}]`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	result, err := client.Insert(context.Background(), "courts", map[string]string{"name": "weather dome"})
	require.NoError(t, err)
	require.NotNil(t, result.Row)

	var row map[string]string
	require.NoError(t, json.Unmarshal(result.Row, &row))
	assert.Equal(t, "created", row["id"])
}

func TestInsertWithEmptyRepresentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[]`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	result, err := client.Insert(context.Background(), "reservations", map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, result.Row)
}

func TestUpdateSendsPatchWithFilters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.abc", r.URL.Query().Get("id"))
		io.WriteString(w, `[{"id":"abc","cancel_reason":"weather"}]`)
	}))
	t.Cleanup(ts.Close)

	client := newTestFactory(ts.URL).Scoped("user-token")
	query := url.Values{}
	query.Set("id", "eq.abc")

	result, err := client.Update(context.Background(), "reservations", query, map[string]string{"cancel_reason": "weather"})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
}

func TestTransportFailureIsTyped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := newTestFactory(ts.URL).Scoped("user-token")
	_, err := client.Select(context.Background(), "reservations", nil)
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestResolveIdentity(t *testing.T) {
	userID := uuid.New()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"id": userID.String()})
	}))
	t.Cleanup(ts.Close)

	resolved, err := newTestFactory(ts.URL).ResolveIdentity(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, userID, resolved)
}

func TestResolveIdentityRejectedToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)

	_, err := newTestFactory(ts.URL).ResolveIdentity(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestResolveIdentityTimesOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
	}))
	t.Cleanup(ts.Close)

	start := time.Now()
	_, err := newTestFactory(ts.URL).ResolveIdentity(context.Background(), "user-token")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 1400*time.Millisecond)
}
