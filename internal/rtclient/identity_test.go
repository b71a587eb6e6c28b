package rtclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPIdentityResolver_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/identity", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"role":"driver","driver_id":3}}`))
	}))
	defer server.Close()

	resolver := NewHTTPIdentityResolver(server.URL, "test-token", nil)
	identity, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "driver", identity.Role)
	require.NotNil(t, identity.DriverID)
	assert.Equal(t, int64(3), *identity.DriverID)
	assert.Nil(t, identity.CustomerID)
}

func TestHTTPIdentityResolver_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	resolver := NewHTTPIdentityResolver(server.URL, "expired", nil)
	_, err := resolver.Resolve(context.Background())
	assert.Error(t, err)
}
