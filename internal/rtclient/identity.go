package rtclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// HTTPIdentityResolver resolves the caller's identity against the server's
// identity endpoint using the session's access token.
type HTTPIdentityResolver struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPIdentityResolver builds a resolver for the given API base URL,
// e.g. "http://localhost:8080".
func NewHTTPIdentityResolver(baseURL, token string, client *http.Client) *HTTPIdentityResolver {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPIdentityResolver{baseURL: baseURL, token: token, client: client}
}

// Resolve implements IdentityResolver.
func (r *HTTPIdentityResolver) Resolve(ctx context.Context) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/realtime/identity", nil)
	if err != nil {
		return Identity{}, errors.Wrap(err, "build identity request")
	}
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return Identity{}, errors.Wrap(err, "request identity")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, errors.Errorf("identity lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Role       string `json:"role"`
			DriverID   *int64 `json:"driver_id"`
			CustomerID *int64 `json:"customer_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, errors.Wrap(err, "decode identity response")
	}

	return Identity{
		Role:       body.Data.Role,
		DriverID:   body.Data.DriverID,
		CustomerID: body.Data.CustomerID,
	}, nil
}
