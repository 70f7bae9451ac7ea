package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ResolveIdentity presents the caller's bearer token to the GoTrue user
// endpoint and returns the authenticated user's id. Any failure here means
// the caller's identity is unknown and the calling operation must not
// proceed. The call carries its own short timeout so a slow auth backend
// cannot stall writes for long.
func (f *Factory) ResolveIdentity(ctx context.Context, token string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, f.authTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("supabase: build identity request: %w", err)
	}
	req.Header.Set("apikey", f.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("supabase: identity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, fmt.Errorf("supabase: identity endpoint returned status %d", resp.StatusCode)
	}

	var user struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return uuid.Nil, fmt.Errorf("supabase: decode identity response: %w", err)
	}
	if user.ID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("supabase: identity response missing user id")
	}

	return user.ID, nil
}
