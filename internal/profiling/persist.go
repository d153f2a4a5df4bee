package profiling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sdko-org/callview-api/internal/diagstore"
)

const profileKeyPrefix = "profile:"

// DefaultProfileTTL bounds how long a persisted profile outlives its request.
const DefaultProfileTTL = time.Hour

func profileKey(requestID string) string {
	return profileKeyPrefix + requestID
}

// Persist writes the derived profile to the store under the request identity.
// Persistence is best-effort: callers log the returned error and carry on,
// the response path never fails because diagnostics did.
func (la *LayerAnalyzer) Persist(ctx context.Context, store diagstore.Store, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	profile := la.Breakdown()
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := store.Set(ctx, profileKey(la.requestID), payload, ttl); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// FetchProfile looks up a previously persisted profile. Absent or expired
// records yield diagstore.ErrNotFound.
func FetchProfile(ctx context.Context, store diagstore.Store, requestID string) (*Profile, error) {
	payload, err := store.Get(ctx, profileKey(requestID))
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}
