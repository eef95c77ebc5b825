package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"piquiz_backend/internal/logger"

	"github.com/jellydator/ttlcache/v3"
)

var ErrUnauthorized = errors.New("unauthorized")

// PiIdentity is the stable identity resolved from a Pi platform access token.
type PiIdentity struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// PiAuthService verifies opaque Pi platform access tokens against the
// platform's /v2/me endpoint. Successful verifications are cached by token
// hash for a short TTL so bursts of requests from the same session don't
// re-hit the platform API.
type PiAuthService struct {
	apiURL string
	client *http.Client
	cache  *ttlcache.Cache[string, PiIdentity]
}

func NewPiAuthService(apiURL string) *PiAuthService {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, PiIdentity](5 * time.Minute),
		ttlcache.WithDisableTouchOnHit[string, PiIdentity](),
	)
	go cache.Start()

	return &PiAuthService{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
	}
}

// VerifyAccessToken resolves an access token to a Pi identity. Returns
// ErrUnauthorized for any platform rejection; network failures surface as-is.
func (s *PiAuthService) VerifyAccessToken(ctx context.Context, accessToken string) (*PiIdentity, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	key := tokenCacheKey(accessToken)
	if item := s.cache.Get(key); item != nil {
		identity := item.Value()
		return &identity, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/v2/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pi platform returned status %d", resp.StatusCode)
	}

	var identity PiIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, err
	}
	if identity.UID == "" {
		return nil, ErrUnauthorized
	}

	s.cache.Set(key, identity, ttlcache.DefaultTTL)
	logger.Debug("pi identity verified", "uid", identity.UID)
	return &identity, nil
}

// Stop releases the cache janitor goroutine.
func (s *PiAuthService) Stop() {
	s.cache.Stop()
}

// tokenCacheKey hashes the token so raw credentials never sit in memory as
// map keys.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
