package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// refreshMargin is how long before expiry a cached token is considered
// stale. Spotify client-credentials tokens live about an hour; refreshing
// ten minutes early keeps in-flight requests off an expiring token.
const refreshMargin = 10 * time.Minute

// tokenSource caches a single client-credentials token and refreshes it
// when absent or near expiry. Callers arriving mid-refresh block on the
// mutex; the last successful refresh wins.
type tokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

func newTokenSource(clientID, clientSecret, tokenURL string, httpClient *http.Client) *tokenSource {
	if tokenURL == "" {
		tokenURL = endpoints.Spotify.TokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &tokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
	}
}

// bearer returns an access token valid for at least refreshMargin.
// Acquisition failure is returned to the caller; there is no empty-token
// fallback.
func (ts *tokenSource) bearer(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != nil && time.Until(ts.token.Expiry) > refreshMargin {
		return ts.token.AccessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spotify adapter: token request: %w", err)
	}
	req.SetBasicAuth(ts.clientID, ts.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify adapter: token status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("spotify adapter: token decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("spotify adapter: token response missing access_token")
	}

	ts.token = &oauth2.Token{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
		Expiry:      time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}

	return ts.token.AccessToken, nil
}
