package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TwitterCredentials are the application-level OAuth 1.0a credentials used
// for tweet creation.
type TwitterCredentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

func (c TwitterCredentials) configured() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// TwitterAdapter posts through the Twitter v2 API. Publishing is restricted
// to admin users; the dispatcher enforces that gate.
type TwitterAdapter struct {
	creds      TwitterCredentials
	baseURL    string
	httpClient *http.Client
}

func NewTwitterAdapter(creds TwitterCredentials) *TwitterAdapter {
	return &TwitterAdapter{
		creds:   creds,
		baseURL: "https://api.twitter.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *TwitterAdapter) Name() string    { return "twitter" }
func (a *TwitterAdapter) AdminOnly() bool { return true }

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (a *TwitterAdapter) Publish(ctx context.Context, userID, content string) (*Result, error) {
	if !a.creds.configured() {
		return nil, fmt.Errorf("%w: twitter app credentials not configured", ErrMissingCredential)
	}

	body, err := json.Marshal(createTweetRequest{Text: content})
	if err != nil {
		return nil, fmt.Errorf("encode tweet: %w", err)
	}

	endpoint := a.baseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	auth, err := oauth1Header(http.MethodPost, endpoint, a.creds)
	if err != nil {
		return nil, fmt.Errorf("sign tweet request: %w", err)
	}
	req.Header.Set("Authorization", auth)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read tweet response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter api status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var parsed createTweetResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("decode tweet response: %w", err)
	}
	if parsed.Data.ID == "" {
		return nil, fmt.Errorf("twitter api returned no tweet id")
	}

	return &Result{
		ExternalID: parsed.Data.ID,
		PostURL:    fmt.Sprintf("https://twitter.com/user/status/%s", parsed.Data.ID),
	}, nil
}
