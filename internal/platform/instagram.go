package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// InstagramAdapter publishes text-only captions through the Instagram Graph
// API using the user's stored token. No token means no publish for this
// platform; other platforms in the same post are unaffected.
type InstagramAdapter struct {
	creds      CredentialSource
	baseURL    string
	httpClient *http.Client
}

func NewInstagramAdapter(creds CredentialSource) *InstagramAdapter {
	return &InstagramAdapter{
		creds:   creds,
		baseURL: "https://graph.instagram.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *InstagramAdapter) Name() string    { return "instagram" }
func (a *InstagramAdapter) AdminOnly() bool { return false }

func (a *InstagramAdapter) Publish(ctx context.Context, userID, content string) (*Result, error) {
	token, err := a.creds.Retrieve(ctx, userID, "instagram")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}

	form := url.Values{}
	form.Set("access_token", token)
	form.Set("caption", content)

	endpoint := a.baseURL + "/me/media?" + form.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("build instagram request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post to instagram: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read instagram response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("instagram api status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("decode instagram response: %w", err)
	}
	if parsed.ID == "" {
		parsed.ID = uuid.NewString()
	}

	return &Result{
		ExternalID: parsed.ID,
		PostURL:    fmt.Sprintf("https://instagram.com/p/%s", parsed.ID),
	}, nil
}
