package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentials struct {
	token string
	err   error
}

func (f *fakeCredentials) Retrieve(ctx context.Context, userID, platform string) (string, error) {
	return f.token, f.err
}

func TestMockAdapterPublish(t *testing.T) {
	a := NewMockAdapter("telegram")
	result, err := a.Publish(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ExternalID)
	assert.Equal(t, "https://telegram.com/post/"+result.ExternalID, result.PostURL)
}

func TestTwitterUnconfiguredCredentials(t *testing.T) {
	a := NewTwitterAdapter(TwitterCredentials{})
	_, err := a.Publish(context.Background(), "u1", "hello")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func testTwitterCredentials() TwitterCredentials {
	return TwitterCredentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
	}
}

func TestTwitterPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "OAuth "))
		assert.Contains(t, auth, `oauth_signature_method="HMAC-SHA1"`)
		assert.Contains(t, auth, `oauth_consumer_key="ck"`)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"42"}}`))
	}))
	defer srv.Close()

	a := NewTwitterAdapter(testTwitterCredentials())
	a.baseURL = srv.URL

	result, err := a.Publish(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "42", result.ExternalID)
	assert.Equal(t, "https://twitter.com/user/status/42", result.PostURL)
}

func TestTwitterAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"title":"Forbidden"}`))
	}))
	defer srv.Close()

	a := NewTwitterAdapter(testTwitterCredentials())
	a.baseURL = srv.URL

	_, err := a.Publish(context.Background(), "u1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestInstagramPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "stored-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "hello insta", r.URL.Query().Get("caption"))

		_, _ = w.Write([]byte(`{"id":"ig-9"}`))
	}))
	defer srv.Close()

	a := NewInstagramAdapter(&fakeCredentials{token: "stored-token"})
	a.baseURL = srv.URL

	result, err := a.Publish(context.Background(), "u1", "hello insta")
	require.NoError(t, err)
	assert.Equal(t, "ig-9", result.ExternalID)
	assert.Equal(t, "https://instagram.com/p/ig-9", result.PostURL)
}

func TestInstagramMissingToken(t *testing.T) {
	a := NewInstagramAdapter(&fakeCredentials{err: errors.New("platform token not found")})
	_, err := a.Publish(context.Background(), "u1", "hello")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestInstagramMissingIDFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := NewInstagramAdapter(&fakeCredentials{token: "stored-token"})
	a.baseURL = srv.URL

	result, err := a.Publish(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ExternalID)
}
