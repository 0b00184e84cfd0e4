package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/internal/apperror"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, priceEndpoint, r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeed_Fetch(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"bitcoin":{"usd":97123.45}}`)

	feed, err := NewFeed(srv.URL, time.Second)
	require.NoError(t, err)

	price, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 97123.45, price)
}

func TestFeed_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperror.Code
	}{
		{"rate_limited", http.StatusTooManyRequests, `{"status":{"error_code":429}}`, apperror.CodeCoinGeckoAPIError},
		{"server_error", http.StatusInternalServerError, `oops`, apperror.CodeCoinGeckoAPIError},
		{"missing_price", http.StatusOK, `{}`, apperror.CodeInvalidFeedData},
		{"zero_price", http.StatusOK, `{"bitcoin":{"usd":0}}`, apperror.CodeInvalidFeedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := NewFeed(newServer(t, tt.status, tt.body).URL, time.Second)
			require.NoError(t, err)

			_, err = feed.Fetch(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperror.GetCode(err))
		})
	}
}
