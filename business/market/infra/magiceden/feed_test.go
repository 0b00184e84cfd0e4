package magiceden

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

func TestFeed_Fetch(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     float64
		wantCode apperror.Code
	}{
		{"number", `{"floorPrice":0.00344,"symbol":"motocats"}`, 344_000, ""},
		{"string", `{"floorPrice":"0.015"}`, 1_500_000, ""},
		{"missing", `{"symbol":"motocats"}`, 0, apperror.CodeInvalidFeedData},
		{"garbage", `{"floorPrice":"n/a"}`, 0, apperror.CodeInvalidFeedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, statEndpoint, r.URL.Path)
				assert.Equal(t, "motocats", r.URL.Query().Get("collectionSymbol"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			feed, err := NewFeed(srv.URL, "", time.Second)
			require.NoError(t, err)

			got, err := feed.Fetch(context.Background())
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperror.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeed_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	feed, err := NewFeed(srv.URL, "motocats", time.Second)
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	assert.True(t, apperror.IsCode(err, apperror.CodeMagicEdenAPIError))
}
