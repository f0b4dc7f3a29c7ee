package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/iou/internal/auth"
	"github.com/mmynk/iou/internal/models"
)

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(models.NewParty("+13125555555", "eric", true))
	require.NoError(t, err)

	var seen string
	next := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetPartyID(ctx)
		return connect.NewResponse(&struct{}{}), nil
	})
	handler := RequireAuth(manager)(next)

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid bearer token", "Bearer " + token, false},
		{"lower-case scheme", "bearer " + token, false},
		{"scheme without token", "Bearer ", true},
		{"missing header", "", true},
		{"wrong scheme", "Basic " + token, true},
		{"bad token", "Bearer nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := connect.NewRequest(&struct{}{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
				assert.Empty(t, seen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "+13125555555", seen)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  string
	}{
		{"ok", nil, "INFO", ""},
		{"caller mistake", connect.NewError(connect.CodeNotFound, errors.New("no such contact")), "WARN", "not_found"},
		{"server fault", errors.New("disk full"), "ERROR", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			next := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&struct{}{}), nil
			})

			ctx := WithPartyID(context.Background(), "+13125555555")
			_, err := LoggingInterceptor()(next)(ctx, connect.NewRequest(&struct{}{}))
			assert.Equal(t, tt.err, err)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "+13125555555", entry["party_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, entry["code"])
			} else {
				assert.NotContains(t, entry, "code")
			}
		})
	}
}
