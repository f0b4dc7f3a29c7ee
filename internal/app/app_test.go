package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/iou/internal/config"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/pkg/api"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:      config.AppConfig{Env: "test", Port: "0"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "iou.db")},
		Ledger:   config.LedgerConfig{Timezone: "America/Chicago", DefaultRegion: "US"},
		Notify:   config.NotifyConfig{Driver: "log"},
		Dedupe:   config.DedupeConfig{Driver: "memory", TTL: time.Hour},
		JWT:      config.JWTConfig{Secret: "test-secret", TokenDuration: time.Hour},
	}
}

func newTestServer(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	a, err := New(testConfig(t))
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, a.Close())
	})
	return a, srv
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(config.DatabaseConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.Timezone = "Mars/Olympus"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestHandler_Healthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestHandler_MessageFlow(t *testing.T) {
	a, srv := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, a.Store.InTx(ctx, func(repo storage.Repository) error {
		return repo.InsertParty(ctx, models.NewParty("+12015550123", "eric", true))
	}))

	post := func(from, body string) *http.Response {
		form := url.Values{"From": {from}, "Body": {body}}
		resp, err := http.PostForm(srv.URL+"/incoming/", form)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	resp := post("+12015550123", "Add Kristi +12015550124")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post("+12015550123", "Kristi owes me $25")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post("+19999999999", "Kristi owes me $25")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	exposition, _ := io.ReadAll(metricsResp.Body)
	assert.Contains(t, string(exposition), `iou_messages_total{command="RecordDebt",outcome="replied"} 1`)
	assert.Contains(t, string(exposition), "go_goroutines")

	// The ledger API sees what the messages recorded.
	eric, err := a.JWT.Generate(models.NewParty("+12015550123", "eric", true))
	require.NoError(t, err)

	client := api.NewLedgerServiceClient(http.DefaultClient, srv.URL)
	req := connect.NewRequest(&api.GetBalanceRequest{Counterparty: "kristi"})
	req.Header().Set("Authorization", "Bearer "+eric)
	balance, err := client.GetBalance(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "-25", balance.Msg.Net)
	assert.Equal(t, "Kristi now owes Eric $25", balance.Msg.Phrase)
}

func TestHandler_LedgerRequiresToken(t *testing.T) {
	_, srv := newTestServer(t)

	client := api.NewLedgerServiceClient(http.DefaultClient, srv.URL)
	_, err := client.ListContacts(context.Background(), connect.NewRequest(&api.ListContactsRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}
