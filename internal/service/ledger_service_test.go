package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/iou/internal/auth"
	"github.com/mmynk/iou/internal/middleware"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/internal/storage/sqlite"
	"github.com/mmynk/iou/pkg/api"
)

const (
	ericPhone   = "+13125555555"
	kristiPhone = "+13126666666"
)

// setupLedgerTestServer creates a test server with LedgerService behind JWT
// auth, seeded with Eric and Kristi and two obligations between them.
func setupLedgerTestServer(t *testing.T) (*api.LedgerServiceClient, *auth.JWTManager, func()) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	eric := models.NewParty(ericPhone, "eric", true)
	kristi := models.NewParty(kristiPhone, "kristi", false)
	err = store.InTx(ctx, func(repo storage.Repository) error {
		for _, p := range []*models.Party{eric, kristi} {
			if err := repo.InsertParty(ctx, p); err != nil {
				return err
			}
		}
		forward, reverse := models.NewContactPair(eric, kristi, "kris")
		if err := repo.InsertContact(ctx, &forward); err != nil {
			return err
		}
		if err := repo.InsertContact(ctx, &reverse); err != nil {
			return err
		}
		for _, o := range []*models.Obligation{
			{OwerID: ericPhone, OweeID: kristiPhone, Amount: decimal.RequireFromString("100"), Reason: "rent"},
			{OwerID: kristiPhone, OweeID: ericPhone, Amount: decimal.RequireFromString("70.50"), Reason: models.DefaultReason},
		} {
			if err := repo.InsertObligation(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	path, handler := api.NewLedgerServiceHandler(
		NewLedgerService(store),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := api.NewLedgerServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
	}
	return client, jwtManager, cleanup
}

func authed[T any](t *testing.T, jwtManager *auth.JWTManager, partyID string, msg *T) *connect.Request[T] {
	t.Helper()

	token, err := jwtManager.Generate(&models.Party{ID: partyID})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestGetBalance(t *testing.T) {
	client, jwtManager, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	resp, err := client.GetBalance(context.Background(),
		authed(t, jwtManager, ericPhone, &api.GetBalanceRequest{Counterparty: "Kris"}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if resp.Msg.Net != "29" {
		t.Errorf("expected net 29, got %s", resp.Msg.Net)
	}
	if resp.Msg.Phrase != "Eric now owes Kristi $29" {
		t.Errorf("unexpected phrase %q", resp.Msg.Phrase)
	}
	if resp.Msg.Counterparty.PhoneNumber != kristiPhone {
		t.Errorf("expected counterparty %s, got %s", kristiPhone, resp.Msg.Counterparty.PhoneNumber)
	}

	// Kristi sees the same balance from her side.
	resp, err = client.GetBalance(context.Background(),
		authed(t, jwtManager, kristiPhone, &api.GetBalanceRequest{Counterparty: "eric"}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if resp.Msg.Net != "-29" {
		t.Errorf("expected net -29, got %s", resp.Msg.Net)
	}
}

func TestGetBalance_UnknownAlias(t *testing.T) {
	client, jwtManager, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	// Aliases are per caller: Kristi never called anyone "kris".
	_, err := client.GetBalance(context.Background(),
		authed(t, jwtManager, kristiPhone, &api.GetBalanceRequest{Counterparty: "kris"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	_, err = client.GetBalance(context.Background(),
		authed(t, jwtManager, kristiPhone, &api.GetBalanceRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestListObligations(t *testing.T) {
	client, jwtManager, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	resp, err := client.ListObligations(context.Background(),
		authed(t, jwtManager, ericPhone, &api.ListObligationsRequest{Counterparty: "kris"}))
	if err != nil {
		t.Fatalf("ListObligations failed: %v", err)
	}

	if len(resp.Msg.Obligations) != 2 {
		t.Fatalf("expected 2 obligations, got %d", len(resp.Msg.Obligations))
	}
	first := resp.Msg.Obligations[0]
	if first.Reason != "rent" || first.Amount != "100" || first.Ower != ericPhone {
		t.Errorf("unexpected first obligation: %+v", first)
	}
	if first.CreatedAt == nil || first.CreatedAt.AsTime().IsZero() {
		t.Error("expected created_at to be set")
	}
	if resp.Msg.Obligations[1].Amount != "70.5" {
		t.Errorf("expected amount 70.5, got %s", resp.Msg.Obligations[1].Amount)
	}
	if resp.Msg.Net != "29" {
		t.Errorf("expected net 29, got %s", resp.Msg.Net)
	}
}

func TestListContacts(t *testing.T) {
	client, jwtManager, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	resp, err := client.ListContacts(context.Background(),
		authed(t, jwtManager, kristiPhone, &api.ListContactsRequest{}))
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}

	if len(resp.Msg.Contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(resp.Msg.Contacts))
	}
	c := resp.Msg.Contacts[0]
	if c.Alias != "eric" || c.PhoneNumber != ericPhone || c.Name != "Eric" {
		t.Errorf("unexpected contact: %+v", c)
	}
}

func TestLedgerService_RequiresAuth(t *testing.T) {
	client, _, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	_, err := client.ListContacts(context.Background(), connect.NewRequest(&api.ListContactsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestLedgerService_UnregisteredParty(t *testing.T) {
	client, jwtManager, cleanup := setupLedgerTestServer(t)
	defer cleanup()

	_, err := client.ListContacts(context.Background(),
		authed(t, jwtManager, "+12015550123", &api.ListContactsRequest{}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
}
