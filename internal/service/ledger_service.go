package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/auth"
	"github.com/mmynk/iou/internal/calculator"
	"github.com/mmynk/iou/internal/interpreter"
	"github.com/mmynk/iou/internal/middleware"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/pkg/api"
)

var errNoCounterparty = errors.New("counterparty is required")

// LedgerService implements the Connect LedgerService: read-only views of the
// authenticated party's balances, history and contacts.
type LedgerService struct {
	store storage.Store
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// caller loads the party named by the auth token.
func caller(ctx context.Context, repo storage.Repository) (*models.Party, error) {
	partyID := middleware.GetPartyID(ctx)
	if partyID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	party, err := repo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if party == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, auth.ErrUnknownParty)
	}
	return party, nil
}

// counterparty resolves alias through the caller's contacts.
func counterparty(ctx context.Context, repo storage.Repository, me *models.Party, alias string) (*models.Party, *models.Contact, error) {
	if alias == "" {
		return nil, nil, connect.NewError(connect.CodeInvalidArgument, errNoCounterparty)
	}

	contact, err := repo.FindContact(ctx, me.ID, models.NormalizeName(alias))
	if err != nil {
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	if contact == nil {
		return nil, nil, connect.NewError(connect.CodeNotFound, errors.New(apperr.PersonNotFound(alias).Message()))
	}

	party, err := repo.FindPartyByID(ctx, contact.TargetID)
	if err != nil {
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	if party == nil {
		return nil, nil, connect.NewError(connect.CodeNotFound, auth.ErrUnknownParty)
	}
	return party, contact, nil
}

func toContact(contact *models.Contact, target *models.Party) *api.Contact {
	c := &api.Contact{
		Alias:       contact.Alias,
		PhoneNumber: contact.TargetID,
	}
	if target != nil {
		c.Name = calculator.DisplayName(target.Name)
	}
	return c
}

// GetBalance returns the caller's net balance with a counterparty.
func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	var resp *api.GetBalanceResponse
	err := s.store.InTx(ctx, func(repo storage.Repository) error {
		me, err := caller(ctx, repo)
		if err != nil {
			return err
		}
		other, contact, err := counterparty(ctx, repo, me, req.Msg.Counterparty)
		if err != nil {
			return err
		}

		net, err := interpreter.Balance(ctx, repo, me.ID, other.ID)
		if err != nil {
			return connect.NewError(connect.CodeInternal, err)
		}
		resp = &api.GetBalanceResponse{
			Counterparty: toContact(contact, other),
			Net:          net.String(),
			Phrase:       calculator.Phrase(me, other, net),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(resp), nil
}

// ListObligations returns every obligation between the caller and a
// counterparty, oldest first.
func (s *LedgerService) ListObligations(ctx context.Context, req *connect.Request[api.ListObligationsRequest]) (*connect.Response[api.ListObligationsResponse], error) {
	resp := &api.ListObligationsResponse{}
	err := s.store.InTx(ctx, func(repo storage.Repository) error {
		me, err := caller(ctx, repo)
		if err != nil {
			return err
		}
		other, _, err := counterparty(ctx, repo, me, req.Msg.Counterparty)
		if err != nil {
			return err
		}

		obligations, err := repo.ListObligations(ctx, me.ID, other.ID)
		if err != nil {
			return connect.NewError(connect.CodeInternal, err)
		}

		resp.Obligations = make([]*api.Obligation, 0, len(obligations))
		for _, o := range obligations {
			resp.Obligations = append(resp.Obligations, &api.Obligation{
				ID:        o.ID,
				Ower:      o.OwerID,
				Owee:      o.OweeID,
				Amount:    o.Amount.String(),
				Reason:    o.Reason,
				CreatedAt: timestamppb.New(o.CreatedAt),
				Settled:   o.Settled,
			})
		}
		resp.Net = calculator.NetFromObligations(me.ID, other.ID, obligations).String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("listed obligations", "party_id", middleware.GetPartyID(ctx), "count", len(resp.Obligations))
	return connect.NewResponse(resp), nil
}

// ListContacts returns the caller's contact list ordered by alias.
func (s *LedgerService) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	resp := &api.ListContactsResponse{}
	err := s.store.InTx(ctx, func(repo storage.Repository) error {
		me, err := caller(ctx, repo)
		if err != nil {
			return err
		}

		contacts, err := repo.ListContacts(ctx, me.ID)
		if err != nil {
			return connect.NewError(connect.CodeInternal, err)
		}

		resp.Contacts = make([]*api.Contact, 0, len(contacts))
		for _, c := range contacts {
			target, err := repo.FindPartyByID(ctx, c.TargetID)
			if err != nil {
				return connect.NewError(connect.CodeInternal, err)
			}
			resp.Contacts = append(resp.Contacts, toContact(c, target))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(resp), nil
}
