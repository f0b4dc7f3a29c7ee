// Package auth issues and validates account API tokens.
//
// There are no passwords: a token is minted for a registered party by an
// operator (iouctl token) and names the party by phone number.
package auth

import (
	"context"
	"fmt"

	"github.com/mmynk/iou/internal/phone"
	"github.com/mmynk/iou/internal/storage"
)

// Issuer mints tokens for registered parties.
type Issuer struct {
	store  storage.Store
	phones *phone.Validator
	jwt    *JWTManager
}

// NewIssuer creates an Issuer.
func NewIssuer(store storage.Store, phones *phone.Validator, jwtManager *JWTManager) *Issuer {
	return &Issuer{store: store, phones: phones, jwt: jwtManager}
}

// IssueToken returns a token for the party with the given phone number.
// Returns ErrUnknownParty if no such party is registered.
func (i *Issuer) IssueToken(ctx context.Context, rawPhone string) (string, error) {
	id, err := i.phones.Normalize(rawPhone)
	if err != nil {
		return "", err
	}

	var token string
	err = i.store.InTx(ctx, func(repo storage.Repository) error {
		party, err := repo.FindPartyByID(ctx, id)
		if err != nil {
			return err
		}
		if party == nil {
			return fmt.Errorf("%w: %s", ErrUnknownParty, id)
		}
		token, err = i.jwt.Generate(party)
		return err
	})
	return token, err
}
