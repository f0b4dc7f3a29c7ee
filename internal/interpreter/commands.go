package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/calculator"
	"github.com/mmynk/iou/internal/command"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// addPerson registers a new party and links it to the sender both ways.
func (in *Interpreter) addPerson(ctx context.Context, repo storage.Repository, sender *models.Party, cmd command.Command) (string, error) {
	if !sender.Trusted {
		return "", apperr.PermissionDenied("not authorized")
	}

	number, err := in.phones.Normalize(cmd.PhoneNumber)
	if err != nil {
		return "", apperr.InvalidPhoneNumber(cmd.PhoneNumber)
	}

	existing, err := repo.FindPartyByID(ctx, number)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.DuplicateParty(number)
	}

	party := models.NewParty(number, cmd.Name, false)
	if err := repo.InsertParty(ctx, party); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return "", apperr.DuplicateParty(number)
		}
		return "", err
	}

	forward, reverse := models.NewContactPair(sender, party, cmd.Name)
	if err := insertContact(ctx, repo, &forward, cmd.Name); err != nil {
		return "", err
	}
	if err := insertContact(ctx, repo, &reverse, calculator.DisplayName(sender.Name)); err != nil {
		return "", err
	}

	slog.Info("party added", "sender", sender.ID, "party", party.ID)
	return fmt.Sprintf(`"%s" with phone number %s successfully added`, cmd.Name, number), nil
}

// insertContact stores contact, reporting an alias the owner already uses
// as DuplicateAlias with the number it currently points at.
func insertContact(ctx context.Context, repo storage.Repository, contact *models.Contact, name string) error {
	existing, err := repo.FindContact(ctx, contact.OwnerID, contact.Alias)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.DuplicateAlias(name, existing.TargetID)
	}

	err = repo.InsertContact(ctx, contact)
	if errors.Is(err, storage.ErrUniqueViolation) {
		return &aliasRace{ownerID: contact.OwnerID, alias: contact.Alias, name: name}
	}
	return err
}

// aliasRace is returned when another message claimed an alias between the
// lookup and the insert. The winning contact is only visible once this
// transaction has ended, so Handle reads it back in a new one.
type aliasRace struct {
	ownerID string
	alias   string
	name    string
}

func (e *aliasRace) Error() string {
	return fmt.Sprintf("alias %q of %s was taken concurrently", e.alias, e.ownerID)
}

func (e *aliasRace) Unwrap() error {
	return storage.ErrUniqueViolation
}

// duplicateAlias reports a lost alias race as DuplicateAlias with the number
// the alias now points at.
func (in *Interpreter) duplicateAlias(ctx context.Context, race *aliasRace) error {
	var existing *models.Contact
	err := in.store.InTx(ctx, func(repo storage.Repository) error {
		var err error
		existing, err = repo.FindContact(ctx, race.ownerID, race.alias)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read back alias %q: %w", race.alias, err)
	}
	if existing == nil {
		return race
	}
	return apperr.DuplicateAlias(race.name, existing.TargetID)
}

// recordDebt appends one obligation and reports the resulting balance.
func (in *Interpreter) recordDebt(ctx context.Context, repo storage.Repository, sender *models.Party, cmd command.Command) (string, error) {
	ower, owee, err := resolvePair(ctx, repo, sender, cmd.Ower, cmd.Owee)
	if err != nil {
		return "", err
	}
	if ower.ID == owee.ID {
		return "", apperr.MalformedCommand(apperr.CommandRecordDebt)
	}

	obligation := &models.Obligation{
		OwerID:    ower.ID,
		OweeID:    owee.ID,
		Amount:    cmd.Amount,
		Reason:    cmd.Reason,
		CreatedAt: in.now().In(in.loc),
	}
	if err := repo.InsertObligation(ctx, obligation); err != nil {
		return "", err
	}

	slog.Info("obligation recorded",
		"sender", sender.ID,
		"ower", ower.ID,
		"owee", owee.ID,
		"amount", obligation.Amount.String(),
	)
	return balancePhrase(ctx, repo, ower, owee)
}

// balanceInquiry reports the balance between two parties without changing it.
func (in *Interpreter) balanceInquiry(ctx context.Context, repo storage.Repository, sender *models.Party, cmd command.Command) (string, error) {
	ower, owee, err := resolvePair(ctx, repo, sender, cmd.Ower, cmd.Owee)
	if err != nil {
		return "", err
	}
	return balancePhrase(ctx, repo, ower, owee)
}

// Balance returns the net amount a owes b, truncated toward zero.
func Balance(ctx context.Context, repo storage.Repository, a, b string) (decimal.Decimal, error) {
	aToB, err := repo.SumObligations(ctx, a, b)
	if err != nil {
		return decimal.Zero, err
	}
	bToA, err := repo.SumObligations(ctx, b, a)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.Net(aToB, bToA), nil
}

func balancePhrase(ctx context.Context, repo storage.Repository, a, b *models.Party) (string, error) {
	net, err := Balance(ctx, repo, a.ID, b.ID)
	if err != nil {
		return "", err
	}
	return calculator.Phrase(a, b, net), nil
}
