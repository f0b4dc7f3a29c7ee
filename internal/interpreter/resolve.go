package interpreter

import (
	"context"
	"fmt"

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// slot is the position a name occupies in a command.
type slot int

const (
	owerSlot slot = iota
	oweeSlot
)

// resolve maps a name used by sender to a party. "i" and the sender's own
// name always mean the sender; "me" does too, but only as the owee.
func resolve(ctx context.Context, repo storage.Repository, sender *models.Party, ref string, s slot) (*models.Party, error) {
	name := models.NormalizeName(ref)
	if name == "i" || name == sender.Name || (s == oweeSlot && name == "me") {
		return sender, nil
	}

	contact, err := repo.FindContact(ctx, sender.ID, name)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, apperr.PersonNotFound(ref)
	}

	target, err := repo.FindPartyByID(ctx, contact.TargetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("contact %s/%s points at missing party %s", contact.OwnerID, contact.Alias, contact.TargetID)
	}
	return target, nil
}

// resolvePair resolves both names of a debt or inquiry and checks that the
// sender is one of them.
func resolvePair(ctx context.Context, repo storage.Repository, sender *models.Party, owerRef, oweeRef string) (*models.Party, *models.Party, error) {
	ower, err := resolve(ctx, repo, sender, owerRef, owerSlot)
	if err != nil {
		return nil, nil, err
	}
	owee, err := resolve(ctx, repo, sender, oweeRef, oweeSlot)
	if err != nil {
		return nil, nil, err
	}

	if ower.ID != sender.ID && owee.ID != sender.ID {
		return nil, nil, apperr.PermissionDenied("cannot record obligations you are not part of")
	}
	return ower, owee, nil
}
