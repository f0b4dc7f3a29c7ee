// Package interpreter executes text-message commands against the ledger.
//
// Handle is the single entry point: it looks up the sender, parses the text,
// resolves the names it mentions through the sender's contacts, and reads or
// appends obligations. Everything a message changes happens inside one store
// transaction. A lost race for an alias is reported after a second, read-only
// transaction looks up the winner.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // reference timezone must load on hosts without zoneinfo

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/command"
	"github.com/mmynk/iou/internal/phone"
	"github.com/mmynk/iou/internal/storage"
)

// DefaultTimezone is the reference timezone for obligation timestamps.
const DefaultTimezone = "America/Chicago"

// Interpreter handles inbound messages.
type Interpreter struct {
	store  storage.Store
	phones *phone.Validator
	loc    *time.Location
	now    func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLocation sets the timezone obligations are stamped in.
func WithLocation(loc *time.Location) Option {
	return func(in *Interpreter) {
		if loc != nil {
			in.loc = loc
		}
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		if now != nil {
			in.now = now
		}
	}
}

// New creates an Interpreter over store. Phone numbers in "add" commands are
// normalized with phones.
func New(store storage.Store, phones *phone.Validator, opts ...Option) *Interpreter {
	in := &Interpreter{
		store:  store,
		phones: phones,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.loc == nil {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			slog.Warn("failed to load default timezone, using UTC", "timezone", DefaultTimezone, "error", err)
			loc = time.UTC
		}
		in.loc = loc
	}
	return in
}

// Handle interprets text sent by the party whose phone number is senderID.
//
// It returns the reply to send back, which is empty when the text is not a
// recognized command. User mistakes are returned as *apperr.Error; any other
// error means the store failed and nothing was recorded.
func (in *Interpreter) Handle(ctx context.Context, text, senderID string) (string, error) {
	if normalized, err := in.phones.Normalize(senderID); err == nil {
		senderID = normalized
	}

	var reply string
	err := in.store.InTx(ctx, func(repo storage.Repository) error {
		sender, err := repo.FindPartyByID(ctx, senderID)
		if err != nil {
			return err
		}
		if sender == nil {
			return apperr.PermissionDenied("unknown sender")
		}

		cmd, err := command.Parse(text)
		if err != nil {
			return err
		}

		switch cmd.Kind {
		case command.KindAddPerson:
			reply, err = in.addPerson(ctx, repo, sender, cmd)
		case command.KindRecordDebt:
			reply, err = in.recordDebt(ctx, repo, sender, cmd)
		case command.KindBalanceInquiry:
			reply, err = in.balanceInquiry(ctx, repo, sender, cmd)
		case command.KindUnrecognized:
			slog.Debug("ignoring unrecognized message", "sender", sender.ID)
		default:
			err = fmt.Errorf("unhandled command kind %q", cmd.Kind)
		}
		return err
	})
	var race *aliasRace
	if errors.As(err, &race) {
		return "", in.duplicateAlias(ctx, race)
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
