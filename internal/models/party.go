package models

import "strings"

// Party represents a registered participant in the ledger.
type Party struct {
	// ID is the canonical key: the party's phone number in E.164 form
	// (e.g. "+13125555555").
	ID string

	// Name is the display name, stored lower-cased.
	// Use calculator.DisplayName to render it.
	Name string

	// Trusted parties may register new parties by text message.
	Trusted bool

	// CreatedAt is the Unix timestamp when the party was registered.
	CreatedAt int64
}

// NewParty creates a Party with a normalized name.
func NewParty(id, name string, trusted bool) *Party {
	return &Party{
		ID:      id,
		Name:    NormalizeName(name),
		Trusted: trusted,
	}
}

// NormalizeName lower-cases and trims a name or alias for storage and matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
