// Package api defines the iou.v1.LedgerService account API: its messages,
// the JSON codec they travel in, and Connect handler and client constructors.
package api

import "google.golang.org/protobuf/types/known/timestamppb"

// GetBalanceRequest names a counterparty by the caller's alias for them.
type GetBalanceRequest struct {
	Counterparty string `json:"counterparty"`
}

// GetBalanceResponse is the net balance between the caller and a counterparty.
type GetBalanceResponse struct {
	Counterparty *Contact `json:"counterparty"`
	// Net is how much the caller owes the counterparty as a decimal string
	// of whole units, truncated toward zero. Negative means the
	// counterparty owes the caller.
	Net    string `json:"net"`
	Phrase string `json:"phrase"`
}

// ListObligationsRequest names a counterparty by the caller's alias for them.
type ListObligationsRequest struct {
	Counterparty string `json:"counterparty"`
}

// ListObligationsResponse is the full history between the caller and a
// counterparty, oldest first.
type ListObligationsResponse struct {
	Obligations []*Obligation `json:"obligations"`
	Net         string        `json:"net"`
}

// ListContactsRequest is empty: the caller comes from the auth token.
type ListContactsRequest struct{}

// ListContactsResponse lists the caller's contacts by alias.
type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

// Contact is one entry of the caller's contact list.
type Contact struct {
	Alias       string `json:"alias"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// Obligation is one ledger entry.
type Obligation struct {
	ID        string                 `json:"id"`
	Ower      string                 `json:"ower"`
	Owee      string                 `json:"owee"`
	Amount    string                 `json:"amount"`
	Reason    string                 `json:"reason"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
	Settled   bool                   `json:"settled"`
}
