// Package models defines the core domain models for the iou ledger.
//
// # Models
//
//   - Party: a registered participant, keyed by E.164 phone number
//   - Contact: a per-owner alias pointing at another Party
//   - Obligation: one immutable "ower owes owee amount" ledger entry
//
// # Design Principles
//
//  1. Parties are keyed by phone number. Every relation (contacts, obligations)
//     joins on that key, so the inbound SMS sender can be looked up directly.
//  2. Names are private to the person using them. Two owners may use the same
//     alias for different parties; there is no global name lookup.
//  3. Balances are never stored. They are derived from the full obligation
//     history between two parties every time they are needed.
//  4. Relationships use ID strings instead of pointers.
package models
