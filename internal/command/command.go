// Package command turns the text of an SMS into a typed command.
//
// Parsing is pure: it never touches storage. Names are returned lower-cased
// and unresolved; "i", "me" and the sender's own name are resolved later by
// the interpreter, which knows who sent the message.
package command

import "github.com/shopspring/decimal"

// Kind classifies a message.
type Kind string

const (
	KindAddPerson      Kind = "AddPerson"
	KindRecordDebt     Kind = "RecordDebt"
	KindBalanceInquiry Kind = "BalanceInquiry"
	KindUnrecognized   Kind = "Unrecognized"
)

// Command is the structured form of a message.
// Only the fields relevant to Kind are set.
type Command struct {
	Kind Kind

	// AddPerson
	Name        string
	PhoneNumber string

	// RecordDebt and BalanceInquiry
	Ower string
	Owee string

	// RecordDebt
	Amount decimal.Decimal
	Reason string
}
