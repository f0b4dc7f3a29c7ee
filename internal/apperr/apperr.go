// Package apperr defines the typed failures produced while interpreting a
// text message. Every failure except PermissionDenied carries a message that
// is sent back to the person who texted.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the failure class.
type Kind int

const (
	KindMalformedCommand Kind = iota + 1
	KindInvalidAmount
	KindInvalidPhoneNumber
	KindPersonNotFound
	KindDuplicateParty
	KindDuplicateAlias
	KindPermissionDenied
)

var kindNames = map[Kind]string{
	KindMalformedCommand:   "malformed_command",
	KindInvalidAmount:      "invalid_amount",
	KindInvalidPhoneNumber: "invalid_phone_number",
	KindPersonNotFound:     "person_not_found",
	KindDuplicateParty:     "duplicate_party",
	KindDuplicateAlias:     "duplicate_alias",
	KindPermissionDenied:   "permission_denied",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command names used by MalformedCommand.
const (
	CommandAddPerson      = "AddPerson"
	CommandRecordDebt     = "RecordDebt"
	CommandBalanceInquiry = "BalanceInquiry"
)

var usage = map[string]string{
	CommandAddPerson:      `"Add person" message should look like: "Add <name> <phone number>"`,
	CommandRecordDebt:     `IOU message should look like: "<name> owes <name> <amount> for <reason>"`,
	CommandBalanceInquiry: `Balance inquiry should look like "How much does <person 1 name> owe <person 2 name>?"`,
}

// Error is a failure with a user-facing message.
type Error struct {
	Kind Kind

	// Command is set for KindMalformedCommand.
	Command string
	// Text is the offending input for KindInvalidAmount, KindInvalidPhoneNumber
	// and KindPersonNotFound.
	Text string
	// Name is the alias for KindDuplicateAlias.
	Name string
	// Number is the phone number for KindDuplicateParty and KindDuplicateAlias.
	Number string
	// Reason explains KindPermissionDenied. It is never shown to the sender.
	Reason string
}

func (e *Error) Error() string {
	if e.Kind == KindPermissionDenied {
		return "permission denied: " + e.Reason
	}
	return e.Message()
}

// Message returns the text to send back to the sender.
// It is empty for silent errors.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMalformedCommand:
		return usage[e.Command]
	case KindInvalidAmount:
		return fmt.Sprintf(`Amount "%s" should be a number`, e.Text)
	case KindInvalidPhoneNumber:
		return fmt.Sprintf(`"%s" is not a valid phone number`, e.Text)
	case KindPersonNotFound:
		return fmt.Sprintf(`"%s" not found. You can add this person by texting back "Add %s <their phone number>"`, e.Text, e.Text)
	case KindDuplicateParty:
		return fmt.Sprintf("A person with the phone number %s already exists", e.Number)
	case KindDuplicateAlias:
		return fmt.Sprintf("You already have a friend named %s with the number %s", e.Name, e.Number)
	default:
		return ""
	}
}

// Silent reports whether the error must not be revealed to the sender.
func (e *Error) Silent() bool {
	return e.Kind == KindPermissionDenied
}

// MalformedCommand reports a message whose shape does not match its command.
func MalformedCommand(command string) *Error {
	return &Error{Kind: KindMalformedCommand, Command: command}
}

// InvalidAmount reports an amount that is not a positive number.
func InvalidAmount(text string) *Error {
	return &Error{Kind: KindInvalidAmount, Text: text}
}

// InvalidPhoneNumber reports a phone number that cannot be normalized.
func InvalidPhoneNumber(text string) *Error {
	return &Error{Kind: KindInvalidPhoneNumber, Text: text}
}

// PersonNotFound reports a name missing from the sender's contacts.
// The name is reported lower-cased.
func PersonNotFound(name string) *Error {
	return &Error{Kind: KindPersonNotFound, Text: strings.ToLower(name)}
}

// DuplicateParty reports that a party with the number is already registered.
func DuplicateParty(number string) *Error {
	return &Error{Kind: KindDuplicateParty, Number: number}
}

// DuplicateAlias reports that the sender already uses name for the party
// with the given number.
func DuplicateAlias(name, number string) *Error {
	return &Error{Kind: KindDuplicateAlias, Name: name, Number: number}
}

// PermissionDenied reports an action the sender may not perform.
func PermissionDenied(reason string) *Error {
	return &Error{Kind: KindPermissionDenied, Reason: reason}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
