package command

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/models"
)

var reasonSeparator = regexp.MustCompile(`(?i) for `)

// Classify returns the kind of command text holds without parsing its fields.
func Classify(text string) Kind {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(lower, "how much"):
		return KindBalanceInquiry
	case strings.Contains(normalizeOwe(lower), "owe"):
		return KindRecordDebt
	case strings.HasPrefix(lower, "add"):
		return KindAddPerson
	default:
		return KindUnrecognized
	}
}

// Parse classifies text and extracts its fields.
// Unrecognized text is not an error: it returns a KindUnrecognized command.
func Parse(text string) (Command, error) {
	trimmed := strings.TrimSpace(text)

	switch Classify(trimmed) {
	case KindBalanceInquiry:
		return parseBalanceInquiry(strings.ToLower(trimmed))
	case KindRecordDebt:
		return parseRecordDebt(trimmed)
	case KindAddPerson:
		return parseAddPerson(trimmed)
	default:
		return Command{Kind: KindUnrecognized}, nil
	}
}

func normalizeOwe(s string) string {
	return strings.ReplaceAll(s, "owes", "owe")
}

// parseAddPerson expects "add <name> <phone number>".
func parseAddPerson(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Command{}, apperr.MalformedCommand(apperr.CommandAddPerson)
	}
	return Command{
		Kind:        KindAddPerson,
		Name:        fields[1],
		PhoneNumber: fields[2],
	}, nil
}

// parseRecordDebt expects "<ower> owes <owee> <amount>[ for <reason>]".
func parseRecordDebt(text string) (Command, error) {
	people, reason := text, models.DefaultReason
	if loc := reasonSeparator.FindStringIndex(text); loc != nil {
		people = text[:loc[0]]
		if r := strings.TrimSpace(text[loc[1]:]); r != "" {
			reason = r
		}
	}

	people = normalizeOwe(strings.ToLower(people))
	ower, rest, ok := strings.Cut(people, "owe")
	if !ok {
		return Command{}, apperr.MalformedCommand(apperr.CommandRecordDebt)
	}
	ower = strings.TrimSpace(ower)
	rest = strings.TrimSpace(rest)

	idx := strings.LastIndex(rest, " ")
	if ower == "" || idx < 0 {
		return Command{}, apperr.MalformedCommand(apperr.CommandRecordDebt)
	}
	owee := strings.TrimSpace(rest[:idx])
	amountText := strings.TrimSpace(rest[idx+1:])
	if owee == "" || amountText == "" {
		return Command{}, apperr.MalformedCommand(apperr.CommandRecordDebt)
	}

	amount, err := ParseAmount(amountText)
	if err != nil {
		return Command{}, err
	}

	return Command{
		Kind:   KindRecordDebt,
		Ower:   ower,
		Owee:   owee,
		Amount: amount,
		Reason: reason,
	}, nil
}

// ParseAmount strips dollar signs and parses a positive decimal that
// models.ValidateAmount accepts.
func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(text, "$", ""))
	if err != nil || models.ValidateAmount(amount) != nil {
		return decimal.Decimal{}, apperr.InvalidAmount(text)
	}
	return amount, nil
}

// parseBalanceInquiry expects "how much does <ower> owe <owee>?". Only the
// last three words matter: the ower, a verb, and the owee.
func parseBalanceInquiry(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return Command{}, apperr.MalformedCommand(apperr.CommandBalanceInquiry)
	}
	n := len(fields)
	owee := strings.TrimRight(fields[n-1], "?")
	if owee == "" {
		return Command{}, apperr.MalformedCommand(apperr.CommandBalanceInquiry)
	}
	return Command{
		Kind: KindBalanceInquiry,
		Ower: fields[n-3],
		Owee: owee,
	}, nil
}
