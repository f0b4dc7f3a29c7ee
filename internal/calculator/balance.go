// Package calculator derives net balances between two parties and renders
// them as reply text.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/iou/internal/models"
)

// Net returns how much A owes B given the total A owes B (aToB) and the total
// B owes A (bToA). The difference is truncated toward zero to whole units, so
// -0.5 becomes 0 rather than -1. A negative result means B owes A.
func Net(aToB, bToA decimal.Decimal) decimal.Decimal {
	return aToB.Sub(bToA).Truncate(0)
}

// NetFromObligations computes Net for A and B from a list of obligations.
// Obligations not between A and B are ignored.
func NetFromObligations(a, b string, obligations []*models.Obligation) decimal.Decimal {
	aToB, bToA := decimal.Zero, decimal.Zero
	for _, o := range obligations {
		switch {
		case o.OwerID == a && o.OweeID == b:
			aToB = aToB.Add(o.Amount)
		case o.OwerID == b && o.OweeID == a:
			bToA = bToA.Add(o.Amount)
		}
	}
	return Net(aToB, bToA)
}

// Phrase renders a net balance between A and B as reply text.
func Phrase(a, b *models.Party, net decimal.Decimal) string {
	nameA, nameB := DisplayName(a.Name), DisplayName(b.Name)
	switch net.Sign() {
	case 0:
		return fmt.Sprintf("%s and %s are now even", nameA, nameB)
	case 1:
		return fmt.Sprintf("%s now owes %s $%s", nameA, nameB, net.String())
	default:
		return fmt.Sprintf("%s now owes %s $%s", nameB, nameA, net.Abs().String())
	}
}

// DisplayName title-cases a stored name ("kristi" -> "Kristi").
// A Caser is stateful, so each call gets its own.
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}
