package admission

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core"
)

var errUnknownConcession = errors.New("unknown concession type")

// ComputeTotals derives gross/concession/net from fee components and a
// concession. Pure: inactive components contribute nothing, a concession
// never exceeds the gross, net is floored at zero.
func ComputeTotals(components []FeeComponent, concession Concession) (Totals, error) {
	var gross int64
	for i, c := range components {
		if c.Amount < 0 {
			return Totals{}, core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("components[%d].amount", i),
				Error: "amount must not be negative",
			})
		}
		if c.IsActive {
			gross += c.Amount
		}
	}

	if concession.Value < 0 {
		return Totals{}, core.NewValidationError(nil, core.FieldError{
			Field: "concession.value",
			Error: "value must not be negative",
		})
	}

	var amount int64
	switch concession.Type {
	case ConcessionNone, "":
		amount = 0
	case ConcessionPercentage:
		amount = int64(math.Round(float64(gross) * concession.Value / 100))
	case ConcessionFixedAmount:
		amount = int64(math.Round(concession.Value))
	default:
		return Totals{}, core.NewValidationError(errUnknownConcession, core.FieldError{
			Field: "concession.type",
			Error: errUnknownConcession.Error(),
		})
	}

	// clamp: a concession may never invert the payable amount
	if amount > gross {
		amount = gross
	}

	return Totals{Gross: gross, Concession: amount, Net: gross - amount}, nil
}
