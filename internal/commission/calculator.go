// Package commission implements the commission arithmetic shared by the
// calculator preview, invoice persistence and reporting.
package commission

import (
	"errors"

	"github.com/dlsistemas/comisiones/internal/config"
)

// ErrAmountMismatch reports entered line amounts exceeding the invoice total
// under the reject policy.
var ErrAmountMismatch = errors.New("amount_mismatch")

// Line is one product entry as typed into the calculator. Color is the
// display color of the product, carried through untouched.
type Line struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
	Color       string  `json:"color,omitempty"`
}

// LineResult is a Line with its computed commission.
type LineResult struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
	Commission  float64 `json:"commission"`
	Color       string  `json:"color,omitempty"`
}

// Calculation is the full breakdown for one invoice total.
type Calculation struct {
	Lines           []LineResult `json:"lines"`
	EnteredAmount   float64      `json:"entered_amount"`
	RestAmount      float64      `json:"rest_amount"`
	RestPercentage  float64      `json:"rest_percentage"`
	RestCommission  float64      `json:"rest_commission"`
	TotalCommission float64      `json:"total_commission"`
}

// LineCommission returns amount scaled by a percentage. Full float precision
// is kept; rounding is a presentation concern.
func LineCommission(amount, percentage float64) float64 {
	return amount * percentage / 100
}

// Compute derives the commission breakdown for an invoice total. The rest
// amount is the unassigned remainder of the total; how a negative remainder
// is handled depends on the over-entry policy.
func Compute(total float64, lines []Line, restPercentage float64, policy config.OverEntryPolicy) (Calculation, error) {
	calc := Calculation{
		Lines:          make([]LineResult, 0, len(lines)),
		RestPercentage: restPercentage,
	}

	var entered float64
	for _, line := range lines {
		commission := LineCommission(line.Amount, line.Percentage)
		calc.Lines = append(calc.Lines, LineResult{
			ProductName: line.ProductName,
			Amount:      line.Amount,
			Percentage:  line.Percentage,
			Commission:  commission,
			Color:       line.Color,
		})
		entered += line.Amount
		calc.TotalCommission += commission
	}
	calc.EnteredAmount = entered

	rest := total - entered
	if rest < 0 {
		if policy == config.OverEntryReject {
			return Calculation{}, ErrAmountMismatch
		}
		rest = 0
	}
	calc.RestAmount = rest
	calc.RestCommission = LineCommission(calc.RestAmount, restPercentage)
	calc.TotalCommission += calc.RestCommission

	return calc, nil
}
