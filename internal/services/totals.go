package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// reIVARate extracts the IVA rate embedded in a surcharge line name,
// e.g. "5.20 % RE (IVA 21.00%)" -> "21.00".
var reIVARate = regexp.MustCompile(`IVA ([0-9]+(?:\.[0-9]+)?)%`)

// CalculateTotals computes the tax breakdown of a budget. Only item rows
// participate; chapters, subchapters and sections carry display aggregates
// and counting them would double every euro.
//
// Item amounts are tax-inclusive (gross), so the IVA portion is EXTRACTED
// as amount*rate/(100+rate), never added on top as amount*rate/100.
// Getting this backwards silently miscalculates every tax report.
func CalculateTotals(items []models.BudgetTreeItem, budget *models.Budget) models.Totals {
	totalAmount := decimal.Zero
	vatByRate := make(map[string]decimal.Decimal)

	for _, it := range items {
		if it.Level != models.LevelItem {
			continue
		}
		amount := ParseNumber(it.Amount)
		rate := ParseNumber(it.IVAPercentage)
		totalAmount = totalAmount.Add(amount)

		vat := amount.Mul(rate).Div(hundred.Add(rate))
		key := FormatNumber(rate)
		vatByRate[key] = vatByRate[key].Add(vat)
	}

	vatTotal := decimal.Zero
	for _, vat := range vatByRate {
		vatTotal = vatTotal.Add(vat)
	}

	ivas := make([]models.TotalLine, 0, len(vatByRate))
	for rate, vat := range vatByRate {
		ivas = append(ivas, models.TotalLine{
			Name:   rate + "% IVA",
			Amount: FormatNumber(vat),
		})
	}
	// Ascending by rate, keyed off the formatted name so the label and the
	// sort order can never drift apart.
	sort.Slice(ivas, func(i, j int) bool {
		return ivaRateOf(ivas[i].Name).LessThan(ivaRateOf(ivas[j].Name))
	})

	totals := models.Totals{
		Base: FormatNumber(totalAmount.Sub(vatTotal)),
		IVAs: ivas,
	}

	// Running amount due: gross total, minus IRPF withholding, plus any
	// equivalence surcharge.
	running := totalAmount
	adjusted := false

	if budget != nil && budget.IRPF > 0 && budget.IRPFPercentage > 0 {
		irpf := decimal.NewFromFloat(budget.IRPF)
		pct := decimal.NewFromFloat(budget.IRPFPercentage)
		totals.IRPF = &models.TotalLine{
			Name:   FormatNumber(pct) + "% IRPF",
			Amount: FormatNumber(irpf.Neg()),
		}
		running = running.Sub(irpf)
		adjusted = true
	}

	if recargo := recargoOf(budget); recargo != nil && recargo.Aplica && len(recargo.ReByIVA) > 0 {
		re := make([]models.TotalLine, 0, len(recargo.ReByIVA))
		for rateStr, reFloat := range recargo.ReByIVA {
			rate := ParseNumber(rateStr)
			reAmount := decimal.NewFromFloat(reFloat)

			// The surcharge's effective percentage rides on the bracket's
			// taxable base, reconstructed from that rate's extracted IVA.
			rePct := decimal.Zero
			if !rate.IsZero() {
				bracketBase := vatByRate[FormatNumber(rate)].Div(rate.Div(hundred))
				if !bracketBase.IsZero() {
					rePct = reAmount.Div(bracketBase).Mul(hundred)
				}
			}

			re = append(re, models.TotalLine{
				Name:   fmt.Sprintf("%s %% RE (IVA %s%%)", FormatNumber(rePct), FormatNumber(rate)),
				Amount: FormatNumber(reAmount),
			})
			running = running.Add(reAmount)
		}
		sort.Slice(re, func(i, j int) bool {
			return embeddedIVARateOf(re[i].Name).LessThan(embeddedIVARateOf(re[j].Name))
		})
		totals.RE = re
		adjusted = true
	}

	// The subtotal line only exists to anchor the visible
	// "Subtotal -> -IRPF -> +RE -> Total" chain; without adjustments it is
	// omitted entirely, not emitted as zero.
	if adjusted {
		totals.Subtotal = &models.TotalLine{
			Name:   "Subtotal",
			Amount: FormatNumber(totalAmount),
		}
	}

	totals.Total = models.TotalLine{
		Name:   "TOTAL PRESUPUESTO",
		Amount: FormatNumber(running),
	}
	return totals
}

// ivaRateOf parses the numeric rate back out of a "21.00% IVA" label.
func ivaRateOf(name string) decimal.Decimal {
	return ParseNumber(strings.TrimSuffix(name, "% IVA"))
}

// embeddedIVARateOf parses the IVA rate out of a surcharge label.
func embeddedIVARateOf(name string) decimal.Decimal {
	m := reIVARate.FindStringSubmatch(name)
	if m == nil {
		return decimal.Zero
	}
	return ParseNumber(m[1])
}

// recargoOf digs the surcharge configuration out of the budget's stored
// JSON. An undecodable payload means no surcharge, consistent with the
// lenient numeric policy.
func recargoOf(budget *models.Budget) *models.RecargoConfig {
	if budget == nil {
		return nil
	}
	data, err := budget.Data()
	if err != nil {
		return nil
	}
	return data.Recargo
}
