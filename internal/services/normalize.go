package services

import "github.com/presupuestalo/budget-pdf-service/internal/models"

// NormalizeNumbers re-emits every numeric field in canonical machine form
// (fixed 2 decimals, "." separator): the amount at every level plus
// quantity, iva_percentage and pvp on item rows. Absent fields stay
// absent. The input slice is not mutated.
func NormalizeNumbers(items []models.BudgetTreeItem) []models.BudgetTreeItem {
	normalized := make([]models.BudgetTreeItem, len(items))
	for i, it := range items {
		if it.Amount != "" {
			it.Amount = FormatNumber(ParseNumber(it.Amount))
		}
		if it.Level == models.LevelItem {
			if it.Quantity != "" {
				it.Quantity = FormatNumber(ParseNumber(it.Quantity))
			}
			if it.IVAPercentage != "" {
				it.IVAPercentage = FormatNumber(ParseNumber(it.IVAPercentage))
			}
			if it.PVP != "" {
				it.PVP = FormatNumber(ParseNumber(it.PVP))
			}
		}
		normalized[i] = it
	}
	return normalized
}
