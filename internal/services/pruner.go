package services

import (
	"strings"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

// Prune removes zero-amount rows from a budget tree. A row survives when
// its amount is strictly positive or when it is an ancestor of a surviving
// row, so a chapter whose only content was deleted disappears along with
// it. Input order is preserved. Ancestry is derived from the dot-path ids;
// the stored path encoding is trusted as-is, so a positive row whose
// declared ancestors are missing from the collection is still kept.
func Prune(items []models.BudgetTreeItem) []models.BudgetTreeItem {
	keep := make(map[string]bool, len(items))
	for _, it := range items {
		if ParseNumber(it.Amount).IsPositive() {
			keep[it.ID] = true
			for _, ancestor := range ancestorIDs(it.ID) {
				keep[ancestor] = true
			}
		}
	}

	pruned := make([]models.BudgetTreeItem, 0, len(items))
	for _, it := range items {
		if keep[it.ID] {
			pruned = append(pruned, it)
		}
	}
	return pruned
}

// ancestorIDs returns every proper prefix of a dot path:
// "2.1.3" -> ["2", "2.1"].
func ancestorIDs(id string) []string {
	segments := strings.Split(id, ".")
	ancestors := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		ancestors = append(ancestors, strings.Join(segments[:i], "."))
	}
	return ancestors
}

// parentID returns the id of a row's direct parent, or "" for a root row.
func parentID(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[:i]
	}
	return ""
}
