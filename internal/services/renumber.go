package services

import (
	"strconv"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

// Renumber reassigns dense, gap-free sibling numbers to a pruned tree:
// surviving chapters 1, 3, 4 become 1, 2, 3 and their descendants are
// relabeled under the new numbers. Sibling order is preserved; counters
// restart at 1 inside every parent group.
//
// Two id namespaces are in play: children are looked up under each row's
// ORIGINAL id (that is how parent/child associations exist in the input)
// while emitted rows carry the NEW id being assigned. Mixing them up
// breaks the tree.
func Renumber(items []models.BudgetTreeItem) []models.BudgetTreeItem {
	children := make(map[string][]models.BudgetTreeItem, len(items))
	for _, it := range items {
		pid := parentID(it.ID)
		children[pid] = append(children[pid], it)
	}

	renumbered := make([]models.BudgetTreeItem, 0, len(items))
	var walk func(originalParent, assignedParent string)
	walk = func(originalParent, assignedParent string) {
		for i, it := range children[originalParent] {
			assigned := strconv.Itoa(i + 1)
			if assignedParent != "" {
				assigned = assignedParent + "." + assigned
			}
			relabeled := it
			relabeled.ID = assigned
			renumbered = append(renumbered, relabeled)
			walk(it.ID, assigned)
		}
	}
	walk("", "")
	return renumbered
}
