package services

import "github.com/presupuestalo/budget-pdf-service/internal/models"

// ExtractChapters returns the chapter rows used for the document overview,
// in input order. Chapter amounts are authoritative upstream data; they
// are not recomputed from descendant rows.
func ExtractChapters(items []models.BudgetTreeItem) []models.SummaryLevel {
	chapters := make([]models.SummaryLevel, 0)
	for _, it := range items {
		if it.Level != models.LevelChapter {
			continue
		}
		chapters = append(chapters, models.SummaryLevel{
			Level:  it.Level,
			ID:     it.ID,
			Name:   it.Name,
			Amount: FormatNumber(ParseNumber(it.Amount)),
		})
	}
	return chapters
}
