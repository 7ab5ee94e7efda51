package services

import (
	"testing"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

func TestNormalizeNumbers(t *testing.T) {
	items := []models.BudgetTreeItem{
		{Level: models.LevelChapter, ID: "1", Name: "Obra", Amount: "1.210,00"},
		{
			Level: models.LevelItem, ID: "1.1", Name: "Partida",
			Unit: "m2", Quantity: "10", IVAPercentage: "21,00", PVP: "121,00",
			Amount: "1.210,00",
		},
	}

	got := NormalizeNumbers(items)

	if got[0].Amount != "1210.00" {
		t.Errorf("chapter amount = %q, want 1210.00", got[0].Amount)
	}
	leaf := got[1]
	if leaf.Quantity != "10.00" || leaf.IVAPercentage != "21.00" || leaf.PVP != "121.00" || leaf.Amount != "1210.00" {
		t.Errorf("item fields = %q/%q/%q/%q, want 10.00/21.00/121.00/1210.00",
			leaf.Quantity, leaf.IVAPercentage, leaf.PVP, leaf.Amount)
	}
	if leaf.Unit != "m2" {
		t.Errorf("unit changed to %q", leaf.Unit)
	}
}

func TestNormalizeNumbersLeavesAbsentFieldsAbsent(t *testing.T) {
	items := []models.BudgetTreeItem{
		{Level: models.LevelChapter, ID: "1", Amount: "10,00"},
		{Level: models.LevelItem, ID: "1.1", Amount: "10,00"},
	}

	got := NormalizeNumbers(items)
	if got[1].Quantity != "" || got[1].IVAPercentage != "" || got[1].PVP != "" {
		t.Errorf("absent fields were materialized: %+v", got[1])
	}
}

func TestNormalizeNumbersDoesNotMutateInput(t *testing.T) {
	items := []models.BudgetTreeItem{
		{Level: models.LevelChapter, ID: "1", Amount: "10,00"},
	}
	NormalizeNumbers(items)
	if items[0].Amount != "10,00" {
		t.Errorf("input mutated: %q", items[0].Amount)
	}
}

func TestNormalizeNumbersIdempotent(t *testing.T) {
	items := []models.BudgetTreeItem{
		{Level: models.LevelChapter, ID: "1", Amount: "1.210,00"},
		{Level: models.LevelItem, ID: "1.1", Quantity: "2,5", IVAPercentage: "21", PVP: "484,00", Amount: "1.210,00"},
	}

	once := NormalizeNumbers(items)
	twice := NormalizeNumbers(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d not stable: %+v vs %+v", i, once[i], twice[i])
		}
	}
}
