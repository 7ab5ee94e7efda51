package services

import (
	"encoding/json"
	"testing"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

func validatorBudget(rawData string) *models.Budget {
	return &models.Budget{
		BudgetNumber:   "2026-0001",
		JSONBudgetData: json.RawMessage(rawData),
		ClientName:     "Juana García",
		ClientNIF:      "12345678Z",
	}
}

func hasCode(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func errorCodes(r *ValidationResult) []string {
	codes := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

func warningCodes(r *ValidationResult) []string {
	codes := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestValidateCleanBudget(t *testing.T) {
	raw := `[
		{"level":"chapter","id":"1","name":"Obra","amount":"121,00"},
		{"level":"item","id":"1.1","name":"Partida","amount":"121,00","iva_percentage":"21,00"}
	]`
	result := NewBudgetValidator().Validate(validatorBudget(raw))

	if !result.Valid {
		t.Errorf("Valid = false, errors: %+v", result.Errors)
	}
	if result.NeedsReview {
		t.Errorf("NeedsReview = true, warnings: %+v", result.Warnings)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	result := NewBudgetValidator().Validate(validatorBudget(`{broken`))

	if result.Valid {
		t.Error("Valid = true for undecodable data")
	}
	if !hasCode(errorCodes(result), "invalid_json") {
		t.Errorf("errors = %+v, want invalid_json", result.Errors)
	}
}

func TestValidateMissingClientName(t *testing.T) {
	budget := validatorBudget(`[]`)
	budget.ClientName = ""

	result := NewBudgetValidator().Validate(budget)

	if result.Valid {
		t.Error("Valid = true without client name")
	}
	if !hasCode(errorCodes(result), "missing_client_name") {
		t.Errorf("errors = %+v, want missing_client_name", result.Errors)
	}
}

func TestValidateMissingNIFIsWarning(t *testing.T) {
	budget := validatorBudget(`[]`)
	budget.ClientNIF = ""

	result := NewBudgetValidator().Validate(budget)

	if !result.Valid {
		t.Errorf("missing NIF should not invalidate, errors: %+v", result.Errors)
	}
	if !result.NeedsReview || !hasCode(warningCodes(result), "missing_client_nif") {
		t.Errorf("warnings = %+v, want missing_client_nif", result.Warnings)
	}
}

func TestValidateUnparseableNumberIsWarning(t *testing.T) {
	raw := `[{"level":"item","id":"1.1","name":"Mala","amount":"12abc"}]`
	result := NewBudgetValidator().Validate(validatorBudget(raw))

	if !result.Valid {
		t.Errorf("bad number should warn, not error: %+v", result.Errors)
	}
	if !hasCode(warningCodes(result), "unparseable_number") {
		t.Errorf("warnings = %+v, want unparseable_number", result.Warnings)
	}
}

func TestValidateChapterAmountMismatch(t *testing.T) {
	raw := `[
		{"level":"chapter","id":"1","name":"Obra","amount":"500,00"},
		{"level":"item","id":"1.1","name":"Partida","amount":"121,00"}
	]`
	result := NewBudgetValidator().Validate(validatorBudget(raw))

	if !result.Valid {
		t.Errorf("mismatch should warn, not error: %+v", result.Errors)
	}
	if !hasCode(warningCodes(result), "chapter_amount_mismatch") {
		t.Errorf("warnings = %+v, want chapter_amount_mismatch", result.Warnings)
	}
}

func TestValidateChapterAmountWithinTolerance(t *testing.T) {
	// 2% off, under the 5% tolerance
	raw := `[
		{"level":"chapter","id":"1","name":"Obra","amount":"100,00"},
		{"level":"item","id":"1.1","name":"Partida","amount":"98,00"}
	]`
	result := NewBudgetValidator().Validate(validatorBudget(raw))

	if hasCode(warningCodes(result), "chapter_amount_mismatch") {
		t.Errorf("2%% drift flagged despite tolerance: %+v", result.Warnings)
	}
}

func TestValidateIRPF(t *testing.T) {
	tests := []struct {
		name     string
		irpf     float64
		pct      float64
		wantCode string
	}{
		{"withholding without rate", 15.5, 0, "missing_irpf_percentage"},
		{"negative withholding", -1, 15, "negative_irpf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := validatorBudget(`[]`)
			budget.IRPF = tt.irpf
			budget.IRPFPercentage = tt.pct

			result := NewBudgetValidator().Validate(budget)
			if result.Valid {
				t.Error("Valid = true for incoherent IRPF")
			}
			if !hasCode(errorCodes(result), tt.wantCode) {
				t.Errorf("errors = %+v, want %s", result.Errors, tt.wantCode)
			}
		})
	}
}
