package services

import (
	"github.com/shopspring/decimal"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
}

// BudgetValidator checks that a budget is coherent enough to generate a
// document from. The pipeline itself never validates (a bad number simply
// contributes zero), so the calling layer runs this before invoking it.
type BudgetValidator struct {
	tolerance decimal.Decimal // relative tolerance for amount cross-checks
}

// NewBudgetValidator creates a validator with the default 5% tolerance
func NewBudgetValidator() *BudgetValidator {
	return &BudgetValidator{tolerance: decimal.NewFromFloat(0.05)}
}

// Validate performs all pre-generation checks on a budget
func (v *BudgetValidator) Validate(budget *models.Budget) *ValidationResult {
	result := &ValidationResult{
		Valid:       true,
		NeedsReview: false,
		Errors:      []ValidationError{},
		Warnings:    []ValidationWarning{},
	}

	data, err := budget.Data()
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "json_budget_data",
			Code:    "invalid_json",
			Message: "Los datos del presupuesto no son JSON válido",
		})
		result.Valid = false
		return result
	}

	// 1. Required identification fields
	v.validateClient(budget, result)

	// 2. Numeric fields must parse
	v.validateNumbers(data.Items, result)

	// 3. Chapter amounts vs detailed item totals
	v.validateChapterAmounts(data.Items, result)

	// 4. IRPF coherence
	v.validateIRPF(budget, result)

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = len(result.Warnings) > 0
	return result
}

// validateClient checks the identification fields the document prints
func (v *BudgetValidator) validateClient(budget *models.Budget, result *ValidationResult) {
	if budget.ClientName == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "client_name",
			Code:    "missing_client_name",
			Message: "El nombre del cliente es requerido",
		})
	}
	if budget.ClientNIF == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "client_nif_nie",
			Code:    "missing_client_nif",
			Message: "El presupuesto no tiene NIF/NIE del cliente",
		})
	}
}

// validateNumbers flags unparseable numeric strings, which the pipeline
// would otherwise silently treat as zero
func (v *BudgetValidator) validateNumbers(items []models.BudgetTreeItem, result *ValidationResult) {
	if err := validateNumbers(items); err != nil {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "json_budget_data",
			Code:    "unparseable_number",
			Message: err.Error(),
		})
	}
}

// validateChapterAmounts compares each chapter's stored amount against the
// sum of its item rows. The stored value is authoritative (it is what the
// summary prints), so a mismatch is a warning, not an error.
func (v *BudgetValidator) validateChapterAmounts(items []models.BudgetTreeItem, result *ValidationResult) {
	itemSums := make(map[string]decimal.Decimal)
	for _, it := range items {
		if it.Level != models.LevelItem {
			continue
		}
		amount := ParseNumber(it.Amount)
		for _, ancestor := range ancestorIDs(it.ID) {
			itemSums[ancestor] = itemSums[ancestor].Add(amount)
		}
	}

	for _, it := range items {
		if it.Level != models.LevelChapter {
			continue
		}
		stored := ParseNumber(it.Amount)
		summed := itemSums[it.ID]
		if stored.IsZero() && summed.IsZero() {
			continue
		}
		diff := stored.Sub(summed).Abs()
		if diff.GreaterThan(stored.Abs().Mul(v.tolerance)) {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Field:   "amount",
				Code:    "chapter_amount_mismatch",
				Message: "El importe del capítulo " + it.ID + " no coincide con la suma de sus partidas",
			})
		}
	}
}

// validateIRPF checks the withheld amount is consistent with the rate
func (v *BudgetValidator) validateIRPF(budget *models.Budget, result *ValidationResult) {
	if budget.IRPF > 0 && budget.IRPFPercentage <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "irpf_percentage",
			Code:    "missing_irpf_percentage",
			Message: "Porcentaje de IRPF requerido cuando hay retención",
		})
	}
	if budget.IRPF < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "irpf",
			Code:    "negative_irpf",
			Message: "La retención de IRPF no puede ser negativa",
		})
	}
}
