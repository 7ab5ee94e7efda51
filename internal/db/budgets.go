package db

import (
	"context"
	"fmt"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

// GetBudgets returns the most recent budgets for an empresa
func GetBudgets(ctx context.Context, empresaAlias string, limit int) ([]models.Budget, error) {
	schema := GetSchemaForEmpresa(empresaAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(budget_number, ''), COALESCE(json_budget_data, '[]'::jsonb),
		       COALESCE(irpf, 0), COALESCE(irpf_percentage, 0),
		       COALESCE(client_name, ''), COALESCE(client_nif_nie, ''),
		       COALESCE(client_street, ''), COALESCE(client_city, ''), COALESCE(client_postal_code, ''),
		       COALESCE(client_phone, ''), COALESCE(client_email, ''),
		       budget_date, validity, COALESCE(note, ''), created_at, updated_at
		FROM %s.presupuestos
		ORDER BY created_at DESC
		LIMIT $1
	`, schema)

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(
			&b.ID, &b.BudgetNumber, &b.JSONBudgetData,
			&b.IRPF, &b.IRPFPercentage,
			&b.ClientName, &b.ClientNIF,
			&b.ClientStreet, &b.ClientCity, &b.ClientPostalCode,
			&b.ClientPhone, &b.ClientEmail,
			&b.BudgetDate, &b.ValidUntil, &b.Note, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, nil
}

// GetBudgetByID retrieves a single budget by ID
func GetBudgetByID(ctx context.Context, empresaAlias string, budgetID string) (*models.Budget, error) {
	schema := GetSchemaForEmpresa(empresaAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(budget_number, ''), COALESCE(json_budget_data, '[]'::jsonb),
		       COALESCE(irpf, 0), COALESCE(irpf_percentage, 0),
		       COALESCE(client_name, ''), COALESCE(client_nif_nie, ''),
		       COALESCE(client_street, ''), COALESCE(client_city, ''), COALESCE(client_postal_code, ''),
		       COALESCE(client_phone, ''), COALESCE(client_email, ''),
		       budget_date, validity, COALESCE(note, ''), created_at, updated_at
		FROM %s.presupuestos
		WHERE id = $1
	`, schema)

	var b models.Budget
	err := Pool.QueryRow(ctx, query, budgetID).Scan(
		&b.ID, &b.BudgetNumber, &b.JSONBudgetData,
		&b.IRPF, &b.IRPFPercentage,
		&b.ClientName, &b.ClientNIF,
		&b.ClientStreet, &b.ClientCity, &b.ClientPostalCode,
		&b.ClientPhone, &b.ClientEmail,
		&b.BudgetDate, &b.ValidUntil, &b.Note, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetTariff retrieves the empresa's branding/tariff record. Each empresa
// has a single active tariff row.
func GetTariff(ctx context.Context, empresaAlias string) (*models.Tariff, error) {
	schema := GetSchemaForEmpresa(empresaAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(logo, ''), COALESCE(company_name, ''), COALESCE(nif, ''),
		       COALESCE(street, ''), COALESCE(city, ''), COALESCE(postal_code, ''),
		       COALESCE(phone, ''), COALESCE(email, ''),
		       COALESCE(template, 'default'), COALESCE(primary_color, ''), COALESCE(secondary_color, ''),
		       COALESCE(default_note, '')
		FROM %s.tarifas
		WHERE active = true
		ORDER BY created_at DESC
		LIMIT 1
	`, schema)

	var t models.Tariff
	err := Pool.QueryRow(ctx, query).Scan(
		&t.ID, &t.Logo, &t.CompanyName, &t.NIF,
		&t.Street, &t.City, &t.PostalCode,
		&t.Phone, &t.Email,
		&t.Template, &t.PrimaryColor, &t.SecondaryColor,
		&t.DefaultNote,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
