package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

// PayloadBuilder turns a persisted budget plus the company's tariff into
// the document payload handed to the external rendering service. Build is
// a pure function of its inputs (trace dumps aside); a builder is safe to
// share across requests.
type PayloadBuilder struct {
	assetBaseURL string
	trace        TraceSink

	// StrictNumbers rejects unparseable numeric strings with an error
	// instead of silently coercing them to zero. Off by default: the
	// historical behavior is that a bad line contributes nothing.
	StrictNumbers bool
}

// NewPayloadBuilder creates a builder. assetBaseURL resolves relative logo
// paths; a nil trace sink disables diagnostics.
func NewPayloadBuilder(assetBaseURL string, trace TraceSink) *PayloadBuilder {
	if trace == nil {
		trace = nopSink{}
	}
	return &PayloadBuilder{
		assetBaseURL: assetBaseURL,
		trace:        trace,
	}
}

// Build runs the pipeline in strict sequence: prune -> renumber ->
// normalize -> {extract chapters, calculate totals} -> assemble.
func (b *PayloadBuilder) Build(budget *models.Budget, tariff *models.Tariff) (*models.PDFPayload, error) {
	data, err := budget.Data()
	if err != nil {
		return nil, err
	}

	if b.StrictNumbers {
		if err := validateNumbers(data.Items); err != nil {
			return nil, err
		}
	}

	pruned := Prune(data.Items)
	b.trace.Dump("pruned", pruned)

	renumbered := Renumber(pruned)
	b.trace.Dump("renumbered", renumbered)

	normalized := NormalizeNumbers(renumbered)
	b.trace.Dump("normalized", normalized)

	chapters := ExtractChapters(normalized)
	totals := CalculateTotals(normalized, budget)
	b.trace.Dump("totals", totals)

	note := budget.Note
	if note == "" {
		note = tariff.DefaultNote
	}

	payload := &models.PDFPayload{
		Company: models.CompanyInfo{
			Logo:     b.resolveLogoURL(tariff.Logo),
			Name:     tariff.CompanyName,
			NIF:      tariff.NIF,
			Address:  joinParts(", ", tariff.Street, tariff.PostalCode, tariff.City),
			Contact:  joinParts(" - ", tariff.Phone, tariff.Email),
			Template: tariff.Template,
			Styles: []models.StyleEntry{
				{PrimaryColor: tariff.PrimaryColor},
				{SecondaryColor: tariff.SecondaryColor},
			},
		},
		PDF: models.PDFMeta{
			Title:    joinParts(" - ", budget.ClientName, budget.ClientNIF),
			Author:   tariff.CompanyName,
			Subject:  strings.TrimSpace("Presupuesto " + budget.BudgetNumber),
			Creator:  "presupuestalo",
			Keywords: joinParts(", ", "presupuesto", budget.BudgetNumber),
		},
		Summary: models.Summary{
			BudgetNumber: budget.BudgetNumber,
			Client: models.ClientBlock{
				Name:       budget.ClientName,
				NIFNIE:     budget.ClientNIF,
				Address:    joinParts(", ", budget.ClientStreet, budget.ClientPostalCode, budget.ClientCity),
				Contact:    joinParts(" - ", budget.ClientPhone, budget.ClientEmail),
				BudgetDate: formatDate(budget.BudgetDate),
				Validity:   formatDate(budget.ValidUntil),
			},
			Title:  "Resumen del presupuesto",
			Note:   note,
			Levels: chapters,
			Totals: totals,
		},
		Budget: models.BudgetSection{
			Title:  "Presupuesto",
			Levels: normalized,
		},
		Conditions: models.Conditions{
			Title: "Condiciones",
			Note:  note,
		},
		Mode: models.PayloadMode,
	}

	b.trace.Dump("payload", payload)
	return payload, nil
}

// validateNumbers reports the first unparseable numeric field in the tree.
func validateNumbers(items []models.BudgetTreeItem) error {
	check := func(id, field, value string) error {
		if value == "" {
			return nil
		}
		if _, err := ParseNumberStrict(value); err != nil {
			return fmt.Errorf("item %s: %s: %w", id, field, err)
		}
		return nil
	}

	for _, it := range items {
		if err := check(it.ID, "amount", it.Amount); err != nil {
			return err
		}
		if it.Level != models.LevelItem {
			continue
		}
		if err := check(it.ID, "quantity", it.Quantity); err != nil {
			return err
		}
		if err := check(it.ID, "iva_percentage", it.IVAPercentage); err != nil {
			return err
		}
		if err := check(it.ID, "pvp", it.PVP); err != nil {
			return err
		}
	}
	return nil
}

// resolveLogoURL turns a possibly-relative logo path into an absolute URL.
func (b *PayloadBuilder) resolveLogoURL(logo string) string {
	if logo == "" {
		return ""
	}
	if strings.HasPrefix(logo, "http://") || strings.HasPrefix(logo, "https://") {
		return logo
	}
	return strings.TrimRight(b.assetBaseURL, "/") + "/" + strings.TrimLeft(logo, "/")
}

// joinParts joins the non-empty parts with sep.
func joinParts(sep string, parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02-01-2006")
}
