package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level names for the four tiers of a budget tree. Item is the only
// leaf level and the only one carrying quantity/unit-price detail.
const (
	LevelChapter    = "chapter"
	LevelSubchapter = "subchapter"
	LevelSection    = "section"
	LevelItem       = "item"
)

// BudgetTreeItem is one row of the hierarchical quote. The tree is encoded
// through the dot-separated ID: "2.1.3" is section 3 of subchapter 1 of
// chapter 2. Numeric fields are stored as strings because upstream data
// arrives locale-formatted ("1.234,56"); the pipeline normalizes them to
// canonical dot-separated 2-decimal form before anything is emitted.
type BudgetTreeItem struct {
	Level       string `json:"level"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Item-level fields only
	Unit          string `json:"unit,omitempty"`
	Quantity      string `json:"quantity,omitempty"`
	IVAPercentage string `json:"iva_percentage,omitempty"`
	PVP           string `json:"pvp,omitempty"`

	// Extended total (quantity x pvp, tax-inclusive). Present at every
	// level; parent rows carry their own stored amount, the pipeline does
	// not recompute it from children.
	Amount string `json:"amount"`
}

// RecargoConfig holds precomputed equivalence-surcharge amounts keyed by
// the IVA rate they ride on top of.
type RecargoConfig struct {
	Aplica  bool               `json:"aplica"`
	ReByIVA map[string]float64 `json:"reByIVA"`
}

// BudgetData is the decoded form of Budget.JSONBudgetData.
type BudgetData struct {
	Items   []BudgetTreeItem `json:"items"`
	Recargo *RecargoConfig   `json:"recargo,omitempty"`
}

// Budget represents the extracted data of a persisted quote
type Budget struct {
	ID             uuid.UUID       `json:"id"`
	BudgetNumber   string          `json:"budget_number"`
	JSONBudgetData json.RawMessage `json:"json_budget_data"`
	IRPF           float64         `json:"irpf"`            // amount withheld, euros
	IRPFPercentage float64         `json:"irpf_percentage"` // rate the amount was derived from

	// Cliente
	ClientName       string `json:"client_name"`
	ClientNIF        string `json:"client_nif_nie"`
	ClientStreet     string `json:"client_street"`
	ClientCity       string `json:"client_city"`
	ClientPostalCode string `json:"client_postal_code"`
	ClientPhone      string `json:"client_phone"`
	ClientEmail      string `json:"client_email"`

	BudgetDate *time.Time `json:"budget_date"`
	ValidUntil *time.Time `json:"validity"`
	Note       string     `json:"note"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Data decodes json_budget_data. Older rows store a bare array of tree
// items; newer rows store {"items": [...], "recargo": {...}}. Both shapes
// are accepted.
func (b *Budget) Data() (*BudgetData, error) {
	raw := bytes.TrimSpace(b.JSONBudgetData)
	if len(raw) == 0 {
		return &BudgetData{}, nil
	}

	if raw[0] == '[' {
		var items []BudgetTreeItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode budget items: %w", err)
		}
		return &BudgetData{Items: items}, nil
	}

	var data BudgetData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode budget data: %w", err)
	}
	return &data, nil
}

// Tariff carries company branding and defaults merged into the PDF payload
type Tariff struct {
	ID          uuid.UUID `json:"id"`
	Logo        string    `json:"logo"` // relative path or absolute URL
	CompanyName string    `json:"company_name"`
	NIF         string    `json:"nif"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`

	Template       string `json:"template"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	DefaultNote    string `json:"default_note"`
}
