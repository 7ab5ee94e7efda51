package models

// PayloadMode marks the payload as a production document for the external
// renderer (as opposed to any preview variant the renderer supports).
const PayloadMode = "produccion"

// PDFPayload is the structured document handed to the external rendering
// service as a JSON request body. All money/percentage fields are canonical
// 2-decimal strings with "." as decimal separator; the renderer applies
// display-locale formatting.
type PDFPayload struct {
	Company    CompanyInfo   `json:"company"`
	PDF        PDFMeta       `json:"pdf"`
	Summary    Summary       `json:"summary"`
	Budget     BudgetSection `json:"budget"`
	Conditions Conditions    `json:"conditions"`
	Mode       string        `json:"mode"`
}

// CompanyInfo is the issuing company's branding block.
type CompanyInfo struct {
	Logo     string       `json:"logo"` // always an absolute URL
	Name     string       `json:"name"`
	NIF      string       `json:"nif"`
	Address  string       `json:"address"`
	Contact  string       `json:"contact"`
	Template string       `json:"template"`
	Styles   []StyleEntry `json:"styles"`
}

// StyleEntry is one entry of the renderer's styles array; the renderer
// expects [{primary_color}, {secondary_color}] as separate objects.
type StyleEntry struct {
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
}

// PDFMeta holds the document metadata embedded in the generated file.
type PDFMeta struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Creator  string `json:"creator"`
	Keywords string `json:"keywords"`
}

// ClientBlock identifies the budget's recipient.
type ClientBlock struct {
	Name       string `json:"name"`
	NIFNIE     string `json:"nif_nie"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
	BudgetDate string `json:"budget_date"` // DD-MM-YYYY
	Validity   string `json:"validity"`    // DD-MM-YYYY
}

// Summary is the document overview: chapter rows plus tax totals.
type Summary struct {
	BudgetNumber string         `json:"budget_number"`
	Client       ClientBlock    `json:"client"`
	Title        string         `json:"title"`
	Note         string         `json:"note"`
	Levels       []SummaryLevel `json:"levels"`
	Totals       Totals         `json:"totals"`
}

// SummaryLevel is one chapter row of the overview section.
type SummaryLevel struct {
	Level  string `json:"level"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// TotalLine is a labeled amount in the totals block, e.g.
// {"name": "21.00% IVA", "amount": "21.00"}.
type TotalLine struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Totals is the tax breakdown of the document. Subtotal, IRPF and RE are
// omitted entirely (not emitted as zero) when they do not apply.
type Totals struct {
	Subtotal *TotalLine  `json:"subtotal,omitempty"`
	Base     string      `json:"base"`
	IVAs     []TotalLine `json:"ivas"`
	IRPF     *TotalLine  `json:"irpf,omitempty"`
	RE       []TotalLine `json:"re,omitempty"`
	Total    TotalLine   `json:"total"`
}

// BudgetSection carries the full pruned/renumbered/normalized tree.
type BudgetSection struct {
	Title  string           `json:"title"`
	Levels []BudgetTreeItem `json:"levels"`
}

// Conditions is the free-text closing block of the document.
type Conditions struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}
