package services

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/presupuestalo/budget-pdf-service/internal/models"
)

func taxedItem(id, amount, rate string) models.BudgetTreeItem {
	it := item(models.LevelItem, id, amount)
	it.IVAPercentage = rate
	return it
}

func TestCalculateTotalsSingleRate(t *testing.T) {
	items := []models.BudgetTreeItem{
		item(models.LevelChapter, "1", "0,00"),
		taxedItem("1.1", "121,00", "21,00"),
	}

	totals := CalculateTotals(items, &models.Budget{})

	if len(totals.IVAs) != 1 {
		t.Fatalf("got %d iva lines, want 1", len(totals.IVAs))
	}
	if totals.IVAs[0].Name != "21.00% IVA" || totals.IVAs[0].Amount != "21.00" {
		t.Errorf("iva line = %+v, want {21.00%% IVA 21.00}", totals.IVAs[0])
	}
	if totals.Base != "100.00" {
		t.Errorf("base = %s, want 100.00", totals.Base)
	}
	if totals.Total.Name != "TOTAL PRESUPUESTO" || totals.Total.Amount != "121.00" {
		t.Errorf("total = %+v, want {TOTAL PRESUPUESTO 121.00}", totals.Total)
	}
	if totals.Subtotal != nil || totals.IRPF != nil || totals.RE != nil {
		t.Errorf("unexpected optional lines: subtotal=%v irpf=%v re=%v",
			totals.Subtotal, totals.IRPF, totals.RE)
	}
}

func TestCalculateTotalsExcludesAggregateRows(t *testing.T) {
	// Chapter and section amounts are display aggregates; counting them
	// would double every euro.
	items := []models.BudgetTreeItem{
		item(models.LevelChapter, "1", "121,00"),
		item(models.LevelSection, "1.1", "121,00"),
		taxedItem("1.1.1", "121,00", "21,00"),
	}

	totals := CalculateTotals(items, &models.Budget{})
	if totals.Total.Amount != "121.00" {
		t.Errorf("total = %s, want 121.00 (items only)", totals.Total.Amount)
	}
}

func TestCalculateTotalsMultipleRatesSorted(t *testing.T) {
	items := []models.BudgetTreeItem{
		taxedItem("1.1", "121,00", "21,00"),
		taxedItem("1.2", "110,00", "10,00"),
		taxedItem("1.3", "104,00", "4,00"),
	}

	totals := CalculateTotals(items, &models.Budget{})

	if len(totals.IVAs) != 3 {
		t.Fatalf("got %d iva lines, want 3", len(totals.IVAs))
	}
	wantNames := []string{"4.00% IVA", "10.00% IVA", "21.00% IVA"}
	wantAmounts := []string{"4.00", "10.00", "21.00"}
	for i := range wantNames {
		if totals.IVAs[i].Name != wantNames[i] || totals.IVAs[i].Amount != wantAmounts[i] {
			t.Errorf("iva[%d] = %+v, want {%s %s}", i, totals.IVAs[i], wantNames[i], wantAmounts[i])
		}
	}
	if totals.Base != "300.00" {
		t.Errorf("base = %s, want 300.00", totals.Base)
	}
	if totals.Total.Amount != "335.00" {
		t.Errorf("total = %s, want 335.00", totals.Total.Amount)
	}
}

func TestCalculateTotalsIRPF(t *testing.T) {
	items := []models.BudgetTreeItem{
		taxedItem("1.1", "121,00", "21,00"),
	}
	budget := &models.Budget{IRPF: 15.5, IRPFPercentage: 15}

	totals := CalculateTotals(items, budget)

	if totals.Subtotal == nil || totals.Subtotal.Name != "Subtotal" || totals.Subtotal.Amount != "121.00" {
		t.Fatalf("subtotal = %+v, want {Subtotal 121.00}", totals.Subtotal)
	}
	if totals.IRPF == nil || totals.IRPF.Name != "15.00% IRPF" || totals.IRPF.Amount != "-15.50" {
		t.Fatalf("irpf = %+v, want {15.00%% IRPF -15.50}", totals.IRPF)
	}
	if totals.Total.Amount != "105.50" {
		t.Errorf("total = %s, want 105.50", totals.Total.Amount)
	}
}

func TestCalculateTotalsIRPFRequiresPercentage(t *testing.T) {
	items := []models.BudgetTreeItem{taxedItem("1.1", "121,00", "21,00")}
	budget := &models.Budget{IRPF: 15.5}

	totals := CalculateTotals(items, budget)
	if totals.IRPF != nil || totals.Subtotal != nil {
		t.Errorf("irpf applied without percentage: %+v", totals.IRPF)
	}
	if totals.Total.Amount != "121.00" {
		t.Errorf("total = %s, want 121.00", totals.Total.Amount)
	}
}

func TestCalculateTotalsRecargo(t *testing.T) {
	items := []models.BudgetTreeItem{
		taxedItem("1.1", "121,00", "21,00"),
	}
	budget := &models.Budget{
		JSONBudgetData: json.RawMessage(`{"items":[],"recargo":{"aplica":true,"reByIVA":{"21":5.2}}}`),
	}

	totals := CalculateTotals(items, budget)

	if len(totals.RE) != 1 {
		t.Fatalf("got %d re lines, want 1", len(totals.RE))
	}
	// Bracket base reconstructed from the 21% IVA sum: 21/(0.21) = 100,
	// so the effective surcharge rate is 5.2/100*100 = 5.20%.
	if totals.RE[0].Name != "5.20 % RE (IVA 21.00%)" {
		t.Errorf("re name = %q, want \"5.20 %% RE (IVA 21.00%%)\"", totals.RE[0].Name)
	}
	if totals.RE[0].Amount != "5.20" {
		t.Errorf("re amount = %s, want 5.20", totals.RE[0].Amount)
	}
	if totals.Subtotal == nil || totals.Subtotal.Amount != "121.00" {
		t.Fatalf("subtotal = %+v, want {Subtotal 121.00}", totals.Subtotal)
	}
	if totals.Total.Amount != "126.20" {
		t.Errorf("total = %s, want 126.20 (subtotal + 5.20)", totals.Total.Amount)
	}
}

func TestCalculateTotalsRecargoSortedByIVARate(t *testing.T) {
	items := []models.BudgetTreeItem{
		taxedItem("1.1", "121,00", "21,00"),
		taxedItem("1.2", "110,00", "10,00"),
	}
	budget := &models.Budget{
		JSONBudgetData: json.RawMessage(`{"items":[],"recargo":{"aplica":true,"reByIVA":{"21":5.2,"10":1.4}}}`),
	}

	totals := CalculateTotals(items, budget)

	if len(totals.RE) != 2 {
		t.Fatalf("got %d re lines, want 2", len(totals.RE))
	}
	if totals.RE[0].Amount != "1.40" || totals.RE[1].Amount != "5.20" {
		t.Errorf("re lines out of order: %+v", totals.RE)
	}
	if totals.Total.Amount != "237.60" {
		t.Errorf("total = %s, want 237.60", totals.Total.Amount)
	}
}

func TestCalculateTotalsRecargoNotApplied(t *testing.T) {
	items := []models.BudgetTreeItem{taxedItem("1.1", "121,00", "21,00")}
	budget := &models.Budget{
		JSONBudgetData: json.RawMessage(`{"items":[],"recargo":{"aplica":false,"reByIVA":{"21":5.2}}}`),
	}

	totals := CalculateTotals(items, budget)
	if totals.RE != nil || totals.Subtotal != nil {
		t.Errorf("recargo applied despite aplica=false: %+v", totals.RE)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil, &models.Budget{})

	if totals.Base != "0.00" {
		t.Errorf("base = %s, want 0.00", totals.Base)
	}
	if len(totals.IVAs) != 0 {
		t.Errorf("ivas = %+v, want empty", totals.IVAs)
	}
	if totals.Total.Amount != "0.00" {
		t.Errorf("total = %s, want 0.00", totals.Total.Amount)
	}
	if totals.Subtotal != nil {
		t.Errorf("subtotal = %+v, want omitted", totals.Subtotal)
	}
}

// For a gross amount A at rate r, the extracted VAT v = A*r/(100+r) and
// base b = A-v must satisfy b*(1+r/100) == A within 2-decimal rounding.
func TestVATExtractionRoundTrip(t *testing.T) {
	cases := []struct {
		amount string
		rate   string
	}{
		{"121,00", "21,00"},
		{"100,00", "21,00"},
		{"57,37", "10,00"},
		{"1.234,56", "4,00"},
		{"0,03", "21,00"},
	}

	cent := decimal.NewFromFloat(0.01)
	for _, tc := range cases {
		items := []models.BudgetTreeItem{taxedItem("1.1", tc.amount, tc.rate)}
		totals := CalculateTotals(items, &models.Budget{})

		base := ParseNumber(totals.Base)
		rate := ParseNumber(tc.rate)
		amount := ParseNumber(tc.amount)

		rebuilt := base.Mul(decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100))))
		if rebuilt.Sub(amount).Abs().GreaterThan(cent) {
			t.Errorf("amount %s rate %s: base %s rebuilds to %s, want ~%s",
				tc.amount, tc.rate, totals.Base, rebuilt.StringFixed(4), amount)
		}
	}
}
