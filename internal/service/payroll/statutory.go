package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
)

// RateTable holds the Jamaica statutory withholding rates in force from
// EffectiveFrom onwards. NIS is gross-based; education tax and PAYE apply to
// gross less the NIS contribution, with PAYE additionally reduced by the
// monthly income tax threshold.
type RateTable struct {
	EffectiveFrom time.Time
	NISRate       decimal.Decimal
	NHTRate       decimal.Decimal
	EdTaxRate     decimal.Decimal
	PAYERate      decimal.Decimal
	PAYEThreshold decimal.Decimal // monthly tax-free threshold
}

// DefaultRateTables returns the built-in rate history. Tables must be
// appended, never edited, so an old period recalculates with its own rates.
func DefaultRateTables() []RateTable {
	return []RateTable{
		{
			EffectiveFrom: time.Date(2016, time.April, 1, 0, 0, 0, 0, time.UTC),
			NISRate:       decimal.NewFromFloat(0.03),
			NHTRate:       decimal.NewFromFloat(0.02),
			EdTaxRate:     decimal.NewFromFloat(0.0225),
			PAYERate:      decimal.NewFromFloat(0.25),
			PAYEThreshold: decimal.NewFromInt(125000),
		},
	}
}

// Calculator resolves the rate table applicable to a period and computes the
// statutory breakdown for one employee's month.
type Calculator struct {
	tables []RateTable // sorted ascending by EffectiveFrom
}

func NewCalculator(tables []RateTable) *Calculator {
	sorted := make([]RateTable, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})
	return &Calculator{tables: sorted}
}

// TableFor returns the most recent table effective on or before the last day
// of the period.
func (c *Calculator) TableFor(periodEnd time.Time) (RateTable, error) {
	for i := len(c.tables) - 1; i >= 0; i-- {
		if !c.tables[i].EffectiveFrom.After(periodEnd) {
			return c.tables[i], nil
		}
	}
	return RateTable{}, payroll.ErrRateTableNotEffective
}

// Compute applies the statutory sequence to a gross and non-statutory
// deduction total. Each intermediate withholding is floored at zero; the net
// is not, a heavily-deducted month may legitimately owe the employee nothing.
func Compute(gross, deductions decimal.Decimal, rates RateTable) payroll.StatutoryBreakdown {
	zero := decimal.Zero

	nis := gross.Mul(rates.NISRate)
	if nis.IsNegative() {
		nis = zero
	}
	nht := gross.Mul(rates.NHTRate)
	if nht.IsNegative() {
		nht = zero
	}

	statutoryIncome := gross.Sub(nis)

	edTax := statutoryIncome.Mul(rates.EdTaxRate)
	if edTax.IsNegative() {
		edTax = zero
	}

	paye := statutoryIncome.Sub(rates.PAYEThreshold).Mul(rates.PAYERate)
	if paye.IsNegative() {
		paye = zero
	}

	totalTax := nis.Add(nht).Add(edTax).Add(paye)

	return payroll.StatutoryBreakdown{
		Gross:      gross,
		Deductions: deductions,
		NIS:        nis,
		NHT:        nht,
		EdTax:      edTax,
		PAYE:       paye,
		TotalTax:   totalTax,
		Net:        gross.Sub(deductions).Sub(totalTax),
	}
}
