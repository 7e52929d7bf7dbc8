package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCompute(t *testing.T) {
	rates := DefaultRateTables()[0]

	tests := []struct {
		name       string
		gross      string
		deductions string
		wantNIS    string
		wantNHT    string
		wantEdTax  string
		wantPAYE   string
		wantTax    string
		wantNet    string
	}{
		{
			name:       "mid-range salary with deductions",
			gross:      "155000",
			deductions: "5000",
			wantNIS:    "4650",
			wantNHT:    "3100",
			wantEdTax:  "3382.875",
			wantPAYE:   "6337.5",
			wantTax:    "17470.375",
			wantNet:    "132529.625",
		},
		{
			name:       "below PAYE threshold pays no income tax",
			gross:      "100000",
			deductions: "0",
			wantNIS:    "3000",
			wantNHT:    "2000",
			wantEdTax:  "2182.5",
			wantPAYE:   "0",
			wantTax:    "7182.5",
			wantNet:    "92817.5",
		},
		{
			// NIS and NHT are flat rates on gross with no insurable-wage
			// ceiling, so a large salary still contributes proportionally.
			name:       "high salary contributes NIS on full gross",
			gross:      "1000000",
			deductions: "0",
			wantNIS:    "30000",
			wantNHT:    "20000",
		},
		{
			name:       "statutory income exactly at threshold",
			gross:      "128865.979381443298969072164948453608",
			deductions: "0",
			wantPAYE:   "0",
		},
		{
			name:       "zero gross",
			gross:      "0",
			deductions: "0",
			wantNIS:    "0",
			wantNHT:    "0",
			wantEdTax:  "0",
			wantPAYE:   "0",
			wantTax:    "0",
			wantNet:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(d(tt.gross), d(tt.deductions), rates)

			if tt.wantNIS != "" {
				assert.True(t, got.NIS.Equal(d(tt.wantNIS)), "NIS = %s, want %s", got.NIS, tt.wantNIS)
			}
			if tt.wantNHT != "" {
				assert.True(t, got.NHT.Equal(d(tt.wantNHT)), "NHT = %s, want %s", got.NHT, tt.wantNHT)
			}
			if tt.wantEdTax != "" {
				assert.True(t, got.EdTax.Equal(d(tt.wantEdTax)), "EdTax = %s, want %s", got.EdTax, tt.wantEdTax)
			}
			if tt.wantPAYE != "" {
				assert.True(t, got.PAYE.Equal(d(tt.wantPAYE)), "PAYE = %s, want %s", got.PAYE, tt.wantPAYE)
			}
			if tt.wantTax != "" {
				assert.True(t, got.TotalTax.Equal(d(tt.wantTax)), "TotalTax = %s, want %s", got.TotalTax, tt.wantTax)
			}
			if tt.wantNet != "" {
				assert.True(t, got.Net.Equal(d(tt.wantNet)), "Net = %s, want %s", got.Net, tt.wantNet)
			}
		})
	}
}

func TestComputeNetCanGoNegative(t *testing.T) {
	rates := DefaultRateTables()[0]

	got := Compute(d("150000"), d("160000"), rates)
	assert.True(t, got.Net.IsNegative(), "heavily deducted month should produce a negative net, got %s", got.Net)
}

func TestTableFor(t *testing.T) {
	old := RateTable{
		EffectiveFrom: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
		NISRate:       d("0.025"),
		NHTRate:       d("0.02"),
		EdTaxRate:     d("0.0225"),
		PAYERate:      d("0.25"),
		PAYEThreshold: d("50000"),
	}
	current := DefaultRateTables()[0]

	calc := NewCalculator([]RateTable{current, old})

	t.Run("period after latest table uses latest", func(t *testing.T) {
		got, err := calc.TableFor(time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, got.PAYEThreshold.Equal(current.PAYEThreshold))
	})

	t.Run("older period resolves to its own table", func(t *testing.T) {
		got, err := calc.TableFor(time.Date(2012, time.March, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, got.PAYEThreshold.Equal(old.PAYEThreshold))
	})

	t.Run("period before all tables fails", func(t *testing.T) {
		_, err := calc.TableFor(time.Date(2005, time.June, 30, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, payroll.ErrRateTableNotEffective)
	})
}
