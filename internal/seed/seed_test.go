package seed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate_CountAndDepartments(t *testing.T) {
	products := Generate(200, 42, fixedNow)
	require.Len(t, products, 200)

	counts := map[string]int{}
	for _, p := range products {
		counts[p.Department]++
		assert.True(t, domain.IsDepartment(p.Department))
	}
	assert.Equal(t, 90, counts[domain.DepartmentButchery])
	assert.Equal(t, 40, counts[domain.DepartmentDeliBiltong])
	assert.Equal(t, 30, counts[domain.DepartmentSpicesSauces])
	assert.Equal(t, 20, counts[domain.DepartmentBraaiGear])
	assert.Equal(t, 20, counts[domain.DepartmentGroceries])
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(50, 7, fixedNow)
	b := Generate(50, 7, fixedNow)
	assert.Equal(t, a, b)

	c := Generate(50, 8, fixedNow)
	assert.NotEqual(t, a, c)
}

func TestGenerate_UniqueHandlesAndPositions(t *testing.T) {
	products := Generate(300, 1, fixedNow)
	handles := map[string]bool{}
	for i, p := range products {
		assert.False(t, handles[p.Handle], "duplicate handle %s", p.Handle)
		handles[p.Handle] = true
		assert.Equal(t, i, p.Position)
		assert.NotEmpty(t, p.Variants)
		assert.True(t, p.PriceMin.LessThanOrEqual(p.PriceMax))
	}
}

func TestGenerate_ButcheryPricedPerKg(t *testing.T) {
	products := Generate(20, 3, fixedNow)
	p := products[0]
	require.Equal(t, domain.DepartmentButchery, p.Department)
	require.NotNil(t, p.PricePerKg)
	require.Len(t, p.Variants, 3)

	half := p.PricePerKg.Mul(decimal.RequireFromString("0.5")).Round(2)
	assert.True(t, half.Equal(p.Variants[0].Price), "500g should cost half the per-kg price")

	kg, ok := p.Variants[1].WeightKg()
	require.True(t, ok)
	assert.True(t, kg.Equal(decimal.NewFromInt(1)))

	assert.NotEmpty(t, p.FacetValues(domain.FacetMeatType))
	assert.NotEmpty(t, p.FacetValues(domain.FacetCutFamily))
	assert.Len(t, p.FacetValues(domain.FacetOccasion), 1)
}

func TestGenerate_UnitPricedDepartments(t *testing.T) {
	for _, p := range Generate(100, 5, fixedNow) {
		if p.Department == domain.DepartmentButchery {
			continue
		}
		assert.Nil(t, p.PricePerKg, p.Handle)
		assert.Len(t, p.Variants, 1, p.Handle)
		assert.False(t, p.CreatedAt.After(fixedNow))
	}
}
