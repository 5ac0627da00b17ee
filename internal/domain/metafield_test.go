package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMetafield(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"bare string", "Beef", []string{"Beef"}},
		{"csv", "braai, sunday roast ,,weeknight", []string{"braai", "sunday roast", "weeknight"}},
		{"json array", `["braai","Sunday Roast"]`, []string{"braai", "Sunday Roast"}},
		{"json array with blanks", `["braai", "", " "]`, []string{"braai"}},
		{"json array of numbers", `[1, 2]`, []string{"1", "2"}},
		{"malformed json", `["braai", "weeknight"`, []string{"braai", "weeknight"}},
		{"empty json array", `[]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMetafield(tt.raw))
		})
	}
}

func TestFacetValuesFromMetafield_SlugsAndDedupes(t *testing.T) {
	assert.Equal(t, []string{"sunday-roast", "braai"}, FacetValuesFromMetafield(`["Sunday Roast","braai","BRAAI"]`))
	assert.Nil(t, FacetValuesFromMetafield(""))
}

func TestApplyFacetMetafields(t *testing.T) {
	var p Product
	p.ApplyFacetMetafields(map[string]string{
		MetafieldDepartment: "Butchery",
		MetafieldMeatType:   "Beef, Lamb",
		MetafieldCutFamily:  `["Steaks"]`,
		MetafieldOccasion:   `["Braai","Sunday Roast"]`,
	})

	assert.Equal(t, DepartmentButchery, p.Department)
	assert.Equal(t, "beef", p.MeatType)
	assert.Equal(t, "steaks", p.CutFamily)
	assert.Equal(t, []string{"braai", "sunday-roast"}, p.Occasion)
	assert.Empty(t, p.DeliType)
}
