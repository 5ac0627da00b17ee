package domain

import (
	"slices"
)

// FacetKey names a filterable product attribute.
type FacetKey string

const (
	FacetDepartment      FacetKey = "department"
	FacetMeatType        FacetKey = "meatType"
	FacetCutFamily       FacetKey = "cutFamily"
	FacetOccasion        FacetKey = "occasion"
	FacetBulkType        FacetKey = "bulkType"
	FacetDeliType        FacetKey = "deliType"
	FacetSpiceFamily     FacetKey = "spiceFamily"
	FacetBraaiGearFamily FacetKey = "braaiGearFamily"
	FacetGroceryFamily   FacetKey = "groceryFamily"
)

// FacetKeys lists every facet in display order. Department inference walks
// this order, so it also decides which facet wins when several departments
// are implied at once.
var FacetKeys = []FacetKey{
	FacetDepartment,
	FacetMeatType,
	FacetCutFamily,
	FacetOccasion,
	FacetBulkType,
	FacetDeliType,
	FacetSpiceFamily,
	FacetBraaiGearFamily,
	FacetGroceryFamily,
}

// Department values.
const (
	DepartmentButchery     = "butchery"
	DepartmentDeliBiltong  = "deli-biltong"
	DepartmentSpicesSauces = "spices-sauces"
	DepartmentBraaiGear    = "braai-gear"
	DepartmentGroceries    = "groceries"
)

var departmentFacets = map[string][]FacetKey{
	DepartmentButchery:     {FacetMeatType, FacetCutFamily, FacetOccasion, FacetBulkType},
	DepartmentDeliBiltong:  {FacetDeliType},
	DepartmentSpicesSauces: {FacetSpiceFamily},
	DepartmentBraaiGear:    {FacetBraaiGearFamily},
	DepartmentGroceries:    {FacetGroceryFamily},
}

// facetDepartment is the inverse of departmentFacets.
var facetDepartment = func() map[FacetKey]string {
	m := make(map[FacetKey]string)
	for dep, keys := range departmentFacets {
		for _, k := range keys {
			m[k] = dep
		}
	}
	return m
}()

// IsFacetKey reports whether k is a known facet.
func IsFacetKey(k FacetKey) bool {
	return slices.Contains(FacetKeys, k)
}

// IsDepartment reports whether v is a known department value.
func IsDepartment(v string) bool {
	_, ok := departmentFacets[v]
	return ok
}

// DepartmentOf returns the department that owns facet k.
func DepartmentOf(k FacetKey) (string, bool) {
	dep, ok := facetDepartment[k]
	return dep, ok
}

// VisibleFacetGroups returns the facet keys a shopper may use. With no
// department chosen only the department facet is offered; once one is chosen
// the department facet is followed by that department's own facets.
// Unknown departments expose nothing beyond the department facet.
func VisibleFacetGroups(activeDepartment string) []FacetKey {
	groups := []FacetKey{FacetDepartment}
	if activeDepartment == "" {
		return groups
	}
	return append(groups, departmentFacets[activeDepartment]...)
}

// allowedIn reports whether facet k may be non-empty while dep is active.
func allowedIn(dep string, k FacetKey) bool {
	return k == FacetDepartment || slices.Contains(departmentFacets[dep], k)
}
