package domain

import (
	"slices"
	"strings"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/slug"
)

// FilterState maps each facet to the values a shopper selected, in selection
// order. Department is single-select; every other facet is multi-select.
type FilterState map[FacetKey][]string

// Department returns the active department or "".
func (f FilterState) Department() string {
	for _, v := range f[FacetDepartment] {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty reports whether no facet has a selection.
func (f FilterState) IsEmpty() bool {
	for _, vals := range f {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether both states select the same values in the same order.
// Facets with no selection are ignored.
func (f FilterState) Equal(other FilterState) bool {
	for _, k := range FacetKeys {
		if !slices.Equal(f[k], other[k]) {
			return false
		}
	}
	for k, v := range f {
		if !IsFacetKey(k) && len(v) > 0 {
			return false
		}
	}
	for k, v := range other {
		if !IsFacetKey(k) && len(v) > 0 {
			return false
		}
	}
	return true
}

// NewFilterState builds a FilterState from raw per-facet values as they come
// off a query string: entries may be comma-joined, are slugged, and empty or
// duplicate entries are dropped. Unknown keys are ignored. The result is not
// sanitized.
func NewFilterState(raw map[FacetKey][]string) FilterState {
	f := FilterState{}
	for _, k := range FacetKeys {
		var vals []string
		for _, entry := range raw[k] {
			for _, part := range strings.Split(entry, ",") {
				if v := slug.Generate(part); v != "" && !slices.Contains(vals, v) {
					vals = append(vals, v)
				}
			}
		}
		if len(vals) > 0 {
			f[k] = vals
		}
	}
	return f
}

// Sanitize makes f consistent with a single department: facets outside the
// active department are cleared. With no department, the department owning the
// first selected facet (in FacetKeys order) is inferred and applied. A state
// with no selections comes back empty. Sanitize is idempotent.
func Sanitize(f FilterState) FilterState {
	if dep := f.Department(); dep != "" {
		out := FilterState{FacetDepartment: {dep}}
		for _, k := range FacetKeys {
			if k == FacetDepartment || !allowedIn(dep, k) {
				continue
			}
			if vals := dedupe(f[k]); len(vals) > 0 {
				out[k] = vals
			}
		}
		return out
	}

	for _, k := range FacetKeys {
		if len(dedupe(f[k])) == 0 {
			continue
		}
		if dep, ok := DepartmentOf(k); ok {
			inferred := f.Clone()
			inferred[FacetDepartment] = []string{dep}
			return Sanitize(inferred)
		}
	}
	return FilterState{}
}

func dedupe(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
