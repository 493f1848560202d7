// ============================================================================
// internal/shared/departments.go
// Department code registry and aggregate collection mapping
// ============================================================================

package shared

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultDepartment is assigned when a roster row carries no department
	// code. It is also the department the "ALL" aggregate alias resolves to.
	DefaultDepartment = "CT"

	// AggregateAll is the pseudo-department accepted by the aggregate read.
	// It aliases the default department's collection rather than producing a
	// union across departments; the admin dashboard depends on this behavior.
	AggregateAll = "ALL"
)

// departmentNames is the closed set of department codes. Collection names
// are derived from these at startup; request-time input never constructs a
// collection identifier.
var departmentNames = map[string]string{
	"CE":  "Civil Engineering",
	"ME":  "Mechanical Engineering",
	"MES": "Mechanical Engineering (Sandwich)",
	"AE":  "Automobile Engineering",
	"RAC": "Mechanical Engineering (R & AC)",
	"MC":  "Mechatronics",
	"ECE": "Electronics & Communication Engineering",
	"EEE": "Electrical & Electronics Engineering",
	"CT":  "Computer Engineering",
	"TT":  "Textile Technology",
	"PT":  "Printing Technology",
	"CCN": "Communication & Computer Networking",
}

// DepartmentRegistry resolves department codes to their per-department
// aggregate collections. Unknown codes are rejected instead of being turned
// into collection names.
type DepartmentRegistry struct {
	collections map[string]string
}

// NewDepartmentRegistry builds the registry from the static department set.
func NewDepartmentRegistry() *DepartmentRegistry {
	collections := make(map[string]string, len(departmentNames))
	for code := range departmentNames {
		collections[code] = strings.ToLower(code) + "_feedback"
	}
	return &DepartmentRegistry{collections: collections}
}

// Resolve maps a department code (case-insensitive) to its aggregate
// collection. "ALL" resolves to the default department's collection.
func (r *DepartmentRegistry) Resolve(code string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if upper == AggregateAll {
		upper = DefaultDepartment
	}

	collection, ok := r.collections[upper]
	if !ok {
		return "", NewError(KindValidation, fmt.Sprintf("Unknown department code: %s", code))
	}
	return collection, nil
}

// Codes returns the known department codes in sorted order.
func (r *DepartmentRegistry) Codes() []string {
	codes := make([]string, 0, len(r.collections))
	for code := range r.collections {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DepartmentName returns the display name for a department code.
func DepartmentName(code string) string {
	return departmentNames[strings.ToUpper(code)]
}
