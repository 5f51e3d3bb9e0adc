package domain

import "strings"

// departments is the closed set of category labels a vendor can be
// classified into. The order is fixed and is the order the labels are
// presented to the model.
var departments = []string{
	"Engineering",
	"Facilities",
	"G&A",
	"Legal",
	"M&A",
	"Marketing",
	"SaaS",
	"Product",
	"Professional Services",
	"Sales",
	"Support",
	"Finance",
}

// Departments returns the fixed department taxonomy in presentation order.
func Departments() []string {
	out := make([]string, len(departments))
	copy(out, departments)
	return out
}

// ResolveDepartment matches a model-returned label against the taxonomy,
// ignoring case and surrounding whitespace, and returns the canonical label.
// The second return value is false when the label is not a member.
func ResolveDepartment(label string) (string, bool) {
	norm := strings.ToUpper(strings.TrimSpace(label))
	for _, d := range departments {
		if strings.ToUpper(d) == norm {
			return d, true
		}
	}
	return "", false
}
