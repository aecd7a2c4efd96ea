// Package status fixes the closed vocabulary of order statuses. There is no
// enforced workflow: any status may be set to any other status by an
// authorized edit, the vocabulary itself is the only constraint.
package status

import (
	"fmt"

	"github.com/craftline/orderdesk/internal/apperrors"
)

type Status string

const (
	Pending   Status = "pending"
	InDesign  Status = "in-design"
	Completed Status = "completed"
	Rejected  Status = "rejected"
)

// Default is the status a new order gets when none is supplied.
const Default = Pending

var all = []Status{Pending, InDesign, Completed, Rejected}

// labels carries the human-readable names per language. The source app is
// bilingual English/Arabic.
var labels = map[Status]map[string]string{
	Pending:   {"en": "Pending", "ar": "قيد الانتظار"},
	InDesign:  {"en": "In Design", "ar": "قيد التصميم"},
	Completed: {"en": "Completed", "ar": "مكتمل"},
	Rejected:  {"en": "Rejected", "ar": "مرفوض"},
}

func All() []Status {
	out := make([]Status, len(all))
	copy(out, all)
	return out
}

func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the display name for lang, falling back to English and then
// to the raw value.
func (s Status) Label(lang string) string {
	m, ok := labels[s]
	if !ok {
		return string(s)
	}
	if l, ok := m[lang]; ok {
		return l
	}
	return m["en"]
}

// Parse checks s against the fixed vocabulary. An empty string parses to the
// default; anything else outside the set fails with InvalidStatus.
func Parse(s string) (Status, error) {
	if s == "" {
		return Default, nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, s)
	}
	return st, nil
}
