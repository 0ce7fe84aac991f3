package zone

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Priority is the class of a zone. It is the only input to the mixing rules.
type Priority int

const (
	UnknownPriority Priority = iota
	// Primary zones belong to the main area the business is based in.
	Primary
	// Secondary zones are outlying areas.
	Secondary
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		UnknownPriority: "Unknown",
		Primary:         "Primary",
		Secondary:       "Secondary",
	}
}

// ParsePriority accepts the case-insensitive names "primary" and "secondary".
func ParsePriority(s string) (Priority, error) {
	for p, name := range getPriorityStrings() {
		if p != UnknownPriority && strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return UnknownPriority, errs.NewValueIsInvalidErrorWithCause(
		"priority is invalid",
		fmt.Errorf("%q is not a zone priority", s),
	)
}

func (p Priority) Validate() error {
	if p != Primary && p != Secondary {
		return errs.NewValueIsInvalidErrorWithCause(
			"priority is invalid",
			fmt.Errorf("%d is not a valid priority", p),
		)
	}
	return nil
}

func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "Unknown"
}
