// Package appliance defines the household appliance domains: their closed
// state and event enumerations, priority tables, transition functions and
// output tables.
//
// Event kinds are declared in priority order: the declaration ordinal is the
// rank used to apply events that share an instant.
package appliance

import (
	"fmt"
	"strings"

	"github.com/hemsim/hemsim/sim"
)

func enumName(names []string, i int, typ string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, i)
	}
	return names[i]
}

// parseKind looks name up case-insensitively among kinds.
func parseKind[K sim.Kind](domain, name string, kinds []K) (K, error) {
	for _, k := range kinds {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	var zero K
	return zero, fmt.Errorf("%s event %q: %w", domain, name, sim.ErrUnknownKind)
}
