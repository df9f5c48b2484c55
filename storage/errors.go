package storage

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports every required column missing from one input dataset.
// It is fatal: the pipeline aborts before any computation when any input has
// a schema error.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	cols := append([]string(nil), e.Missing...)
	sort.Strings(cols)
	return fmt.Sprintf("%s is missing required columns: %s", e.Dataset, strings.Join(cols, ", "))
}

// validateColumns returns a SchemaError naming every required column absent
// from the header set, or nil.
func validateColumns(dataset string, headers map[string]int, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := headers[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Dataset: dataset, Missing: missing}
	}
	return nil
}
