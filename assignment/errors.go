package assignment

import "fmt"

// DemandError reports a malformed demand entry, caught before the scan
// starts rather than surfacing as a panic mid-run.
type DemandError struct {
	Index  int
	Reason string
}

func (e *DemandError) Error() string {
	return fmt.Sprintf("assignment: demand entry %d: %s", e.Index, e.Reason)
}
