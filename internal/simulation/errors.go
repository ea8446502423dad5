package simulation

import (
	"fmt"
)

// InvariantError aborts a run. It names the loan so the failing draw can
// be reproduced from the seed.
type InvariantError struct {
	Index     int
	LoanID    string
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("loan %d (id %s): %s: %s", e.Index, e.LoanID, e.Invariant, e.Detail)
}
