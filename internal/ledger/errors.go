package ledger

import "fmt"

// InsufficientPointsError is returned by purchase attempts that cannot be
// covered by the current balance. No state is mutated when it is returned.
type InsufficientPointsError struct {
	Cost    int
	Balance int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need %d, have %d (short %d)", e.Cost, e.Balance, e.Shortfall())
}

// Shortfall is how many more points the purchase needs.
func (e *InsufficientPointsError) Shortfall() int {
	return e.Cost - e.Balance
}
