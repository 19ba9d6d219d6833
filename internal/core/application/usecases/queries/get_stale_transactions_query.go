package queries

import (
	"errors"
	"time"

	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

var ErrGetStaleTransactionsQueryIsNotConstructed = errors.New(
	"GetStaleTransactionsQuery must be created via NewGetStaleTransactionsQuery constructor",
)

// GetStaleTransactionsQuery retrieves InProgress transactions created before
// a cutoff. The watchdog job uses it to surface transactions that were
// opened and then forgotten.
type GetStaleTransactionsQuery struct {
	olderThan time.Time
	limit     int

	guard guard.ConstructorGuard
}

// NewGetStaleTransactionsQuery creates a stale-transaction query.
func NewGetStaleTransactionsQuery(olderThan time.Time, limit int) (GetStaleTransactionsQuery, error) {
	if olderThan.IsZero() {
		return GetStaleTransactionsQuery{}, errs.NewValueIsRequiredError("olderThan")
	}
	if limit < 1 {
		return GetStaleTransactionsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, nil)
	}

	return GetStaleTransactionsQuery{
		olderThan: olderThan,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStaleTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleTransactionsQueryIsNotConstructed)
}

// OlderThan returns the creation-time cutoff.
func (q GetStaleTransactionsQuery) OlderThan() time.Time {
	return q.olderThan
}

// Limit returns the maximum number of rows to return.
func (q GetStaleTransactionsQuery) Limit() int {
	return q.limit
}
