// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"
	"freightops/internal/pkg/errs"
	"freightops/internal/pkg/guard"
)

var ErrGetTransactionsQueryIsNotConstructed = errors.New(
	"GetTransactionsQuery must be created via NewGetTransactionsQuery constructor",
)

const (
	// MinPageSize and MaxPageSize bound the page size accepted by listing queries.
	MinPageSize = 1
	MaxPageSize = 100

	// OrderAsc and OrderDesc are the accepted sort directions (by creation time).
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// GetTransactionsQuery retrieves a filtered, paginated page of transactions.
// All filters are optional; an empty query lists everything newest-first.
type GetTransactionsQuery struct {
	packingListID *kernel.UUID
	flowName      *string
	status        *transaction.Status
	page          int
	pageSize      int
	order         string

	guard guard.ConstructorGuard
}

// NewGetTransactionsQuery creates a listing query.
// Page numbering starts at 1; pageSize is bounded to [MinPageSize, MaxPageSize];
// order must be "asc" or "desc".
func NewGetTransactionsQuery(
	packingListID *kernel.UUID,
	flowName *string,
	status *transaction.Status,
	page, pageSize int,
	order string,
) (GetTransactionsQuery, error) {
	q := GetTransactionsQuery{
		packingListID: packingListID,
		flowName:      flowName,
		status:        status,
		guard:         guard.NewConstructorGuard(),
	}

	if page < 1 {
		return GetTransactionsQuery{}, errs.NewValueIsOutOfRangeError("page", page, 1, nil)
	}
	q.page = page

	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return GetTransactionsQuery{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, MinPageSize, MaxPageSize)
	}
	q.pageSize = pageSize

	if order != OrderAsc && order != OrderDesc {
		return GetTransactionsQuery{}, errs.NewValueIsInvalidError("order")
	}
	q.order = order

	if packingListID != nil {
		if err := packingListID.Validate(); err != nil {
			return GetTransactionsQuery{}, errs.NewValueIsRequiredErrorWithCause("packingListId", err)
		}
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetTransactionsQuery{}, err
		}
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetTransactionsQueryIsNotConstructed)
}

// PackingListID returns the packing list filter, or nil.
func (q GetTransactionsQuery) PackingListID() *kernel.UUID {
	return q.packingListID
}

// FlowName returns the flow filter, or nil.
func (q GetTransactionsQuery) FlowName() *string {
	return q.flowName
}

// Status returns the status filter, or nil.
func (q GetTransactionsQuery) Status() *transaction.Status {
	return q.status
}

// Page returns the 1-based page number.
func (q GetTransactionsQuery) Page() int {
	return q.page
}

// PageSize returns the page size.
func (q GetTransactionsQuery) PageSize() int {
	return q.pageSize
}

// Order returns the sort direction by creation time.
func (q GetTransactionsQuery) Order() string {
	return q.order
}

// TransactionResponse is one row of the transaction listing read model.
type TransactionResponse struct {
	ID            kernel.UUID
	Code          string
	PackingListID kernel.UUID
	FlowName      string
	PartyName     string
	PartyType     string
	Status        string
	PickedCount   int
	CreatedAt     time.Time
	EndedAt       *time.Time
}

// GetTransactionsResponse is a page of transactions plus the unpaged total.
type GetTransactionsResponse struct {
	Items []TransactionResponse
	Total int64
}
