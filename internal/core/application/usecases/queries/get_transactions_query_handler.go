package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTransactionsQueryHandler retrieves transaction listings from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern;
// the picked count is derived from the claimed-package rows, never cached.
type GetTransactionsQueryHandler struct {
	db *gorm.DB
}

// NewGetTransactionsQueryHandler creates a handler for transaction listing queries.
// Requires a GORM database connection for query execution.
func NewGetTransactionsQueryHandler(db *gorm.DB) GetTransactionsQueryHandler {
	return GetTransactionsQueryHandler{db: db}
}

// Handle executes the listing query and returns one page plus the unpaged total.
func (h GetTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetTransactionsQuery,
) (GetTransactionsResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTransactionsResponse{}, err
	}

	where, args := h.buildFilter(query)

	var total int64
	err := h.db.WithContext(ctx).Raw(
		"SELECT COUNT(*) FROM package_transactions"+where, args...,
	).Scan(&total).Error
	if err != nil {
		return GetTransactionsResponse{}, err
	}

	direction := "DESC"
	if query.Order() == OrderAsc {
		direction = "ASC"
	}

	listSQL := fmt.Sprintf(`
		SELECT
			t.id,
			t.code,
			t.packing_list_id,
			t.flow,
			t.party_name,
			t.party_type,
			t.status,
			(SELECT COUNT(*) FROM transaction_packages tp WHERE tp.transaction_id = t.id) AS picked_count,
			t.created_at,
			t.ended_at
		FROM package_transactions t
		%s
		ORDER BY t.created_at %s
		LIMIT ? OFFSET ?
	`, where, direction)

	listArgs := append(args, query.PageSize(), (query.Page()-1)*query.PageSize())

	rows, err := h.db.WithContext(ctx).Raw(listSQL, listArgs...).Rows()
	if err != nil {
		return GetTransactionsResponse{}, err
	}
	defer rows.Close()

	items := make([]TransactionResponse, 0)
	for rows.Next() {
		var item TransactionResponse
		var id, packingListID uuid.UUID
		var partyType string
		var status int
		var createdAt time.Time
		var endedAt *time.Time

		err = rows.Scan(
			&id,
			&item.Code,
			&packingListID,
			&item.FlowName,
			&item.PartyName,
			&partyType,
			&status,
			&item.PickedCount,
			&createdAt,
			&endedAt,
		)
		if err != nil {
			return GetTransactionsResponse{}, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetTransactionsResponse{}, idErr
		}
		item.ID = itemID

		listID, idErr := kernel.UUIDFromBytes(packingListID[:])
		if idErr != nil {
			return GetTransactionsResponse{}, idErr
		}
		item.PackingListID = listID

		item.PartyType = partyType
		item.Status = transaction.Status(status).String()
		item.CreatedAt = createdAt
		item.EndedAt = endedAt

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return GetTransactionsResponse{}, err
	}

	return GetTransactionsResponse{Items: items, Total: total}, nil
}

// buildFilter assembles the WHERE clause from the optional query filters.
func (h GetTransactionsQueryHandler) buildFilter(query GetTransactionsQuery) (string, []interface{}) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if query.PackingListID() != nil {
		conditions = append(conditions, "packing_list_id = ?")
		args = append(args, query.PackingListID().Bytes())
	}
	if query.FlowName() != nil {
		conditions = append(conditions, "flow = ?")
		args = append(args, *query.FlowName())
	}
	if query.Status() != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, int(*query.Status()))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
