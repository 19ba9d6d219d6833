package queries

import (
	"context"
	"time"

	"freightops/internal/core/domain/model/kernel"
	"freightops/internal/core/domain/model/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStaleTransactionsQueryHandler retrieves stale transactions from the database.
type GetStaleTransactionsQueryHandler struct {
	db *gorm.DB
}

// NewGetStaleTransactionsQueryHandler creates a handler for stale-transaction queries.
func NewGetStaleTransactionsQueryHandler(db *gorm.DB) GetStaleTransactionsQueryHandler {
	return GetStaleTransactionsQueryHandler{db: db}
}

// Handle executes the query and returns stale transactions oldest first.
func (h GetStaleTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetStaleTransactionsQuery,
) ([]TransactionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
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
		WHERE t.status = ? AND t.created_at < ?
		ORDER BY t.created_at ASC
		LIMIT ?
	`, int(transaction.InProgress), query.OlderThan(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TransactionResponse, 0)
	for rows.Next() {
		var item TransactionResponse
		var id, packingListID uuid.UUID
		var status int
		var createdAt time.Time
		var endedAt *time.Time

		err = rows.Scan(
			&id,
			&item.Code,
			&packingListID,
			&item.FlowName,
			&item.PartyName,
			&item.PartyType,
			&status,
			&item.PickedCount,
			&createdAt,
			&endedAt,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID

		listID, idErr := kernel.UUIDFromBytes(packingListID[:])
		if idErr != nil {
			return nil, idErr
		}
		item.PackingListID = listID

		item.Status = transaction.Status(status).String()
		item.CreatedAt = createdAt
		item.EndedAt = endedAt

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
