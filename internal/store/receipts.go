package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kiosk-service/internal/models"
)

type receiptRow struct {
	models.Receipt
	LinesJSON        []byte `db:"lines"`
	StockChangesJSON []byte `db:"stock_changes"`
}

func (r *receiptRow) decode() (*models.Receipt, error) {
	receipt := r.Receipt
	if err := json.Unmarshal(r.LinesJSON, &receipt.Lines); err != nil {
		return nil, fmt.Errorf("decode lines of receipt %d: %w", receipt.TransactionID, err)
	}
	if err := json.Unmarshal(r.StockChangesJSON, &receipt.StockChanges); err != nil {
		return nil, fmt.Errorf("decode stock changes of receipt %d: %w", receipt.TransactionID, err)
	}
	return &receipt, nil
}

// SaveReceipt journals a receipt. It returns false when a receipt for the
// same transaction is already stored.
func (s *Store) SaveReceipt(ctx context.Context, receipt models.Receipt) (bool, error) {
	lines, err := json.Marshal(receipt.Lines)
	if err != nil {
		return false, err
	}
	changes, err := json.Marshal(receipt.StockChanges)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO receipts (transaction_id, created_at, completed_at, item_count, total_quantity,
			total, amount_paid, change_due, lines, stock_changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query,
		receipt.TransactionID, receipt.CreatedAt, receipt.CompletedAt,
		receipt.ItemCount, receipt.TotalQuantity,
		receipt.Total, receipt.AmountPaid, receipt.Change,
		string(lines), string(changes))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetReceipt retrieves a receipt by transaction ID
func (s *Store) GetReceipt(ctx context.Context, transactionID int64) (*models.Receipt, error) {
	var row receiptRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM receipts WHERE transaction_id = $1", transactionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt not found: %d", transactionID)
	}
	if err != nil {
		return nil, err
	}
	return row.decode()
}

// ListReceipts retrieves the most recent receipts, newest first
func (s *Store) ListReceipts(ctx context.Context, limit int) ([]models.Receipt, error) {
	var rows []receiptRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM receipts ORDER BY completed_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}

	receipts := make([]models.Receipt, 0, len(rows))
	for i := range rows {
		r, err := rows[i].decode()
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *r)
	}
	return receipts, nil
}
