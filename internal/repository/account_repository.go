package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"papertrade/internal/domain"
)

// AccountRepositoryImpl implements the AccountRepository interface. Snapshots
// are stored normalized: balance on the user row, one row per open position,
// one row per transaction with a serial column preserving append order.
type AccountRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Load retrieves the persisted snapshot for a user.
func (r *AccountRepositoryImpl) Load(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{UserID: userID}

	err := r.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&snap.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	positions, err := r.loadPositions(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap.Positions = positions

	transactions, err := r.loadTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap.Transactions = transactions

	return snap, nil
}

// Save persists a snapshot and the transactions appended since the previous
// save, in a single database transaction so a failed commit leaves no
// partial write.
func (r *AccountRepositoryImpl) Save(ctx context.Context, snap *domain.Snapshot, appended []domain.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`,
		snap.Balance, snap.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM positions WHERE user_id = $1`, snap.UserID); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}

	for _, pos := range snap.Positions {
		_, err := tx.Exec(ctx, `
			INSERT INTO positions (user_id, symbol, shares, avg_price, total_cost)
			VALUES ($1, $2, $3, $4, $5)
		`, snap.UserID, pos.Symbol, pos.Shares, pos.AvgPrice, pos.TotalCost)
		if err != nil {
			return fmt.Errorf("failed to insert position %s: %w", pos.Symbol, err)
		}
	}

	for _, t := range appended {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (id, user_id, symbol, type, shares, price, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, t.ID, t.UserID, t.Symbol, t.Type, t.Shares, t.Price, t.Total, t.Date)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// CountTransactions returns the total number of transactions across all users
func (r *AccountRepositoryImpl) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *AccountRepositoryImpl) loadPositions(ctx context.Context, userID uuid.UUID) ([]domain.Position, error) {
	rows, err := r.db.Query(ctx, `
		SELECT symbol, shares, avg_price, total_cost
		FROM positions
		WHERE user_id = $1
		ORDER BY symbol ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		pos := domain.Position{}
		if err := rows.Scan(&pos.Symbol, &pos.Shares, &pos.AvgPrice, &pos.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		// Derived valuation fields are not authoritative in storage; they are
		// refreshed against current prices after restore.
		pos.CurrentValue = pos.TotalCost
		pos.ProfitLoss = 0
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

func (r *AccountRepositoryImpl) loadTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, symbol, type, shares, price, total, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Type, &t.Shares, &t.Price, &t.Total, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
