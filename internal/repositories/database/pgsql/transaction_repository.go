package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsrepo "github.com/evalladares-t/transaction-service/internal/core/ports/repositories"
	"github.com/evalladares-t/transaction-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates the repository for transaction records.
func NewPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction for DB storage
func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		Amount:               d.Amount,
		Created:              d.Created,
		TransactionType:      models.TransactionType(d.TransactionType),
		AccountID:            d.AccountID,
		DestinationAccountID: d.DestinationAccountID,
		CreditID:             d.CreditID,
		OwnerTransaction:     d.OwnerTransaction,
		Active:               d.Active,
	}
}

// Helper to convert models.Transaction from DB to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		Amount:               m.Amount,
		Created:              m.Created,
		TransactionType:      domain.TransactionType(m.TransactionType),
		AccountID:            m.AccountID,
		DestinationAccountID: m.DestinationAccountID,
		CreditID:             m.CreditID,
		OwnerTransaction:     m.OwnerTransaction,
		Active:               m.Active,
	}
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const transactionColumns = `transaction_id, amount, created, transaction_type, account_id, destination_account_id, credit_id, owner_transaction, active`

// InsertTransaction inserts a new transaction record.
func (r *PgxTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.Amount,
		modelTxn.Created,
		modelTxn.TransactionType,
		nullable(modelTxn.AccountID),
		nullable(modelTxn.DestinationAccountID),
		nullable(modelTxn.CreditID),
		modelTxn.OwnerTransaction,
		modelTxn.Active,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, modelTxn.TransactionID)
			}
		}
		return fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

// SaveTransaction upserts a transaction record, replacing every mutable field.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			transaction_type = EXCLUDED.transaction_type,
			account_id = EXCLUDED.account_id,
			destination_account_id = EXCLUDED.destination_account_id,
			credit_id = EXCLUDED.credit_id,
			owner_transaction = EXCLUDED.owner_transaction,
			active = EXCLUDED.active;
	`
	_, err := r.pool.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.Amount,
		modelTxn.Created,
		modelTxn.TransactionType,
		nullable(modelTxn.AccountID),
		nullable(modelTxn.DestinationAccountID),
		nullable(modelTxn.CreditID),
		modelTxn.OwnerTransaction,
		modelTxn.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var modelTxn models.Transaction
	var accountID, destinationAccountID, creditID sql.NullString

	err := row.Scan(
		&modelTxn.TransactionID,
		&modelTxn.Amount,
		&modelTxn.Created,
		&modelTxn.TransactionType,
		&accountID,
		&destinationAccountID,
		&creditID,
		&modelTxn.OwnerTransaction,
		&modelTxn.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	modelTxn.AccountID = accountID.String
	modelTxn.DestinationAccountID = destinationAccountID.String
	modelTxn.CreditID = creditID.String

	domainTxn := toDomainTransaction(modelTxn)
	return &domainTxn, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return txns, nil
}

// FindAllTransactions retrieves every stored transaction, newest first.
func (r *PgxTransactionRepository) FindAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created DESC;
	`
	return r.queryTransactions(ctx, query)
}

// FindTransactionsByAccountID retrieves transactions referencing the account.
func (r *PgxTransactionRepository) FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created DESC;
	`
	return r.queryTransactions(ctx, query, accountID)
}

// FindTransactionsByCreditID retrieves transactions referencing the credit line.
func (r *PgxTransactionRepository) FindTransactionsByCreditID(ctx context.Context, creditID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE credit_id = $1
		ORDER BY created DESC;
	`
	return r.queryTransactions(ctx, query, creditID)
}

// CountOwnerTransactionsInRange counts owner-flagged transactions for one
// account created within [start, end].
func (r *PgxTransactionRepository) CountOwnerTransactionsInRange(ctx context.Context, accountID string, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1
		  AND owner_transaction = TRUE
		  AND created BETWEEN $2 AND $3;
	`
	var count int64
	if err := r.pool.QueryRow(ctx, query, accountID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for account %s: %w", accountID, err)
	}
	return count, nil
}

// DeleteTransactionByID removes a transaction record.
func (r *PgxTransactionRepository) DeleteTransactionByID(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1;`

	tag, err := r.pool.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
