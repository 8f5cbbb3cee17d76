package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsevents "github.com/evalladares-t/transaction-service/internal/core/ports/events"
	portsgw "github.com/evalladares-t/transaction-service/internal/core/ports/gateways"
	portsrepo "github.com/evalladares-t/transaction-service/internal/core/ports/repositories"
	portssvc "github.com/evalladares-t/transaction-service/internal/core/ports/services"
	"github.com/evalladares-t/transaction-service/internal/dto"
)

// transactionService is the core engine: it validates drafts, resolves the
// target product, applies per-account-type rules, triggers remote balance
// patches and persists the canonical transaction record.
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepository
	accountGw   portsgw.AccountGateway
	creditGw    portsgw.CreditGateway
	patchPolicy BalancePatchPolicy
	publisher   portsevents.TransactionPublisher
	clock       Clock
}

// TransactionServiceOption is a functional option for configuring the engine.
type TransactionServiceOption func(*transactionService)

// WithPatchPolicy overrides the balance-patch policy (default fire-and-forget).
func WithPatchPolicy(p BalancePatchPolicy) TransactionServiceOption {
	return func(s *transactionService) {
		s.patchPolicy = p
	}
}

// WithEventPublisher adds an optional transaction event publisher.
func WithEventPublisher(p portsevents.TransactionPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = p
	}
}

// WithClock overrides the engine's time source.
func WithClock(c Clock) TransactionServiceOption {
	return func(s *transactionService) {
		s.clock = c
	}
}

// NewTransactionService creates the transaction engine with the provided options.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepository,
	accountGw portsgw.AccountGateway,
	creditGw portsgw.CreditGateway,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:     txnRepo,
		accountGw:   accountGw,
		creditGw:    creditGw,
		patchPolicy: FireAndForgetPolicy{},
		clock:       SystemClock(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates a draft, dispatches on the targeted product and
// returns the persisted transaction(s): one record for single-product
// movements, both legs for a bank transfer.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) ([]domain.Transaction, error) {
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be non-zero", apperrors.ErrValidation)
	}

	draft := domain.Transaction{
		TransactionID:        uuid.NewString(),
		Amount:               req.Amount,
		Created:              s.clock.Now(),
		TransactionType:      req.TransactionType,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		CreditID:             req.CreditID,
		OwnerTransaction:     true,
		Active:               true,
	}

	product, ok := domain.ResolveProduct(draft)
	if !ok {
		return nil, fmt.Errorf("%w: exactly one of accountID and creditID must be set", apperrors.ErrValidation)
	}

	switch product.Kind {
	case domain.ProductCredit:
		txn, err := s.createCreditTransaction(ctx, draft)
		if err != nil {
			return nil, err
		}
		return []domain.Transaction{*txn}, nil
	case domain.ProductAccount:
		if draft.TransactionType == domain.BankTransfer {
			return s.createBankTransfer(ctx, draft)
		}
		txn, err := s.createAccountTransaction(ctx, draft)
		if err != nil {
			return nil, err
		}
		return []domain.Transaction{*txn}, nil
	default:
		return nil, fmt.Errorf("%w: unknown product kind %q", apperrors.ErrValidation, product.Kind)
	}
}

// createCreditTransaction runs the credit path: snapshot, activity and funds
// checks, balance patch, persist.
func (s *transactionService) createCreditTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	credit, err := s.creditGw.FetchCredit(ctx, txn.CreditID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch credit", slog.String("credit_id", txn.CreditID))
		return nil, err
	}

	if !credit.Active {
		s.LogWarn(ctx, "Credit line is not active", slog.String("credit_id", credit.CreditID))
		return nil, fmt.Errorf("%w: credit %s", apperrors.ErrProductInactive, credit.CreditID)
	}

	newBalance := credit.AmountAvailable.Add(txn.Amount)
	if newBalance.IsNegative() {
		s.LogWarn(ctx, "Insufficient funds on credit line", slog.String("credit_id", credit.CreditID))
		return nil, fmt.Errorf("%w: credit %s", apperrors.ErrInsufficientFunds, credit.CreditID)
	}

	err = s.patchPolicy.Apply(ctx, "credit "+credit.CreditID, func(ctx context.Context) error {
		_, err := s.creditGw.PatchCreditBalance(ctx, credit.CreditID, newBalance)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Credit balance patch failed", slog.String("credit_id", credit.CreditID))
		return nil, err
	}

	if err := s.txnRepo.InsertTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to insert credit transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.publishCreated(ctx, txn)
	s.LogInfo(ctx, "Credit transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("credit_id", txn.CreditID))
	return &txn, nil
}

// createAccountTransaction runs the single-account path: snapshot, validation
// by account type, balance patch, persist.
func (s *transactionService) createAccountTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	account, err := s.accountGw.FetchAccount(ctx, txn.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch account", slog.String("account_id", txn.AccountID))
		return nil, err
	}

	if err := s.validateWithAccount(ctx, *account, txn); err != nil {
		return nil, err
	}

	return s.processTransaction(ctx, *account, txn)
}

// validateWithAccount applies the activity, funds and per-type eligibility
// rules without persisting anything.
func (s *transactionService) validateWithAccount(ctx context.Context, account domain.Account, txn domain.Transaction) error {
	if !account.Active {
		s.LogWarn(ctx, "Account is not active", slog.String("account_id", account.AccountID))
		return fmt.Errorf("%w: account %s", apperrors.ErrProductInactive, account.AccountID)
	}

	if account.AmountAvailable.Add(txn.Amount).IsNegative() {
		s.LogWarn(ctx, "Insufficient funds for transaction", slog.String("account_id", account.AccountID))
		return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, account.AccountID)
	}

	switch account.AccountType {
	case domain.Saving:
		allowed, err := s.monthlyCountAvailable(ctx, account.AccountID, account.TransactionLimit)
		if err != nil {
			return err
		}
		if !allowed {
			s.LogWarn(ctx, "Monthly transaction limit reached",
				slog.String("account_id", account.AccountID),
				slog.Int("limit", account.TransactionLimit))
			return fmt.Errorf("%w: account %s allows %d per month", apperrors.ErrLimitExceeded, account.AccountID, account.TransactionLimit)
		}
		return nil
	case domain.Current:
		return nil
	default:
		// FIXED_TERM and anything unrecognized: one owner transaction per
		// month, only on the configured day.
		allowed, err := s.monthlyCountAvailable(ctx, account.AccountID, 1)
		if err != nil {
			return err
		}
		if !allowed {
			s.LogWarn(ctx, "Account already moved this month", slog.String("account_id", account.AccountID))
			return fmt.Errorf("%w: account %s allows one transaction per month", apperrors.ErrLimitExceeded, account.AccountID)
		}
		if !dateAllowed(s.clock.Now(), account.DateAllowedTransaction) {
			s.LogWarn(ctx, "Transaction date not allowed",
				slog.String("account_id", account.AccountID),
				slog.Int("allowed_day", account.DateAllowedTransaction))
			return fmt.Errorf("%w: account %s admits day %d only", apperrors.ErrDateNotAllowed, account.AccountID, account.DateAllowedTransaction)
		}
		return nil
	}
}

// monthlyCountAvailable reports whether the account's owner-transaction count
// in the current calendar month is below limit. The count and the later
// insert are not atomic; two concurrent requests can both pass.
func (s *transactionService) monthlyCountAvailable(ctx context.Context, accountID string, limit int) (bool, error) {
	start, end := monthRange(s.clock.Now())
	count, err := s.txnRepo.CountOwnerTransactionsInRange(ctx, accountID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to count monthly transactions", slog.String("account_id", accountID))
		return false, err
	}
	return int64(limit) > count, nil
}

// processTransaction issues the balance patch through the policy and persists
// the record. Failure conditions never reach this point.
func (s *transactionService) processTransaction(ctx context.Context, account domain.Account, txn domain.Transaction) (*domain.Transaction, error) {
	newBalance := account.AmountAvailable.Add(txn.Amount)
	err := s.patchPolicy.Apply(ctx, "account "+account.AccountID, func(ctx context.Context) error {
		_, err := s.accountGw.PatchAccountBalance(ctx, account.AccountID, newBalance)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Account balance patch failed", slog.String("account_id", account.AccountID))
		return nil, err
	}

	if err := s.txnRepo.InsertTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to insert transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.publishCreated(ctx, txn)
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("type", string(txn.TransactionType)))
	return &txn, nil
}

type destinationResult struct {
	txn *domain.Transaction
	err error
}

// createBankTransfer coordinates the two-leg transfer: the origin leg is
// validated and its balance patched, the destination account is fetched,
// patched and its mirrored leg persisted, both concurrently. The legs are
// joined only at the end; there is no ordering guarantee between the two
// balance patches or between a patch and its corresponding persist.
func (s *transactionService) createBankTransfer(ctx context.Context, origin domain.Transaction) ([]domain.Transaction, error) {
	if origin.DestinationAccountID == "" {
		return nil, fmt.Errorf("%w: bank transfer requires destinationAccountID", apperrors.ErrValidation)
	}
	if origin.AccountID == origin.DestinationAccountID {
		return nil, fmt.Errorf("%w: transfer origin and destination must differ", apperrors.ErrValidation)
	}

	// The origin leg debits.
	origin.Amount = origin.Amount.Neg()

	originCh := make(chan error, 1)
	go func() {
		account, err := s.accountGw.FetchAccount(ctx, origin.AccountID)
		if err != nil {
			originCh <- err
			return
		}
		if err := s.validateWithAccount(ctx, *account, origin); err != nil {
			originCh <- err
			return
		}
		newBalance := account.AmountAvailable.Add(origin.Amount)
		originCh <- s.patchPolicy.Apply(ctx, "account "+account.AccountID, func(ctx context.Context) error {
			_, err := s.accountGw.PatchAccountBalance(ctx, account.AccountID, newBalance)
			return err
		})
	}()

	destCh := make(chan destinationResult, 1)
	go func() {
		destAccount, err := s.accountGw.FetchAccount(ctx, origin.DestinationAccountID)
		if err != nil {
			destCh <- destinationResult{err: err}
			return
		}

		destTxn := mirrorTransaction(origin)
		newBalance := destAccount.AmountAvailable.Add(destTxn.Amount)
		err = s.patchPolicy.Apply(ctx, "account "+destAccount.AccountID, func(ctx context.Context) error {
			_, err := s.accountGw.PatchAccountBalance(ctx, destAccount.AccountID, newBalance)
			return err
		})
		if err != nil {
			destCh <- destinationResult{err: err}
			return
		}

		if err := s.txnRepo.InsertTransaction(ctx, destTxn); err != nil {
			destCh <- destinationResult{err: err}
			return
		}
		destCh <- destinationResult{txn: &destTxn}
	}()

	originErr := <-originCh
	dest := <-destCh

	if originErr != nil || dest.err != nil {
		err := errors.Join(originErr, dest.err)
		s.LogWarn(ctx, "Bank transfer rejected",
			slog.String("account_id", origin.AccountID),
			slog.String("destination_account_id", origin.DestinationAccountID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransferNotAllowed, err)
	}

	if err := s.txnRepo.InsertTransaction(ctx, origin); err != nil {
		s.LogError(ctx, err, "Failed to insert origin transfer leg", slog.String("transaction_id", origin.TransactionID))
		return nil, err
	}

	s.publishCreated(ctx, origin)
	s.publishCreated(ctx, *dest.txn)
	s.LogInfo(ctx, "Bank transfer created",
		slog.String("origin_transaction_id", origin.TransactionID),
		slog.String("destination_transaction_id", dest.txn.TransactionID))
	return []domain.Transaction{origin, *dest.txn}, nil
}

// mirrorTransaction builds the destination leg of a transfer: a fresh id, the
// absolute amount, swapped account references and the owner flag cleared so
// the receiver's monthly limit is unaffected.
func mirrorTransaction(origin domain.Transaction) domain.Transaction {
	dest := origin
	dest.TransactionID = uuid.NewString()
	dest.Amount = origin.Amount.Abs()
	dest.AccountID = origin.DestinationAccountID
	dest.DestinationAccountID = origin.AccountID
	dest.OwnerTransaction = false
	return dest
}

func (s *transactionService) publishCreated(ctx context.Context, txn domain.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.TransactionCreated(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction event", slog.String("transaction_id", txn.TransactionID))
	}
}

// GetTransactionByID returns the stored transaction or apperrors.ErrNotFound.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns all stored transactions.
func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.FindAllTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// UpdateTransaction replaces every mutable field of an existing record,
// keeping its id and creation timestamp.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	updated := domain.Transaction{
		TransactionID:        existing.TransactionID,
		Amount:               req.Amount,
		Created:              existing.Created,
		TransactionType:      req.TransactionType,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		CreditID:             req.CreditID,
		OwnerTransaction:     req.OwnerTransaction,
		Active:               req.Active,
	}

	if err := s.txnRepo.SaveTransaction(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

// PatchTransaction merges the provided fields onto an existing record.
func (s *transactionService) PatchTransaction(ctx context.Context, transactionID string, req dto.PatchTransactionRequest) (*domain.Transaction, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !req.ApplyTo(existing) {
		s.LogDebug(ctx, "No fields provided for transaction patch", slog.String("transaction_id", transactionID))
		return existing, nil
	}

	if err := s.txnRepo.SaveTransaction(ctx, *existing); err != nil {
		s.LogError(ctx, err, "Failed to patch transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction patched", slog.String("transaction_id", transactionID))
	return existing, nil
}

// DeleteTransaction removes a record and returns what was deleted.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.DeleteTransactionByID(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return existing, nil
}

// ListTransactionsByAccountID returns every transaction referencing the account.
func (s *transactionService) ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.FindTransactionsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by account", slog.String("account_id", accountID))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// ListTransactionsByCreditID returns every transaction referencing the credit line.
func (s *transactionService) ListTransactionsByCreditID(ctx context.Context, creditID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.FindTransactionsByCreditID(ctx, creditID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by credit", slog.String("credit_id", creditID))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}
