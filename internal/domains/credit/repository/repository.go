package repository

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/credit/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const ensureCreditQuery = `INSERT INTO credits (user_id, balance, total_earned, total_redeemed, last_updated_at)
VALUES (:user_id, 0, 0, 0, :last_updated_at)
ON CONFLICT (user_id) DO NOTHING`

// Credit stores balance records and their transaction log. The log is append
// only: nothing here updates or deletes a transaction.
type Credit interface {
	EnsureTx(ctx context.Context, sqltx *sqlx.Tx, userID string, at time.Time) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, userID string) (model.Credit, error)
	SaveTx(ctx context.Context, sqltx *sqlx.Tx, credit model.Credit) error
	InsertTransactionTx(ctx context.Context, sqltx *sqlx.Tx, txn model.Transaction) error

	GetByUserID(ctx context.Context, userID string) (model.Credit, error)
	ListTransactions(ctx context.Context, userID string, params gDto.QueryParams) ([]model.Transaction, error)
	CountTransactions(ctx context.Context, userID string) (int, error)
}

type repositoryImpl struct {
	credits      gRepo.Repository[model.Credit]
	transactions gRepo.Repository[model.Transaction]
	otel         otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Credit {
	return &repositoryImpl{
		credits:      gRepo.NewRepository[model.Credit](model.EntityName, model.TableName, model.FieldUserID, db, otel),
		transactions: gRepo.NewRepository[model.Transaction](model.TransactionEntityName, model.TransactionTableName, model.FieldTransactionID, db, otel),
		otel:         otel,
	}
}

// EnsureTx creates the zero balance row for userID unless one exists.
func (r *repositoryImpl) EnsureTx(ctx context.Context, sqltx *sqlx.Tx, userID string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.EnsureTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, ensureCreditQuery)

	_, err := sqltx.NamedExecContext(ctx, ensureCreditQuery, map[string]any{
		model.FieldUserID:        userID,
		model.FieldLastUpdatedAt: at,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to ensure credit record: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, userID string) (model.Credit, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.GetForUpdateTx")
	defer scope.End()

	return r.credits.GetForUpdateTx(ctx, sqltx, userFilter(model.TableName, userID))
}

func (r *repositoryImpl) SaveTx(ctx context.Context, sqltx *sqlx.Tx, credit model.Credit) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.SaveTx")
	defer scope.End()

	return r.credits.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldBalance:       credit.Balance,
		model.FieldTotalEarned:   credit.TotalEarned,
		model.FieldTotalRedeemed: credit.TotalRedeemed,
		model.FieldLastUpdatedAt: credit.LastUpdatedAt,
	}, userFilter(model.TableName, credit.UserID))
}

func (r *repositoryImpl) InsertTransactionTx(ctx context.Context, sqltx *sqlx.Tx, txn model.Transaction) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.InsertTransactionTx")
	defer scope.End()

	return r.transactions.InsertTx(ctx, sqltx, txn)
}

func (r *repositoryImpl) GetByUserID(ctx context.Context, userID string) (model.Credit, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.GetByUserID")
	defer scope.End()

	return r.credits.Get(ctx, userFilter(model.TableName, userID))
}

// ListTransactions returns the newest entries first.
func (r *repositoryImpl) ListTransactions(ctx context.Context, userID string, params gDto.QueryParams) ([]model.Transaction, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.ListTransactions")
	defer scope.End()

	params.SortBy = model.TransactionTableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	return r.transactions.GetAll(ctx, params, userFilter(model.TransactionTableName, userID))
}

func (r *repositoryImpl) CountTransactions(ctx context.Context, userID string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".credit.CountTransactions")
	defer scope.End()

	return r.transactions.Count(ctx, userFilter(model.TransactionTableName, userID))
}

func userFilter(table, userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: table},
		},
	}
}
