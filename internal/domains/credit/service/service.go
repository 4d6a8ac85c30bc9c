package service

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/credit/model"
	"hotel/internal/domains/credit/model/dto"
	"hotel/internal/domains/credit/repository"
	offerModel "hotel/internal/domains/offer/model"
	offerRepo "hotel/internal/domains/offer/repository"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/metrics"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const msgOfferNotFound = "offer not found or inactive"

type Credit interface {
	GetOrCreate(ctx context.Context, userID string) (dto.CreditResponse, error)
	Earn(ctx context.Context, userID string, points int64, description string, bookingID *string) (dto.CreditResponse, error)
	Bonus(ctx context.Context, req dto.BonusRequest) (dto.CreditResponse, error)
	Redeem(ctx context.Context, userID, offerID string) (dto.RedeemResponse, error)
	ListTransactions(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetTransactionsResponse, error)

	// EarnTx and RedeemTx join a unit of work the caller already opened.
	EarnTx(ctx context.Context, sqltx *sqlx.Tx, userID string, points int64, description string, bookingID *string) (model.Credit, error)
	RedeemTx(ctx context.Context, sqltx *sqlx.Tx, userID string, offer offerModel.Offer, bookingID *string) (model.Credit, model.Transaction, error)
}

type serviceImpl struct {
	repo      repository.Credit
	offerRepo offerRepo.Offer
	tx        postgres.Transactor
	otel      otel.Otel
	clock     timezone.Clock
}

func New(repo repository.Credit, offerRepo offerRepo.Offer, tx postgres.Transactor, otel otel.Otel, clock timezone.Clock) Credit {
	return &serviceImpl{
		repo:      repo,
		offerRepo: offerRepo,
		tx:        tx,
		otel:      otel,
		clock:     clock,
	}
}

func (s *serviceImpl) GetOrCreate(ctx context.Context, userID string) (res dto.CreditResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.GetOrCreate")
	defer scope.End()
	defer scope.TraceIfError(err)

	credit, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get credit record")

		return res, fmt.Errorf("failed to get credit record: %w", err)
	}

	if credit.UserID == constant.Empty {
		err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
			var lockErr error

			credit, lockErr = s.lock(ctx, sqltx, userID)

			return lockErr
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to create credit record")

			return res, fmt.Errorf("failed to create credit record: %w", err)
		}
	}

	res.FromModel(credit)

	return res, nil
}

func (s *serviceImpl) Earn(ctx context.Context, userID string, points int64, description string, bookingID *string) (res dto.CreditResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.Earn")
	defer scope.End()
	defer scope.TraceIfError(err)

	var credit model.Credit

	err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		var earnErr error

		credit, earnErr = s.EarnTx(ctx, sqltx, userID, points, description, bookingID)

		return earnErr
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to earn credits")

		return res, fmt.Errorf("failed to earn credits: %w", err)
	}

	res.FromModel(credit)

	return res, nil
}

// EarnTx adds points under the user's row lock. Non-positive points leave the record unchanged.
func (s *serviceImpl) EarnTx(ctx context.Context, sqltx *sqlx.Tx, userID string, points int64, description string, bookingID *string) (credit model.Credit, err error) {
	return s.add(ctx, sqltx, userID, points, model.TransactionEarned, description, bookingID)
}

func (s *serviceImpl) Bonus(ctx context.Context, req dto.BonusRequest) (res dto.CreditResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.Bonus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Points <= 0 {
		return res, failure.BadRequestFromString("bonus points must be positive") // nolint:wrapcheck
	}

	description := req.Description
	if description == constant.Empty {
		description = "Bonus credits"
	}

	var credit model.Credit

	err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		var addErr error

		credit, addErr = s.add(ctx, sqltx, req.UserID, req.Points, model.TransactionBonus, description, nil)

		return addErr
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to grant bonus credits")

		return res, fmt.Errorf("failed to grant bonus credits: %w", err)
	}

	res.FromModel(credit)

	return res, nil
}

func (s *serviceImpl) Redeem(ctx context.Context, userID, offerID string) (res dto.RedeemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.Redeem")
	defer scope.End()
	defer scope.TraceIfError(err)

	offer, err := s.offerRepo.GetActive(ctx, offerID, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to load offer")

		return res, fmt.Errorf("failed to load offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.OfferNotFound(msgOfferNotFound) // nolint:wrapcheck
	}

	var (
		credit model.Credit
		txn    model.Transaction
	)

	err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		var redeemErr error

		credit, txn, redeemErr = s.RedeemTx(ctx, sqltx, userID, offer, nil)

		return redeemErr
	})
	if err != nil {
		if failure.GetReason(err) != constant.Empty {
			return res, err
		}

		log.Error().Err(err).Msg("failed to redeem credits")

		return res, fmt.Errorf("failed to redeem credits: %w", err)
	}

	res.Credit.FromModel(credit)
	res.Transaction.FromModel(txn)

	return res, nil
}

// RedeemTx spends offer.PointsRequired from the user's balance under its row
// lock and logs a negative redeemed entry.
func (s *serviceImpl) RedeemTx(ctx context.Context, sqltx *sqlx.Tx, userID string, offer offerModel.Offer, bookingID *string) (credit model.Credit, txn model.Transaction, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.RedeemTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	credit, err = s.lock(ctx, sqltx, userID)
	if err != nil {
		return credit, txn, err
	}

	now := s.clock.Now()
	cost := model.Points(offer.PointsRequired)

	if err = credit.Spend(cost, now); err != nil {
		return credit, txn, failure.InsufficientCredits( // nolint:wrapcheck
			fmt.Sprintf("insufficient credits: balance %d, required %d", credit.Balance, cost))
	}

	if err = s.repo.SaveTx(ctx, sqltx, credit); err != nil {
		log.Error().Err(err).Msg("failed to save credit record")

		return credit, txn, fmt.Errorf("failed to save credit record: %w", err)
	}

	offerID := offer.ID
	txn = newTransaction(userID, model.TransactionRedeemed, -cost, "Redeemed: "+offer.Title, bookingID, &offerID, now)

	if err = s.repo.InsertTransactionTx(ctx, sqltx, txn); err != nil {
		log.Error().Err(err).Msg("failed to log credit transaction")

		return credit, txn, fmt.Errorf("failed to log credit transaction: %w", err)
	}

	metrics.CreditPoints.WithLabelValues(string(model.TransactionRedeemed)).Add(float64(cost))

	return credit, txn, nil
}

func (s *serviceImpl) ListTransactions(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetTransactionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.ListTransactions")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.CountTransactions(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count credit transactions")

		return res, fmt.Errorf("failed to count credit transactions: %w", err)
	}

	models, err := s.repo.ListTransactions(ctx, userID, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to list credit transactions")

		return res, fmt.Errorf("failed to list credit transactions: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) add(ctx context.Context, sqltx *sqlx.Tx, userID string, points int64, kind model.TransactionType, description string, bookingID *string) (credit model.Credit, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".credit.add")
	defer scope.End()
	defer scope.TraceIfError(err)

	credit, err = s.lock(ctx, sqltx, userID)
	if err != nil || points <= 0 {
		return credit, err
	}

	now := s.clock.Now()
	credit.Add(model.Points(points), now)

	if err = s.repo.SaveTx(ctx, sqltx, credit); err != nil {
		log.Error().Err(err).Msg("failed to save credit record")

		return credit, fmt.Errorf("failed to save credit record: %w", err)
	}

	txn := newTransaction(userID, kind, model.Points(points), description, bookingID, nil, now)

	if err = s.repo.InsertTransactionTx(ctx, sqltx, txn); err != nil {
		log.Error().Err(err).Msg("failed to log credit transaction")

		return credit, fmt.Errorf("failed to log credit transaction: %w", err)
	}

	metrics.CreditPoints.WithLabelValues(string(kind)).Add(float64(points))

	return credit, nil
}

// lock creates the user's record if needed and holds its row lock for the rest of sqltx.
func (s *serviceImpl) lock(ctx context.Context, sqltx *sqlx.Tx, userID string) (model.Credit, error) {
	if err := s.repo.EnsureTx(ctx, sqltx, userID, s.clock.Now()); err != nil {
		log.Error().Err(err).Msg("failed to ensure credit record")

		return model.Credit{}, fmt.Errorf("failed to ensure credit record: %w", err)
	}

	credit, err := s.repo.GetForUpdateTx(ctx, sqltx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock credit record")

		return credit, fmt.Errorf("failed to lock credit record: %w", err)
	}

	// totals are authoritative; an older row may carry a drifted balance
	credit.Balance = credit.TotalEarned - credit.TotalRedeemed

	return credit, nil
}

func newTransaction(userID string, kind model.TransactionType, points model.Points, description string, bookingID, offerID *string, at time.Time) model.Transaction {
	return model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        kind,
		Points:      points,
		Description: description,
		BookingID:   bookingID,
		OfferID:     offerID,
		Metadata:    gModel.NewMetadata(userID, at),
	}
}
