package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/offer/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
	"time"
)

const argNow = "now"

type Offer interface {
	Insert(ctx context.Context, model model.Offer) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Offer, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	GetByID(ctx context.Context, id string) (model.Offer, error)
	GetActive(ctx context.Context, id string, now time.Time) (model.Offer, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Offer, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Offer]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Offer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Offer](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Offer, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".offer.GetByID")
	defer scope.End()

	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// GetActive returns the zero Offer when id is unknown, disabled or expired at now.
func (r *repositoryImpl) GetActive(ctx context.Context, id string, now time.Time) (model.Offer, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".offer.GetActive")
	defer scope.End()

	filter := activeFilter(now)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldID,
		Operator: gDto.FilterOperatorEq,
		Value:    id,
		Table:    model.TableName,
	})

	return r.Get(ctx, filter)
}

func (r *repositoryImpl) ListActive(ctx context.Context, now time.Time) ([]model.Offer, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".offer.ListActive")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldPointsRequired, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, activeFilter(now))
}

func activeFilter(now time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{Field: model.FieldExpiresAt, Operator: gDto.FilterIsNull, Table: model.TableName},
					gDto.Filter{Field: model.FieldExpiresAt, ArgName: argNow, Operator: gDto.FilterOperatorGreater, Value: now, Table: model.TableName},
				},
			},
		},
	}
}
