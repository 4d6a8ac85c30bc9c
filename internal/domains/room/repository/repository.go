package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	GetByID(ctx context.Context, id string) (model.Room, error)
	ListByType(ctx context.Context, roomType model.Type) ([]model.Room, error)
	SetBookedFlag(ctx context.Context, id string, booked bool) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetByID")
	defer scope.End()

	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// ListByType returns the whole catalog ordered by room number, or only one type when roomType is set.
func (r *repositoryImpl) ListByType(ctx context.Context, roomType model.Type) ([]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ListByType")
	defer scope.End()

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if roomType != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    string(roomType),
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldNumber, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) SetBookedFlag(ctx context.Context, id string, booked bool) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SetBookedFlag")
	defer scope.End()

	return r.Update(ctx, map[string]any{
		model.FieldIsBooked:      booked,
		constant.FieldModifiedAt: timezone.Now(),
	}, shared.FilterByID(id, model.FieldID, model.TableName))
}
