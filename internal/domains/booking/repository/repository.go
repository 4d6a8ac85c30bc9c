package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
)

// Per-room creation lock, released when the transaction ends.
const lockRoomQuery = `SELECT pg_advisory_xact_lock(hashtext('room:' || $1))`

type ListFilter struct {
	RoomID string
	UserID string
	Status model.Status
}

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error
	SaveTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error
	GetByID(ctx context.Context, id string) (model.Booking, error)
	GetByIDForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
	LockRoomTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) error

	// ListBlocking returns non-terminal bookings of roomID overlapping [checkIn, checkOut).
	ListBlocking(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error)
	ListBlockingTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error)
	// BlockedRoomIDs returns every room with a non-terminal booking overlapping [checkIn, checkOut).
	BlockedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error)
	// OccupiedAt reports whether a Confirmed or Active booking of roomID covers instant day.
	OccupiedAt(ctx context.Context, roomID string, day time.Time) (bool, error)

	RejectStaleRequested(ctx context.Context, createdBefore time.Time, actor string) (int64, error)
	List(ctx context.Context, params gDto.QueryParams, filter ListFilter) ([]model.Booking, int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) LockRoomTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoomTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockRoomQuery)

	if _, err := sqltx.ExecContext(ctx, lockRoomQuery, roomID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock room: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetByID")
	defer scope.End()

	booking, err := r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))

	return calendarDays(booking), err
}

func (r *repositoryImpl) GetByIDForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetByIDForUpdateTx")
	defer scope.End()

	booking, err := r.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))

	return calendarDays(booking), err
}

// SaveTx writes the mutable part of a booking: status and check-out.
func (r *repositoryImpl) SaveTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SaveTx")
	defer scope.End()

	return r.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldStatus:        booking.Status,
		model.FieldCheckOut:      booking.CheckOut,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: booking.ModifiedBy,
	}, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
}

func (r *repositoryImpl) ListBlocking(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListBlocking")
	defer scope.End()

	bookings, err := r.GetAll(ctx, blockingParams(), blockingFilter(roomID, checkIn, checkOut, excludeID))

	return allCalendarDays(bookings), err
}

func (r *repositoryImpl) ListBlockingTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListBlockingTx")
	defer scope.End()

	bookings, err := r.GetAllTx(ctx, sqltx, blockingParams(), blockingFilter(roomID, checkIn, checkOut, excludeID))

	return allCalendarDays(bookings), err
}

func (r *repositoryImpl) BlockedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.BlockedRoomIDs")
	defer scope.End()

	bookings, err := r.GetAll(ctx, gDto.QueryParams{}, blockingFilter(constant.Empty, checkIn, checkOut, constant.Empty), model.FieldRoomID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	ids := []string{}

	for _, booking := range bookings {
		if !seen[booking.RoomID] {
			seen[booking.RoomID] = true
			ids = append(ids, booking.RoomID)
		}
	}

	return ids, nil
}

func (r *repositoryImpl) OccupiedAt(ctx context.Context, roomID string, day time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OccupiedAt")
	defer scope.End()

	return r.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: model.StatusStrings(model.Occupying), Table: model.TableName},
			gDto.Filter{ArgName: "day_start", Field: model.FieldCheckIn, Operator: gDto.FilterOperatorLessEq, Value: day, Table: model.TableName},
			gDto.Filter{ArgName: "day_end", Field: model.FieldCheckOut, Operator: gDto.FilterOperatorGreater, Value: day, Table: model.TableName},
		},
	})
}

// RejectStaleRequested moves every Requested booking created before createdBefore to Rejected.
func (r *repositoryImpl) RejectStaleRequested(ctx context.Context, createdBefore time.Time, actor string) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.RejectStaleRequested")
	defer scope.End()

	return r.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        model.StatusRejected,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusRequested, Table: model.TableName},
			gDto.Filter{ArgName: "created_before", Field: constant.FieldCreatedAt, Operator: gDto.FilterOperatorLess, Value: createdBefore, Table: model.TableName},
		},
	})
}

func (r *repositoryImpl) List(ctx context.Context, params gDto.QueryParams, filter ListFilter) ([]model.Booking, int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.List")
	defer scope.End()

	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if filter.RoomID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: filter.RoomID, Table: model.TableName})
	}

	if filter.UserID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: filter.UserID, Table: model.TableName})
	}

	if filter.Status != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: filter.Status, Table: model.TableName})
	}

	total, err := r.Count(ctx, group)
	if err != nil {
		return nil, 0, err
	}

	params.RestrictSortBy(model.FieldCheckIn, model.FieldCheckOut, model.FieldStatus, constant.FieldCreatedAt)
	if params.SortBy == constant.Empty {
		params.SortBy = constant.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	if params.SortDir == constant.Empty {
		params.SortDir = gDto.SortDirDesc
	}

	params.SortBy = model.TableName + "." + params.SortBy

	bookings, err := r.GetAll(ctx, params, group)
	if err != nil {
		return nil, 0, err
	}

	return allCalendarDays(bookings), total, nil
}

// calendarDays pins the scanned DATE columns to midnight in the application
// timezone so comparisons with the clock and rendered dates agree.
func calendarDays(booking model.Booking) model.Booking {
	booking.CheckIn = timezone.CalendarDay(booking.CheckIn)
	booking.CheckOut = timezone.CalendarDay(booking.CheckOut)

	return booking
}

func allCalendarDays(bookings []model.Booking) []model.Booking {
	for i := range bookings {
		bookings[i] = calendarDays(bookings[i])
	}

	return bookings
}

func blockingParams() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCheckIn, SortDir: gDto.SortDirAsc}
}

// blockingFilter matches non-terminal bookings whose stay intersects [checkIn, checkOut).
// An empty roomID spans every room.
func blockingFilter(roomID string, checkIn, checkOut time.Time, excludeID string) gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: model.StatusStrings(model.NonTerminal), Table: model.TableName},
			gDto.Filter{
				ArgName:  "stay",
				Field:    model.FieldCheckIn,
				EndField: model.FieldCheckOut,
				Operator: gDto.FilterOperatorOverlaps,
				Value:    gDto.DateRange{Start: checkIn, End: checkOut},
				Table:    model.TableName,
			},
		},
	}

	if roomID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.TableName})
	}

	if excludeID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "exclude_id", Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: excludeID, Table: model.TableName})
	}

	return group
}
