package service

import (
	"context"
	"fmt"
	"hotel/internal/domains/booking/model/dto"
	roomModel "hotel/internal/domains/room/model"
	roomDto "hotel/internal/domains/room/model/dto"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const flagSweepConcurrency = 8

// CheckAvailability lists every non-terminal booking of the room overlapping
// [checkIn, checkOut). excludeID skips the booking being edited.
func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut gDto.Date, excludeID string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	in, out, err := s.parseStay(checkIn, checkOut)
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	conflicts, err := s.repo.ListBlocking(ctx, roomID, in, out, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list overlapping bookings")

		return res, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	res.RoomID = roomID
	res.CheckIn = string(checkIn)
	res.CheckOut = string(checkOut)
	res.Available = len(conflicts) == 0
	res.Conflicts = dto.ConflictsFromModels(conflicts)

	return res, nil
}

func (s *serviceImpl) ListAvailableRooms(ctx context.Context, checkIn, checkOut gDto.Date, roomType string) (res []roomDto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListAvailableRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	in, out, err := s.parseStay(checkIn, checkOut)
	if err != nil {
		return res, err
	}

	kind := roomModel.Type(roomType)
	if kind != constant.Empty && !kind.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown room type %q", roomType)) // nolint:wrapcheck
	}

	rooms, err := s.roomRepo.ListByType(ctx, kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	blocked, err := s.repo.BlockedRoomIDs(ctx, in, out)
	if err != nil {
		log.Error().Err(err).Msg("failed to list blocked rooms")

		return res, fmt.Errorf("failed to list blocked rooms: %w", err)
	}

	res = make([]roomDto.RoomResponse, 0, len(rooms))

	for _, room := range rooms {
		if slices.Contains(blocked, room.ID) {
			continue
		}

		var item roomDto.RoomResponse
		item.FromModel(room)
		res = append(res, item)
	}

	return res, nil
}

// RecomputeTodayFlag sets the room's is_booked from Confirmed and Active stays
// covering the start of today. The row is written only when the value changes.
func (s *serviceImpl) RecomputeTodayFlag(ctx context.Context, roomID string) (booked bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RecomputeTodayFlag")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return false, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	booked, _, err = s.recompute(ctx, room)

	return booked, err
}

func (s *serviceImpl) RecomputeAllTodayFlags(ctx context.Context) (res roomDto.RefreshFlagsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RecomputeAllTodayFlags")
	defer scope.End()
	defer scope.TraceIfError(err)

	rooms, err := s.roomRepo.ListByType(ctx, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(flagSweepConcurrency)

	for _, room := range rooms {
		g.Go(func() error {
			booked, changed, err := s.recompute(gctx, room)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			if booked {
				res.Booked++
			}

			if changed {
				res.Changed++
			}

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return res, err
	}

	res.Rooms = len(rooms)

	log.Info().Int("rooms", res.Rooms).Int("booked", res.Booked).Int("changed", res.Changed).Msg("room today flags refreshed")

	return res, nil
}

func (s *serviceImpl) recompute(ctx context.Context, room roomModel.Room) (booked, changed bool, err error) {
	today := timezone.StartOfDay(s.clock.Now())

	booked, err = s.repo.OccupiedAt(ctx, room.ID, today)
	if err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to check room occupancy")

		return false, false, fmt.Errorf("failed to check room occupancy: %w", err)
	}

	if booked == room.IsBooked {
		return booked, false, nil
	}

	if err = s.roomRepo.SetBookedFlag(ctx, room.ID, booked); err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to set room booked flag")

		return booked, false, fmt.Errorf("failed to set room booked flag: %w", err)
	}

	s.invalidateRoom(ctx, room.ID)

	return booked, true, nil
}

// refreshFlag runs after a committed change; the booking stands even if the flag write fails.
func (s *serviceImpl) refreshFlag(ctx context.Context, room roomModel.Room) {
	if _, _, err := s.recompute(ctx, room); err != nil {
		log.Warn().Err(err).Str("room_id", room.ID).Msg("room today flag left stale")
	}
}

func (s *serviceImpl) invalidateRoom(ctx context.Context, roomID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(roomModel.CacheKeyGet, roomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, roomModel.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, roomModel.CacheKeyCount)
	}()
}

// parseStay reads a query window under the same rules as a new booking:
// ordered, and starting no earlier than today.
func (s *serviceImpl) parseStay(checkIn, checkOut gDto.Date) (in, out time.Time, err error) {
	if in, err = checkIn.Time(); err != nil {
		return in, out, failure.BadRequest(err) // nolint:wrapcheck
	}

	if out, err = checkOut.Time(); err != nil {
		return in, out, failure.BadRequest(err) // nolint:wrapcheck
	}

	return in, out, validateStay(in, out, s.clock.Now())
}
