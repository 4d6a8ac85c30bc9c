package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	creditService "hotel/internal/domains/credit/service"
	notificationModel "hotel/internal/domains/notification/model"
	notificationService "hotel/internal/domains/notification/service"
	offerModel "hotel/internal/domains/offer/model"
	offerRepo "hotel/internal/domains/offer/repository"
	roomDto "hotel/internal/domains/room/model/dto"
	roomRepo "hotel/internal/domains/room/repository"
	userRepo "hotel/internal/domains/user/repository"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/metrics"
	"hotel/shared/timezone"
	"math"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	defaultCreditUnit = 100
	day               = 24 * time.Hour

	msgBookingNotFound = "booking not found"
	msgRoomNotFound    = "room not found"
	msgRoomTaken       = "room is already booked for the requested dates"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	List(ctx context.Context, params gDto.QueryParams, filter repository.ListFilter) (dto.GetBookingsResponse, error)
	ListMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	EarlyCheckout(ctx context.Context, id string) (dto.BookingResponse, error)
	Cleanup(ctx context.Context, req dto.CleanupRequest) (dto.CleanupResponse, error)
	Invoice(ctx context.Context, id string) (dto.InvoiceResponse, error)

	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut gDto.Date, excludeID string) (dto.AvailabilityResponse, error)
	ListAvailableRooms(ctx context.Context, checkIn, checkOut gDto.Date, roomType string) ([]roomDto.RoomResponse, error)
	RecomputeTodayFlag(ctx context.Context, roomID string) (bool, error)
	RecomputeAllTodayFlags(ctx context.Context) (roomDto.RefreshFlagsResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepo.Room
	userRepo  userRepo.User
	offerRepo offerRepo.Offer
	credit    creditService.Credit
	notifier  notificationService.Notifier
	tx        postgres.Transactor
	clock     timezone.Clock
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	offerRepo offerRepo.Offer,
	credit creditService.Credit,
	notifier notificationService.Notifier,
	tx postgres.Transactor,
	clock timezone.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		offerRepo: offerRepo,
		credit:    credit,
		notifier:  notifier,
		tx:        tx,
		clock:     clock,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := actorFrom(ctx)
	if caller.id == constant.Empty {
		return res, failure.BadRequestFromString("user is required") // nolint:wrapcheck
	}

	if req.GuestName == constant.Empty || req.RoomID == constant.Empty {
		return res, failure.BadRequestFromString("guest name and room are required") // nolint:wrapcheck
	}

	checkIn, checkOut, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	now := s.clock.Now()

	if err = validateStay(checkIn, checkOut, now); err != nil {
		return res, err
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	booking := req.ToModel(caller.id, checkIn, checkOut, now)

	var offer offerModel.Offer
	if req.OfferID != nil {
		offer, err = s.offerRepo.GetActive(ctx, *req.OfferID, now)
		if err != nil {
			log.Error().Err(err).Msg("failed to load offer")

			return res, fmt.Errorf("failed to load offer: %w", err)
		}

		if offer.ID == constant.Empty {
			return res, failure.OfferNotFound("offer not found or inactive") // nolint:wrapcheck
		}

		finalAmount := offer.Apply(room.Price * float64(booking.Nights()))
		booking.FinalAmount = &finalAmount
	}

	err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.repo.LockRoomTx(ctx, sqltx, room.ID); err != nil {
			return err
		}

		conflicts, err := s.repo.ListBlockingTx(ctx, sqltx, room.ID, checkIn, checkOut, constant.Empty)
		if err != nil {
			return err
		}

		if len(conflicts) > 0 {
			metrics.BookingConflicts.Inc()

			return failure.ConflictWithDetails(msgRoomTaken, dto.ConflictsFromModels(conflicts)) // nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			return err
		}

		if offer.ID != constant.Empty {
			if _, _, err := s.credit.RedeemTx(ctx, sqltx, caller.id, offer, &booking.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if postgres.IsExclusionViolation(err) {
			metrics.BookingConflicts.Inc()

			return res, s.overlapConflict(ctx, room.ID, checkIn, checkOut)
		}

		if isDomainError(err) {
			return res, err
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingTransitions.WithLabelValues(string(model.StatusRequested)).Inc()

	s.refreshFlag(ctx, room)

	res.FromModel(booking)
	s.populate(ctx, &res, booking)

	s.notifyCreated(ctx, booking, room)

	return res, nil
}

// overlapConflict reports a stay the exclusion constraint refused, with the
// blocking stays when they can still be read.
func (s *serviceImpl) overlapConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) error {
	conflicts, err := s.repo.ListBlocking(ctx, roomID, checkIn, checkOut, constant.Empty)
	if err != nil || len(conflicts) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("failed to list bookings behind overlap violation")
		}

		return failure.Conflict(msgRoomTaken) // nolint:wrapcheck
	}

	return failure.ConflictWithDetails(msgRoomTaken, dto.ConflictsFromModels(conflicts)) // nolint:wrapcheck
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	next := model.Status(req.Status)
	if !next.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown booking status %q", req.Status)) // nolint:wrapcheck
	}

	caller := actorFrom(ctx)

	booking, err := s.transition(ctx, id, func(current model.Booking) (model.Booking, error) {
		if !caller.isAdmin() {
			if current.UserID != caller.id {
				return current, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
			}

			// accepting and rejecting requests is staff work
			if next == model.StatusConfirmed || next == model.StatusRejected {
				return current, failure.Forbidden("only staff can accept or reject a booking") // nolint:wrapcheck
			}
		}

		if !current.Status.CanTransitionTo(next) {
			return current, invalidTransition(current.Status, next)
		}

		current.Status = next

		return current, nil
	}, true, notificationModel.KindStatusChanged)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)
	s.populate(ctx, &res, booking)

	return res, nil
}

// Cancel lets the guest who owns a booking withdraw it before check-in. Redeemed points are not returned.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := actorFrom(ctx)

	booking, err := s.transition(ctx, id, func(current model.Booking) (model.Booking, error) {
		if !caller.isAdmin() && current.UserID != caller.id {
			return current, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
		}

		if !current.Status.CanTransitionTo(model.StatusRejected) {
			return current, invalidTransition(current.Status, model.StatusRejected)
		}

		current.Status = model.StatusRejected

		return current, nil
	}, false, notificationModel.KindStatusChanged)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// EarlyCheckout completes an Active stay now. Credits follow BOOKING_EARLY_CHECKOUT_AWARDS_CREDITS.
func (s *serviceImpl) EarlyCheckout(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.EarlyCheckout")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := actorFrom(ctx)

	booking, err := s.transition(ctx, id, func(current model.Booking) (model.Booking, error) {
		if !caller.isAdmin() && current.UserID != caller.id {
			return current, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
		}

		if current.Status != model.StatusActive {
			return current, failure.InvalidTransition( // nolint:wrapcheck
				fmt.Sprintf("early checkout requires an Active booking, booking is %s", current.Status))
		}

		// Stays are whole nights: leaving on day N bills through N+1, never past the plan.
		now := s.clock.Now()
		if timezone.StartOfDay(now).Before(current.CheckIn) {
			return current, failure.BadRequestFromString("cannot check out before the stay has started") // nolint:wrapcheck
		}

		if next := timezone.NextDay(now); next.Before(current.CheckOut) {
			current.CheckOut = next
		}

		current.Status = model.StatusCompleted

		return current, nil
	}, s.cfg.Booking.EarlyCheckoutAwardsCredits, notificationModel.KindEarlyCheckout)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cleanup(ctx context.Context, req dto.CleanupRequest) (res dto.CleanupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cleanup")
	defer scope.End()
	defer scope.TraceIfError(err)

	maxAgeDays := req.MaxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = s.cfg.Booking.StaleRequestDays
	}

	if maxAgeDays <= 0 {
		return res, failure.BadRequestFromString("max age must be positive") // nolint:wrapcheck
	}

	cutoff := s.clock.Now().Add(-time.Duration(maxAgeDays) * day)

	res.Rejected, err = s.repo.RejectStaleRequested(ctx, cutoff, actorFrom(ctx).id)
	if err != nil {
		log.Error().Err(err).Msg("failed to reject stale booking requests")

		return res, fmt.Errorf("failed to reject stale booking requests: %w", err)
	}

	metrics.BookingTransitions.WithLabelValues(string(model.StatusRejected)).Add(float64(res.Rejected))

	log.Info().Int64("rejected", res.Rejected).Time("cutoff", cutoff).Msg("stale booking requests rejected")

	return res, nil
}

// transition runs mutate on the locked booking and persists the result. When the
// booking ends Completed and award is set, stay credits are earned in the same unit of work.
func (s *serviceImpl) transition(ctx context.Context, id string, mutate func(model.Booking) (model.Booking, error), award bool, kind notificationModel.Kind) (booking model.Booking, err error) {
	caller := actorFrom(ctx)

	var previous model.Status

	err = s.tx.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.repo.GetByIDForUpdateTx(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if current.ID == constant.Empty {
			return failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
		}

		previous = current.Status

		booking, err = mutate(current)
		if err != nil {
			return err
		}

		booking.ModifiedAt = s.clock.Now()
		booking.ModifiedBy = caller.id

		if err := s.repo.SaveTx(ctx, sqltx, booking); err != nil {
			return err
		}

		if award && booking.Status == model.StatusCompleted {
			return s.awardStay(ctx, sqltx, booking)
		}

		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return booking, err
		}

		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")

		return booking, fmt.Errorf("failed to update booking status: %w", err)
	}

	metrics.BookingTransitions.WithLabelValues(string(booking.Status)).Inc()

	room, err := s.roomRepo.GetByID(ctx, booking.RoomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", booking.RoomID).Msg("failed to load room after status change")
	} else if room.ID != constant.Empty {
		s.refreshFlag(ctx, room)
	}

	s.notifyStatus(ctx, booking, previous, kind)

	return booking, nil
}

// awardStay earns one point per CreditUnit of completed stay value.
func (s *serviceImpl) awardStay(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error {
	room, err := s.roomRepo.GetByID(ctx, booking.RoomID)
	if err != nil {
		return fmt.Errorf("failed to get room for credit award: %w", err)
	}

	nights := booking.Nights()
	points := StayCredits(room.Price, nights, s.cfg.Booking.CreditUnit)

	if points <= 0 {
		return nil
	}

	description := fmt.Sprintf("Stay in room %s (%d nights)", room.Number, nights)

	_, err = s.credit.EarnTx(ctx, sqltx, booking.UserID, points, description, &booking.ID)

	return err
}

// StayCredits is floor(price*nights/unit). A non-positive unit falls back to 100.
func StayCredits(price float64, nights, unit int) int64 {
	if unit <= 0 {
		unit = defaultCreditUnit
	}

	return int64(math.Floor(price * float64(nights) / float64(unit)))
}

func validateStay(checkIn, checkOut, now time.Time) error {
	if !checkIn.Before(checkOut) {
		return failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	if checkIn.Before(timezone.StartOfDay(now)) {
		return failure.BadRequestFromString("check-in cannot be in the past") // nolint:wrapcheck
	}

	return nil
}

// isDomainError reports whether err is a client-facing failure that must pass through unwrapped.
func isDomainError(err error) bool {
	return failure.GetCode(err) != http.StatusInternalServerError
}

func invalidTransition(from, to model.Status) error {
	return failure.InvalidTransition(fmt.Sprintf("cannot move booking from %s to %s", from, to)) // nolint:wrapcheck
}

type actor struct {
	id   string
	role string
}

func actorFrom(ctx context.Context) actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return actor{id: id, role: role}
}

func (a actor) isAdmin() bool {
	return a.role == constant.RoleAdmin || a.role == constant.RoleSuperAdmin
}
