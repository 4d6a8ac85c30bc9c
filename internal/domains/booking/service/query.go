package service

import (
	"context"
	"fmt"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	notificationModel "hotel/internal/domains/notification/model"
	offerModel "hotel/internal/domains/offer/model"
	offerDto "hotel/internal/domains/offer/model/dto"
	roomModel "hotel/internal/domains/room/model"
	roomDto "hotel/internal/domains/room/model/dto"
	userModel "hotel/internal/domains/user/model"
	userDto "hotel/internal/domains/user/model/dto"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Get returns the booking to its owner or to staff. Anyone else gets a 404.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)
	s.populate(ctx, &res, booking)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter repository.ListFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.List")
	defer scope.End()
	defer scope.TraceIfError(err)

	if filter.Status != constant.Empty && !filter.Status.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown booking status %q", filter.Status)) // nolint:wrapcheck
	}

	models, total, err := s.repo.List(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) ListMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	caller := actorFrom(ctx)
	if caller.id == constant.Empty {
		return res, failure.Unauthorized("user is required") // nolint:wrapcheck
	}

	return s.List(ctx, params, repository.ListFilter{UserID: caller.id})
}

// Invoice gathers the booking, its room, guest and offer. A stored final amount
// is authoritative; otherwise the current offer terms are applied to the subtotal.
func (s *serviceImpl) Invoice(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Invoice")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	var (
		room  roomModel.Room
		user  userModel.User
		offer offerModel.Offer
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if room, err = s.roomRepo.GetByID(gctx, booking.RoomID); err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if user, err = s.userRepo.GetByID(gctx, booking.UserID); err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		return nil
	})

	if booking.OfferID != nil {
		g.Go(func() (err error) {
			if offer, err = s.offerRepo.GetByID(gctx, *booking.OfferID); err != nil {
				return fmt.Errorf("failed to get offer: %w", err)
			}

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to build invoice")

		return res, err
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	res.Booking.FromModel(booking)
	res.Room.FromModel(room)
	res.User.FromModel(user)
	res.Nights = booking.Nights()
	res.Subtotal = room.Price * float64(res.Nights)
	res.FinalAmount = res.Subtotal

	if offer.ID != constant.Empty {
		res.Offer = &offerDto.OfferResponse{}
		res.Offer.FromModel(offer)
		res.FinalAmount = offer.Apply(res.Subtotal)
	}

	if booking.FinalAmount != nil {
		res.FinalAmount = *booking.FinalAmount
	}

	res.Discount = res.Subtotal - res.FinalAmount

	return res, nil
}

func (s *serviceImpl) visible(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	caller := actorFrom(ctx)
	if booking.ID == constant.Empty || (!caller.isAdmin() && booking.UserID != caller.id) {
		return model.Booking{}, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

// populate attaches room and guest details. Missing details leave the fields nil.
func (s *serviceImpl) populate(ctx context.Context, res *dto.BookingResponse, booking model.Booking) {
	var g errgroup.Group

	g.Go(func() error {
		room, err := s.roomRepo.GetByID(ctx, booking.RoomID)
		if err != nil || room.ID == constant.Empty {
			return err
		}

		res.Room = &roomDto.RoomResponse{}
		res.Room.FromModel(room)

		return nil
	})

	g.Go(func() error {
		user, err := s.userRepo.GetByID(ctx, booking.UserID)
		if err != nil || user.ID == constant.Empty {
			return err
		}

		res.User = &userDto.UserResponse{}
		res.User.FromModel(user)

		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to populate booking details")
	}
}

func (s *serviceImpl) notifyCreated(ctx context.Context, booking model.Booking, room roomModel.Room) {
	guestBody := fmt.Sprintf("Your request for room %s from %s to %s was received.",
		room.Number, gDto.DateFrom(booking.CheckIn), gDto.DateFrom(booking.CheckOut))
	staffBody := fmt.Sprintf("%s requested room %s from %s to %s.",
		booking.GuestName, room.Number, gDto.DateFrom(booking.CheckIn), gDto.DateFrom(booking.CheckOut))

	s.notify(ctx, booking.UserID, "Booking requested", guestBody, notificationModel.KindBookingCreated)
	s.notify(ctx, s.notifier.AdminRecipientID(), "New booking request", staffBody, notificationModel.KindBookingCreated)
}

func (s *serviceImpl) notifyStatus(ctx context.Context, booking model.Booking, previous model.Status, kind notificationModel.Kind) {
	subject := fmt.Sprintf("Booking %s", booking.Status)
	body := fmt.Sprintf("Booking %s moved from %s to %s.", booking.ID, previous, booking.Status)

	s.notify(ctx, booking.UserID, subject, body, kind)
	s.notify(ctx, s.notifier.AdminRecipientID(), subject, body, kind)
}

func (s *serviceImpl) notify(ctx context.Context, recipientID, subject, body string, kind notificationModel.Kind) {
	if recipientID == constant.Empty {
		return
	}

	go func() {
		s.notifier.Notify(context.WithoutCancel(ctx), recipientID, subject, body, kind)
	}()
}
