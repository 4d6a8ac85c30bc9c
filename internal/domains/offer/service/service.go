package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/offer/model"
	"hotel/internal/domains/offer/model/dto"
	"hotel/internal/domains/offer/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllOffer = "offer:gets"
	cacheCountOffer  = "offer:count"

	msgOfferNotFound = "offer not found or inactive"
)

type Offer interface {
	Create(ctx context.Context, req dto.CreateOfferRequest) (dto.OfferResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOffersResponse, error)
	Get(ctx context.Context, id string) (dto.OfferResponse, error)
	GetActive(ctx context.Context, id string) (dto.OfferResponse, error)
	ListActive(ctx context.Context) ([]dto.OfferResponse, error)
	Update(ctx context.Context, req dto.UpdateOfferRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Offer
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	clock timezone.Clock
}

func New(repo repository.Offer, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock timezone.Clock) Offer {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		clock: clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOfferRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if model.DiscountType(req.DiscountType) == model.DiscountPercentage && req.DiscountValue > 100 {
		return res, failure.BadRequestFromString("percentage discount cannot exceed 100") // nolint:wrapcheck
	}

	offer := req.ToModel(user)

	if err = s.repo.Insert(ctx, offer); err != nil {
		log.Error().Err(err).Msg("failed to insert offer")

		return res, fmt.Errorf("failed to insert offer: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(offer)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offers")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOffer, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer")

		return res, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.NotFound("offer not found") // nolint:wrapcheck
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer to cache")
		}
	}()

	return res, nil
}

// GetActive is the guest-facing lookup: disabled and expired offers read as missing.
func (s *serviceImpl) GetActive(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.GetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	offer, err := s.repo.GetActive(ctx, id, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to get active offer")

		return res, fmt.Errorf("failed to get active offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.OfferNotFound(msgOfferNotFound) // nolint:wrapcheck
	}

	res.FromModel(offer)

	return res, nil
}

func (s *serviceImpl) ListActive(ctx context.Context) (res []dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.ListActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := s.clock.Now()

	var offers []model.Offer
	if err = s.cache.Get(ctx, model.CacheKeyActive, &offers); err != nil {
		offers, err = s.repo.ListActive(ctx, now)
		if err != nil {
			log.Error().Err(err).Msg("failed to list active offers")

			return res, fmt.Errorf("failed to list active offers: %w", err)
		}

		go func(offers []model.Offer) {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, model.CacheKeyActive, offers, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save active offers to cache")
			}
		}(offers)
	}

	res = make([]dto.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		// a cached list may outlive an expiry
		if !offer.IsActiveAt(now) {
			continue
		}

		var item dto.OfferResponse
		item.FromModel(offer)
		res = append(res, item)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOfferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("nothing to update") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to check offer existence")

		return fmt.Errorf("failed to check offer existence: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("offer not found") // nolint:wrapcheck
	}

	discountType := current.DiscountType
	if req.DiscountType != constant.Empty {
		discountType = model.DiscountType(req.DiscountType)
	}

	discountValue := current.DiscountValue
	if req.DiscountValue > 0 {
		discountValue = req.DiscountValue
	}

	if discountType == model.DiscountPercentage && discountValue > 100 {
		return failure.BadRequestFromString("percentage discount cannot exceed 100") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update offer")

		return fmt.Errorf("failed to update offer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to check offer existence")

		return fmt.Errorf("failed to check offer existence: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("offer not found") // nolint:wrapcheck
	}

	// bookings and credit transactions keep their offer reference, so the row is
	// retired instead of removed
	retire := map[string]any{
		model.FieldActive:        false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, retire, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to retire offer")

		return fmt.Errorf("failed to retire offer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete offer from cache")
			}
		}

		if err := s.cache.Delete(c, model.CacheKeyActive); err != nil {
			log.Error().Err(err).Msg("failed to delete active offers from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOffer)
		shared.InvalidateCaches(c, s.cache, cacheCountOffer)
	}()
}
