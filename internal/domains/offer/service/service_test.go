package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	offerMocks "hotel/internal/domains/offer/mocks"
	"hotel/internal/domains/offer/model"
	"hotel/internal/domains/offer/model/dto"
	"hotel/internal/domains/offer/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newOfferService(ctrl *gomock.Controller) (service.Offer, *offerMocks.MockOffer, *cacheMocks.MockRedisCache) {
	mockRepo := offerMocks.NewMockOffer(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), timezone.NewFixedClock(now)), mockRepo, mockCache
}

func TestOfferService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newOfferService(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateOfferRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation defaults to active",
			req:  dto.CreateOfferRequest{Title: "20% off", PointsRequired: 60, DiscountType: "percentage", DiscountValue: 20},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, offer model.Offer) error {
						assert.True(t, offer.Active)
						assert.Equal(t, model.DiscountPercentage, offer.DiscountType)

						return nil
					})
			},
		},
		{
			name:      "percentage above 100",
			req:       dto.CreateOfferRequest{Title: "free", PointsRequired: 60, DiscountType: "percentage", DiscountValue: 120},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "repository error",
			req:  dto.CreateOfferRequest{Title: "flat", PointsRequired: 10, DiscountType: "fixed", DiscountValue: 500},
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			_, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOfferService_GetActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newOfferService(ctrl)

	mockRepo.EXPECT().GetActive(gomock.Any(), "offer-1", now).Return(model.Offer{ID: "offer-1", Active: true}, nil)
	mockRepo.EXPECT().GetActive(gomock.Any(), "offer-2", now).Return(model.Offer{}, nil)

	res, err := svc.GetActive(context.Background(), "offer-1")
	assert.NoError(t, err)
	assert.Equal(t, "offer-1", res.ID)

	_, err = svc.GetActive(context.Background(), "offer-2")
	assert.True(t, failure.HasReason(err, failure.ReasonOfferNotFound))
}

func TestOfferService_ListActiveDropsExpiredCachedOffers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockCache := newOfferService(ctrl)

	expired := now.Add(-time.Minute)

	mockCache.EXPECT().
		Get(gomock.Any(), model.CacheKeyActive, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			offers, _ := value.(*[]model.Offer)
			*offers = []model.Offer{
				{ID: "still-good", Active: true},
				{ID: "expired", Active: true, ExpiresAt: &expired},
			}

			return nil
		})

	res, err := svc.ListActive(context.Background())

	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "still-good", res[0].ID)
}

func TestOfferService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newOfferService(ctrl)

	mockRepo.EXPECT().GetByID(gomock.Any(), "offer-1").Return(model.Offer{ID: "offer-1", Active: true}, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldActive])

			return nil
		})

	assert.NoError(t, svc.Delete(context.Background(), "offer-1"))

	mockRepo.EXPECT().GetByID(gomock.Any(), "offer-404").Return(model.Offer{}, nil)

	err := svc.Delete(context.Background(), "offer-404")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
