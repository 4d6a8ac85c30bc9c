package credit

import (
	"hotel/infras/otel"
	"hotel/internal/domains/credit/model/dto"
	"hotel/internal/domains/credit/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Credit
	otel    otel.Otel
}

func New(service service.Credit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/credits", func(r chi.Router) {
		r.Get("/me", handler.GetMyCredits)
		r.Get("/me/transactions", handler.GetMyTransactions)
		r.Post("/redeem", handler.Redeem)
		r.Post("/bonus", handler.Bonus)
		r.Get("/users/{id}", handler.GetUserCredits)
	})
}

// GetMyCredits returns the current user's balance, creating an empty record on first use.
// @Summary Get my credits
// @Tags Credit
// @Produce json
// @Success 200 {object} response.Data[dto.CreditResponse] "Credit balance"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/credits/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyCredits(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyCredits")
	defer scope.End()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	credit, err := handler.service.GetOrCreate(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get credits")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, credit)
}

// GetMyTransactions lists the current user's credit history, newest first.
// @Summary Get my credit transactions
// @Tags Credit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetTransactionsResponse] "Transactions"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/credits/me/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyTransactions")
	defer scope.End()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	transactions, err := handler.service.ListTransactions(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get credit transactions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, transactions)
}

// Redeem spends credits on an offer without attaching it to a booking.
// @Summary Redeem an offer
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.RedeemRequest true "Redeem Request"
// @Success 200 {object} response.Data[dto.RedeemResponse] "Updated balance and ledger entry"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error "Offer not found or inactive"
// @Failure 422 {object} response.Error "Insufficient credits"
// @Failure 500 {object} response.Error
// @Router /v1/credits/redeem [post]
// @Security BearerAuth
func (handler *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Redeem")
	defer scope.End()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	req := dto.RedeemRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Redeem(ctx, userID, req.OfferID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to redeem offer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Offer " + req.OfferID + " redeemed by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// Bonus grants credits to a user.
// @Summary Grant bonus credits
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.BonusRequest true "Bonus Request"
// @Success 200 {object} response.Data[dto.CreditResponse] "Updated balance"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/credits/bonus [post]
// @Security BearerAuth
func (handler *Handler) Bonus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Bonus")
	defer scope.End()

	req := dto.BonusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	credit, err := handler.service.Bonus(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to grant bonus credits")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, credit)
}

// GetUserCredits returns any user's balance.
// @Summary Get a user's credits
// @Tags Credit
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.CreditResponse] "Credit balance"
// @Failure 500 {object} response.Error
// @Router /v1/credits/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserCredits(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserCredits")
	defer scope.End()

	credit, err := handler.service.GetOrCreate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user credits")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, credit)
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		response.WithError(w, failure.Unauthorized("missing user"))

		return constant.Empty, false
	}

	return userID, true
}
