package dto

import (
	"hotel/internal/domains/credit/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/timezone"
)

type BonusRequest struct {
	UserID      string `json:"user_id"     validate:"required,uuid"`
	Points      int64  `json:"points"      validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type RedeemRequest struct {
	OfferID string `json:"offer_id" validate:"required,uuid"`
}

type CreditResponse struct {
	UserID        string `json:"user_id"`
	Balance       int64  `json:"balance"`
	TotalEarned   int64  `json:"total_earned"`
	TotalRedeemed int64  `json:"total_redeemed"`
	LastUpdatedAt string `json:"last_updated_at"`
}

func (r *CreditResponse) FromModel(model model.Credit) {
	r.UserID = model.UserID
	r.Balance = int64(model.Balance)
	r.TotalEarned = int64(model.TotalEarned)
	r.TotalRedeemed = int64(model.TotalRedeemed)
	r.LastUpdatedAt = timezone.Format(model.LastUpdatedAt, constant.DateFormat)
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	Points      int64   `json:"points"`
	Description string  `json:"description"`
	BookingID   *string `json:"booking_id"`
	OfferID     *string `json:"offer_id"`
	gDto.Metadata
}

func (r *TransactionResponse) FromModel(model model.Transaction) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Type = string(model.Type)
	r.Points = int64(model.Points)
	r.Description = model.Description
	r.BookingID = model.BookingID
	r.OfferID = model.OfferID
	r.Metadata.FromModel(model.Metadata)
}

type GetTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetTransactionsResponse) FromModels(models []model.Transaction, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Transactions = make([]TransactionResponse, len(models))
	for i, mod := range models {
		r.Transactions[i].FromModel(mod)
	}
}

type RedeemResponse struct {
	Credit      CreditResponse      `json:"credit"`
	Transaction TransactionResponse `json:"transaction"`
}
