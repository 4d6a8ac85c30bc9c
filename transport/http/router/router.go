package router

import (
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/credit"
	"hotel/internal/handlers/offer"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Room    room.Handler
	Booking booking.Handler
	Credit  credit.Handler
	Offer   offer.Handler
}

type mountable interface {
	Router(r chi.Router)
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) mounts() []mountable {
	h := &r.DomainHandlers

	return []mountable{&h.Auth, &h.User, &h.Room, &h.Booking, &h.Credit, &h.Offer}
}

// SetupRoutes mounts every domain under /v1. Route patterns produced here are
// the keys of permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiVersion, func(group chi.Router) {
		for _, handler := range r.mounts() {
			handler.Router(group)
		}
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
