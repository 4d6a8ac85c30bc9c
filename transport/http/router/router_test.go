package router_test

import (
	"net/http"
	"testing"

	"hotel/permissions"
	"hotel/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRouteHasPermission(t *testing.T) {
	mux := chi.NewRouter()
	r := router.New(router.DomainHandlers{})
	r.SetupRoutes(mux)

	table := permissions.Get()
	require.NotNil(t, table)

	routes := 0

	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes++

		permission := table.FindPermissions(route, method)
		assert.Equal(t, route, permission.Path, "%s %s is missing from permissions.json", method, route)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, len(table.Endpoints), routes, "permissions.json lists routes the router does not serve")
}
