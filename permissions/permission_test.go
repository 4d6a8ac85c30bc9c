package permissions_test

import (
	"hotel/permissions"
	"hotel/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EmbeddedDocument(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		skip   bool
		allow  bool
	}{
		{name: "login is public", method: "POST", path: "/v1/auth/login", skip: true, allow: true},
		{name: "room catalog is public", method: "GET", path: "/v1/rooms/", skip: true, allow: true},
		{name: "guest books a room", method: "POST", path: "/v1/bookings/", role: constant.RoleUser, allow: true},
		{name: "guest cannot list every booking", method: "GET", path: "/v1/bookings/", role: constant.RoleUser},
		{name: "admin lists every booking", method: "GET", path: "/v1/bookings/", role: constant.RoleAdmin, allow: true},
		{name: "guest cannot grant bonus credits", method: "POST", path: "/v1/credits/bonus", role: constant.RoleUser},
		{name: "superadmin grants bonus credits", method: "POST", path: "/v1/credits/bonus", role: constant.RoleSuperAdmin, allow: true},
		{name: "guest cannot refresh booked flags", method: "POST", path: "/v1/rooms/booked-flags/refresh", role: constant.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.path, permission.Path)
			assert.Equal(t, tt.skip, permission.Skip)
			assert.Equal(t, tt.allow, permission.Allows(tt.role))
		})
	}
}

func TestFindPermissions_Unlisted(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/v1/unknown", "GET"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"endpoints":[{"path":"/v1/offers/","method":"GET","skip":true}]}`},
		{name: "malformed json", data: `{"endpoints":`, wantErr: true},
		{name: "unsupported method", data: `{"endpoints":[{"path":"/v1/offers/","method":"TRACE"}]}`, wantErr: true},
		{
			name:    "duplicate route",
			data:    `{"endpoints":[{"path":"/v1/offers/","method":"GET"},{"path":"/v1/offers/","method":"GET"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := permissions.Parse([]byte(tt.data))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, data)

				return
			}

			require.NoError(t, err)
			assert.True(t, data.FindPermissions("/v1/offers/", "GET").Skip)
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	adminOnly := permissions.Permission{Permissions: []string{constant.RoleAdmin, constant.RoleSuperAdmin}}
	anyCaller := permissions.Permission{}

	assert.True(t, adminOnly.Allows(constant.RoleAdmin))
	assert.False(t, adminOnly.Allows(constant.RoleUser))
	assert.False(t, adminOnly.Allows(""))
	assert.True(t, anyCaller.Allows(constant.RoleUser))
}
