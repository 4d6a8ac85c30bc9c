package cache_test

import (
	"hotel/shared/cache"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFamily(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "room:get:6f1c2b9e-1d8a-4a57-9c43-0b7a1f9a2d11", want: "room:get"},
		{key: "room:gets:3b4f", want: "room:gets"},
		{key: "offer:active", want: "offer:active"},
		{key: "limiter", want: "limiter"},
		{key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, cache.KeyFamily(tt.key))
		})
	}
}
