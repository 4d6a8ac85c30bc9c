package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.hotel.test/room/a.jpg", publicURL("https://cdn.hotel.test/", "room/a.jpg"))
	assert.Equal(t, "https://cdn.hotel.test/room/a.jpg", publicURL("https://cdn.hotel.test", "room/a.jpg"))
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "public domain", url: "https://cdn.hotel.test/room/a.jpg", expected: "a.jpg"},
		{name: "api endpoint", url: "https://s3.hotel.test/photos/room/b.png", expected: "b.png"},
		{name: "foreign host", url: "https://elsewhere.test/room/c.jpg", expected: ""},
		{name: "bare domain", url: "https://cdn.hotel.test/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, objectName("https://cdn.hotel.test", "https://s3.hotel.test", "photos", tt.url))
		})
	}
}
