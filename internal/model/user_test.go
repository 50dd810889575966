package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"username wins", User{ChatID: 1, Username: "mario", FirstName: "Mario"}, "@mario"},
		{"first name fallback", User{ChatID: 2, FirstName: "Luigi"}, "Luigi"},
		{"chat id fallback", User{ChatID: 3}, "ID 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUserGallery_Empty(t *testing.T) {
	var g *UserGallery
	assert.True(t, g.Empty())
	assert.True(t, (&UserGallery{}).Empty())
	assert.False(t, (&UserGallery{Groups: []*GalleryGroup{{MattoName: "x"}}}).Empty())
}
