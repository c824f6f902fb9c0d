package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, RoleManager.Valid())
	assert.False(t, Role("OWNER").Valid())
	assert.True(t, StatusDeleted.Valid())
	assert.False(t, Status("").Valid())
	assert.True(t, ReportIllegal.Valid())
	assert.False(t, ReportCategory("spam").Valid(), "categories are upper case")
}

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in, want Page
	}{
		{Page{}, Page{Limit: DefaultPageSize}},
		{Page{Limit: 5, Offset: 10}, Page{Limit: 5, Offset: 10}},
		{Page{Limit: 1000, Offset: -3}, Page{Limit: MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}

func TestActorOf(t *testing.T) {
	u := &User{ID: "u1", Role: RoleAdmin, Status: StatusActive}
	a := ActorOf(u)
	assert.Equal(t, Actor{UserID: "u1", Role: RoleAdmin, Status: StatusActive}, a)
	assert.True(t, a.IsAdmin())
	assert.False(t, Actor{Role: RoleManager}.IsAdmin())
}
