package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVideoID(t *testing.T) {
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.True(t, IsValidVideoID("a-b_c123XYZ"))
	assert.False(t, IsValidVideoID("tooshort"))
	assert.False(t, IsValidVideoID("waytoolongforavideoid"))
	assert.False(t, IsValidVideoID("dQw4w9WgXc!"))
}

func TestIsValidPlaylistID(t *testing.T) {
	assert.True(t, IsValidPlaylistID("PLote72xi9USAQ3328pkc9WrSJtcrcrDPF"))
	assert.False(t, IsValidPlaylistID("dQw4w9WgXcQ"))
	assert.False(t, IsValidPlaylistID("PLshort"))
	assert.False(t, IsValidPlaylistID("notaplaylist"))
}

func TestIsLikelyCommand(t *testing.T) {
	assert.True(t, IsLikelyCommand("procss"))
	assert.True(t, IsLikelyCommand("lst"))
	assert.False(t, IsLikelyCommand("dQw4w9WgXcQ"))
	assert.False(t, IsLikelyCommand("PLote72xi9USAQ3328pkc9WrSJtcrcrDPF"))
}
