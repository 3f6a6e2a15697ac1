package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHead(t *testing.T) {
	rows := []int{1, 2, 3, 4}

	assert.Equal(t, []int{1, 2}, Head(rows, 2))
	assert.Equal(t, rows, Head(rows, 10))
	assert.Equal(t, rows, Head(rows, -1))
	assert.Empty(t, Head(rows, 0))
	assert.Empty(t, Head([]int(nil), 3))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/data.csv"))
	assert.True(t, IsRemote("HTTP://example.com/data.csv"))
	assert.False(t, IsRemote("central_west.csv"))
	assert.False(t, IsRemote("/tmp/http.csv"))
}
