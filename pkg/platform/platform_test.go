//go:build !darwin

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBringToFrontNoopWhenActive(t *testing.T) {
	assert.True(t, IsAppActive())
	assert.False(t, BringToFront())
	HideFromDock()
}
