package view_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraudguard/console/internal/platform/view"
)

func TestForList(t *testing.T) {
	assert.Equal(t, view.StateUnavailable, view.ForList(3, errors.New("boom")))
	assert.Equal(t, view.StateEmpty, view.ForList(0, nil))
	assert.Equal(t, view.StateReady, view.ForList(2, nil))
}

func TestForItem(t *testing.T) {
	assert.Equal(t, view.StateUnavailable, view.ForItem(true, errors.New("boom")))
	assert.Equal(t, view.StateEmpty, view.ForItem(false, nil))
	assert.Equal(t, view.StateReady, view.ForItem(true, nil))
}
