package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

func TestAvailableTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.Status
		want []models.Status
	}{
		{"open has no staff moves", models.StatusOpen, []models.Status{}},
		{"assigned moves to in progress", models.StatusAssigned, []models.Status{models.StatusInProgress}},
		{"in progress moves to closed", models.StatusInProgress, []models.Status{models.StatusClosed}},
		{"closed is terminal", models.StatusClosed, []models.Status{}},
		{"cancelled is terminal", models.StatusCancelled, []models.Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableTransitions(tt.from))
		})
	}
}

func TestAvailableTransitionsReturnsCopy(t *testing.T) {
	got := AvailableTransitions(models.StatusAssigned)
	got[0] = models.StatusCancelled

	assert.Equal(t, []models.Status{models.StatusInProgress}, AvailableTransitions(models.StatusAssigned))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusAssigned, models.StatusInProgress))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusClosed))

	assert.False(t, CanTransition(models.StatusOpen, models.StatusInProgress))
	assert.False(t, CanTransition(models.StatusAssigned, models.StatusClosed))
	assert.False(t, CanTransition(models.StatusClosed, models.StatusOpen))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusOpen))
	assert.False(t, CanTransition(models.Status("BOGUS"), models.StatusClosed))
}
