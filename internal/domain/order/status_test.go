package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr error
	}{
		{"Pending", StatusPending, nil},
		{"Preparing", StatusPreparing, nil},
		{"Ready", StatusReady, nil},
		{"Completed", StatusCompleted, nil},
		{"", "", ErrStatusRequired},
		{"Bogus", "", ErrInvalidStatus},
		{"pending", "", ErrInvalidStatus},
		{"COMPLETED", "", ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatus_TransitionTableIsComplete(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.False(t, from.CanTransitionTo(Status("Cancelled")))
	}
	assert.False(t, Status("Bogus").CanTransitionTo(StatusPending))
}
