package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHasConflict(t *testing.T) {
	existing := []time.Time{ts("2023-05-20T14:00:00Z")}

	tests := []struct {
		name      string
		candidate time.Time
		want      bool
	}{
		{"same instant", ts("2023-05-20T14:00:00Z"), true},
		{"90 minutes later", ts("2023-05-20T15:30:00Z"), true},
		{"90 minutes earlier", ts("2023-05-20T12:30:00Z"), true},
		{"one second inside the window", ts("2023-05-20T15:59:59Z"), true},
		{"exactly 2 hours later", ts("2023-05-20T16:00:00Z"), false},
		{"exactly 2 hours earlier", ts("2023-05-20T12:00:00Z"), false},
		{"well clear", ts("2023-05-21T14:00:00Z"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(tt.candidate, existing, ConflictWindow))
		})
	}
}

func TestHasConflictNoExisting(t *testing.T) {
	assert.False(t, HasConflict(ts("2023-05-20T14:00:00Z"), nil, ConflictWindow))
	assert.False(t, HasConflict(ts("2023-05-20T14:00:00Z"), []time.Time{}, ConflictWindow))
}

func TestHasConflictOrderIndependent(t *testing.T) {
	candidate := ts("2023-05-20T14:00:00Z")
	a := []time.Time{ts("2023-05-20T10:00:00Z"), ts("2023-05-20T13:00:00Z"), ts("2023-05-20T20:00:00Z")}
	b := []time.Time{a[2], a[0], a[1]}
	assert.Equal(t, HasConflict(candidate, a, ConflictWindow), HasConflict(candidate, b, ConflictWindow))
	assert.True(t, HasConflict(candidate, b, ConflictWindow))
}

func TestHasConflictMixedOffsets(t *testing.T) {
	// +02:00 at 16:00 local is 14:00Z; only absolute instants matter.
	local := ts("2023-05-20T16:00:00+02:00")
	assert.True(t, HasConflict(local, []time.Time{ts("2023-05-20T14:30:00Z")}, ConflictWindow))
	assert.False(t, HasConflict(local, []time.Time{ts("2023-05-20T16:00:00Z")}, ConflictWindow))
}
