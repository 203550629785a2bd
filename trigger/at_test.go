package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-03-31 is a Sunday.
func istanbul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return loc
}

func TestAt_NextOccurrence(t *testing.T) {
	loc := istanbul(t)
	now := time.Date(2024, 3, 31, 14, 0, 0, 0, loc)

	tests := []struct {
		name string
		at   *At
		want time.Duration
	}{
		{
			name: "later today on the matching weekday",
			at:   &At{On: EverySunday, Hour: 14, Minute: 1, Location: loc},
			want: 60 * time.Second,
		},
		{
			name: "seconds ahead on the matching weekday",
			at:   &At{On: EverySunday, Hour: 14, Second: 59, Location: loc},
			want: 59 * time.Second,
		},
		{
			name: "every day, later today",
			at:   &At{On: EveryDay, Hour: 14, Second: 59, Location: loc},
			want: 59 * time.Second,
		},
		{
			name: "weekday already passed this week",
			at:   &At{On: EverySaturday, Hour: 14, Location: loc},
			want: 6 * 24 * time.Hour,
		},
		{
			name: "every day, time already passed",
			at:   &At{On: EveryDay, Hour: 13, Location: loc},
			want: 23 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.at.Validate())
			d, err := tt.at.Next(now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestAt_Validate(t *testing.T) {
	assert.NoError(t, NewAt(23, 59, 59, nil).Validate())
	assert.Error(t, NewAt(24, 0, 0, nil).Validate())
	assert.Error(t, NewAt(0, 60, 0, nil).Validate())
	assert.Error(t, NewAt(0, 0, -1, nil).Validate())
	assert.Error(t, (&At{On: "every weekend"}).Validate())
}

func TestCron_NextWithinADay(t *testing.T) {
	loc := istanbul(t)
	now := time.Date(2024, 3, 31, 14, 0, 0, 0, loc)

	tr, err := NewCron("0 12 * * *", loc)
	require.NoError(t, err)

	d, err := tr.Next(now)
	require.NoError(t, err)
	// 14:00 -> next day 12:00
	assert.Equal(t, 22*time.Hour, d)
}

func TestCron_RejectsBadExpression(t *testing.T) {
	_, err := NewCron("not a schedule", nil)
	assert.Error(t, err)
}
