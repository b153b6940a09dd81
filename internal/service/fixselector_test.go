package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

func accuracy(v float64) *float64 { return &v }

func TestFixSelector(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := models.Fix{Latitude: 55.75, Longitude: 37.61, Accuracy: accuracy(10), Provider: "gps", Time: t0}

	tests := []struct {
		name      string
		candidate models.Fix
		want      bool
	}{
		{
			name:      "less accurate and slightly older",
			candidate: models.Fix{Accuracy: accuracy(50), Provider: "gps", Time: t0.Add(-5 * time.Second)},
			want:      false,
		},
		{
			name:      "more accurate at the same time",
			candidate: models.Fix{Accuracy: accuracy(5), Provider: "gps", Time: t0},
			want:      true,
		},
		{
			name:      "significantly newer regardless of accuracy",
			candidate: models.Fix{Accuracy: accuracy(900), Provider: "network", Time: t0.Add(31 * time.Second)},
			want:      true,
		},
		{
			name:      "significantly older regardless of accuracy",
			candidate: models.Fix{Accuracy: accuracy(1), Provider: "gps", Time: t0.Add(-31 * time.Second)},
			want:      false,
		},
		{
			name:      "newer and equally accurate",
			candidate: models.Fix{Accuracy: accuracy(10), Provider: "network", Time: t0.Add(time.Second)},
			want:      true,
		},
		{
			name:      "newer, somewhat less accurate, same provider",
			candidate: models.Fix{Accuracy: accuracy(150), Provider: "gps", Time: t0.Add(5 * time.Second)},
			want:      true,
		},
		{
			name:      "newer, somewhat less accurate, other provider",
			candidate: models.Fix{Accuracy: accuracy(150), Provider: "network", Time: t0.Add(5 * time.Second)},
			want:      false,
		},
		{
			name:      "newer but far less accurate, same provider",
			candidate: models.Fix{Accuracy: accuracy(500), Provider: "gps", Time: t0.Add(5 * time.Second)},
			want:      false,
		},
		{
			name:      "newer without accuracy",
			candidate: models.Fix{Provider: "gps", Time: t0.Add(5 * time.Second)},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFixSelector(30*time.Second, 200)
			assert.True(t, s.Offer(current))

			assert.Equal(t, tt.want, s.Offer(tt.candidate))

			got, ok := s.Current()
			assert.True(t, ok)
			if tt.want {
				assert.Equal(t, tt.candidate, got)
			} else {
				assert.Equal(t, current, got)
			}
		})
	}
}

func TestFixSelector_FirstFixAlwaysAccepted(t *testing.T) {
	s := NewFixSelector(30*time.Second, 200)

	_, ok := s.Current()
	assert.False(t, ok)

	assert.True(t, s.Offer(models.Fix{Provider: "gps", Time: time.Unix(0, 0)}))
	_, ok = s.Current()
	assert.True(t, ok)
}

func TestFixSelector_RevertRestoresPreviousFix(t *testing.T) {
	s := NewFixSelector(30*time.Second, 200)
	t0 := time.Unix(1714564800, 0)
	first := models.Fix{Accuracy: accuracy(20), Provider: "gps", Time: t0}
	second := models.Fix{Accuracy: accuracy(10), Provider: "gps", Time: t0.Add(time.Second)}

	require.True(t, s.Offer(first))
	revert, ok := s.OfferRevertible(second)
	require.True(t, ok)

	revert()
	got, _ := s.Current()
	assert.Equal(t, first, got)

	// Тот же фикс после отката снова принимается
	_, ok = s.OfferRevertible(second)
	assert.True(t, ok)
}

func TestFixSelector_RevertKeepsNewerAcceptedFix(t *testing.T) {
	s := NewFixSelector(30*time.Second, 200)
	t0 := time.Unix(1714564800, 0)
	older := models.Fix{Accuracy: accuracy(20), Provider: "gps", Time: t0}
	newer := models.Fix{Accuracy: accuracy(5), Provider: "gps", Time: t0.Add(time.Second)}

	revert, ok := s.OfferRevertible(older)
	require.True(t, ok)
	require.True(t, s.Offer(newer))

	revert()
	got, _ := s.Current()
	assert.Equal(t, newer, got)
}

func TestFixSelector_RevertFirstFixClearsSelector(t *testing.T) {
	s := NewFixSelector(30*time.Second, 200)

	revert, ok := s.OfferRevertible(models.Fix{Provider: "gps", Time: time.Unix(0, 0)})
	require.True(t, ok)
	revert()

	_, ok = s.Current()
	assert.False(t, ok)
}
