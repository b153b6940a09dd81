package service

import (
	"math"
	"sync"
	"time"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// FixSelector хранит текущий лучший фикс устройства и решает, заменяет ли его новый.
// Эвристика смещена в сторону свежести, чтобы следить за движущимся устройством.
type FixSelector struct {
	mu      sync.RWMutex
	current *models.Fix

	freshness       time.Duration
	inaccuracyLimit float64
}

// NewFixSelector создает селектор. freshness - порог "существенно новее/старше",
// inaccuracyLimit - насколько хуже по точности может быть новый фикс того же провайдера.
func NewFixSelector(freshness time.Duration, inaccuracyLimit float64) *FixSelector {
	return &FixSelector{freshness: freshness, inaccuracyLimit: inaccuracyLimit}
}

// Offer принимает фикс, если он лучше текущего, и делает его текущим
func (s *FixSelector) Offer(candidate models.Fix) bool {
	_, ok := s.OfferRevertible(candidate)
	return ok
}

// OfferRevertible работает как Offer и возвращает откат принятого фикса.
// Откат возвращает предыдущий фикс, только если после этого фикса не был принят другой.
func (s *FixSelector) OfferRevertible(candidate models.Fix) (revert func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.isBetter(candidate, *s.current) {
		return func() {}, false
	}
	prev := s.current
	accepted := &candidate
	s.current = accepted
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.current == accepted {
			s.current = prev
		}
	}, true
}

// Current возвращает текущий фикс, ok=false если фиксов еще не было
func (s *FixSelector) Current() (models.Fix, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Fix{}, false
	}
	return *s.current, true
}

func (s *FixSelector) isBetter(candidate, current models.Fix) bool {
	timeDelta := candidate.Time.Sub(current.Time)
	switch {
	case timeDelta > s.freshness:
		return true
	case timeDelta < -s.freshness:
		return false
	}
	isNewer := timeDelta > 0

	accuracyDelta := accuracyOf(candidate) - accuracyOf(current)
	isLessAccurate := accuracyDelta > 0
	isMoreAccurate := accuracyDelta < 0
	isSignificantlyLessAccurate := accuracyDelta > s.inaccuracyLimit
	sameProvider := candidate.Provider == current.Provider

	switch {
	case isMoreAccurate:
		return true
	case isNewer && !isLessAccurate:
		return true
	case isNewer && !isSignificantlyLessAccurate && sameProvider:
		return true
	}
	return false
}

// accuracyOf - радиус погрешности в метрах; фикс без точности считается наихудшим
func accuracyOf(f models.Fix) float64 {
	if f.Accuracy == nil {
		return math.MaxFloat64
	}
	return *f.Accuracy
}
