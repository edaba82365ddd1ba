package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testParams() Params {
	return Params{
		ShortLength:       9,
		LongLength:        21,
		Interval:          "5m",
		HysteresisPct:     0.5,
		HysteresisPeriods: 3,
		Variant:           config.VariantBand,
	}
}

func TestRegistry_GetOrCreateKeepsState(t *testing.T) {
	r := NewRegistry(testParams(), NewDetector)

	e := r.GetOrCreate("uid-1", "SBER")
	e.Detector.Update(models.EmaSample{ShortEMA: 100.6, LongEMA: 100})
	e.Detector.Update(models.EmaSample{ShortEMA: 100.7, LongEMA: 100})

	// next cycle
	again := r.GetOrCreate("uid-1", "SBER")
	require.Same(t, e, again)
	assert.Equal(t, models.ZoneAbove, again.Detector.State().Zone)
	assert.Equal(t, uint(2), again.Detector.State().TimeInZone)
	assert.Equal(t, models.SignalBuy, again.Detector.Update(models.EmaSample{ShortEMA: 100.8, LongEMA: 100}))
}

func TestRegistry_NewEntryHasZeroState(t *testing.T) {
	r := NewRegistry(testParams(), NewDetector)

	e := r.GetOrCreate("uid-2", "GAZP")
	assert.Equal(t, DetectorState{Zone: models.ZoneBetween}, e.Detector.State())
	assert.Equal(t, testParams(), e.Params)
	assert.Equal(t, "GAZP", e.Ticker)
	assert.False(t, e.HasSample)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_VariantSelectsDetector(t *testing.T) {
	p := testParams()
	p.Variant = config.VariantCrossing
	r := NewRegistry(p, NewDetector)

	_, ok := r.GetOrCreate("uid-1", "SBER").Detector.(*CrossingDetector)
	assert.True(t, ok)
}

func TestRegistry_IDsSorted(t *testing.T) {
	r := NewRegistry(testParams(), NewDetector)
	for _, id := range []string{"c", "a", "b"} {
		r.GetOrCreate(id, "")
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.IDs())

	_, ok := r.Get("b")
	assert.True(t, ok)
	_, ok = r.Get("z")
	assert.False(t, ok)
}

func TestRegistry_PruneDisabledByDefault(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := NewRegistry(testParams(), NewDetector, WithClock(clock.Now))

	r.GetOrCreate("uid-1", "SBER")
	clock.Advance(365 * 24 * time.Hour)

	assert.Nil(t, r.Prune())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_PruneDropsOnlyStale(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := NewRegistry(testParams(), NewDetector, WithClock(clock.Now), WithEvictAfter(time.Hour))

	r.GetOrCreate("gone-b", "")
	r.GetOrCreate("gone-a", "")
	r.GetOrCreate("alive", "")

	clock.Advance(50 * time.Minute)
	r.GetOrCreate("alive", "")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, []string{"gone-a", "gone-b"}, r.Prune())
	assert.Equal(t, []string{"alive"}, r.IDs())
}

func TestRegistry_GetOrCreateRefreshesLastSeenWithoutSample(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := NewRegistry(testParams(), NewDetector, WithClock(clock.Now))

	e := r.GetOrCreate("uid-1", "SBER")
	created := clock.Now()

	// tradable every cycle, but evaluation keeps failing: no sample recorded
	for i := 0; i < 3; i++ {
		clock.Advance(5 * time.Minute)
		again := r.GetOrCreate("uid-1", "")
		require.Same(t, e, again)
	}

	assert.False(t, e.HasSample)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, clock.Now(), e.LastSeen)
	assert.Equal(t, "SBER", e.Ticker)
	assert.Equal(t, DetectorState{Zone: models.ZoneBetween}, e.Detector.State())
}

func TestRegistry_FailingButSeenEntrySurvivesPrune(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := NewRegistry(testParams(), NewDetector, WithClock(clock.Now), WithEvictAfter(10*time.Minute))

	r.GetOrCreate("failing", "")
	r.GetOrCreate("dropped", "")
	for i := 0; i < 3; i++ {
		clock.Advance(6 * time.Minute)
		r.GetOrCreate("failing", "")
		r.Prune()
	}

	assert.Equal(t, []string{"failing"}, r.IDs())
}
