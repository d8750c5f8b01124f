package panel

import (
	"testing"

	"github.com/richinsley/goshaderfx/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	keys map[rune]func()
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{keys: make(map[rune]func())}
}

func (b *fakeBinder) BindKey(r rune, f func()) { b.keys[r] = f }

func (b *fakeBinder) press(t *testing.T, r rune, times int) {
	t.Helper()
	f, ok := b.keys[r]
	require.True(t, ok, "key %c not bound", r)
	for i := 0; i < times; i++ {
		f()
	}
}

func TestScalarClampedToRange(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	store := params.NewStore()

	var seen []float64
	k.BindScalar("Noise Level", params.NoiseRange.Min, params.NoiseRange.Max, store.Noise(), func(v float64) {
		seen = append(seen, v)
		store.SetNoise(v)
	})

	b.press(t, 'W', 50)
	assert.Equal(t, params.NoiseRange.Max, store.Noise())
	b.press(t, 'Q', 50)
	assert.Equal(t, params.NoiseRange.Min, store.Noise())

	require.NotEmpty(t, seen)
	for _, v := range seen {
		assert.True(t, params.NoiseRange.Contains(v), "%v outside range", v)
	}
}

func TestContrastClampedToRange(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	store := params.NewStore()
	k.BindScalar("Noise Level", params.NoiseRange.Min, params.NoiseRange.Max, store.Noise(), store.SetNoise)
	k.BindScalar("Contrast Level", params.ContrastRange.Min, params.ContrastRange.Max, store.Contrast(), store.SetContrast)

	b.press(t, 'S', 100)
	assert.Equal(t, 2.0, store.Contrast())
	b.press(t, 'A', 100)
	assert.Equal(t, 0.1, store.Contrast())
	assert.Equal(t, params.DefaultNoise, store.Noise())
}

func TestScalarStep(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	var got float64
	k.BindScalar("Speed", 0, 2, 1, func(v float64) { got = v })

	b.press(t, 'W', 1)
	assert.InDelta(t, 1.1, got, 1e-9)
	b.press(t, 'Q', 2)
	assert.InDelta(t, 0.9, got, 1e-9)
}

func TestScalarOutOfRangeInitialIsClamped(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	var got []float64
	k.BindScalar("Noise Level", 0.1, 1.0, 3, func(v float64) { got = append(got, v) })

	// already at max; pressing up changes nothing
	b.press(t, 'W', 1)
	assert.Empty(t, got)
	b.press(t, 'Q', 1)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.955, got[0], 1e-9)
}

func TestEnumCycles(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	store := params.NewStore()
	k.BindEnum("Effect Type", params.EffectOptions, int(store.EffectMode()), store.SetEffectMode)

	b.press(t, 'W', 1)
	assert.Equal(t, params.ChromaticAberration, store.EffectMode())
	b.press(t, 'W', 1)
	assert.Equal(t, params.NightVision, store.EffectMode())
	b.press(t, 'Q', 1)
	assert.Equal(t, params.ChromaticAberration, store.EffectMode())

	for i := 0; i < 7; i++ {
		b.press(t, 'W', 1)
		mode := store.EffectMode()
		assert.True(t, mode == params.NightVision || mode == params.ChromaticAberration)
	}
}

func TestLayoutOrderAndExhaustion(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b, KeyPair{'1', '2'})
	k.BindScalar("first", 0, 1, 0, func(float64) {})
	k.BindScalar("second", 0, 1, 0, func(float64) {})

	assert.Len(t, b.keys, 2)
	assert.Contains(t, b.keys, '1')
	assert.Contains(t, b.keys, '2')
	assert.Equal(t, []string{"[1/2] first (0.00..1.00)"}, k.Help())
}

func TestEnumHelp(t *testing.T) {
	b := newFakeBinder()
	k := NewKeys(b)
	k.BindEnum("Effect Type", params.EffectOptions, 0, func(int) {})
	assert.Equal(t, []string{"[Q/W] Effect Type [NightVision ChromaticAberration]"}, k.Help())
}
