package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	s, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, profiler.DefaultSettings(), s)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, profiler.DefaultSettings(), s)
	assert.Empty(t, l.ConfigFile())
	assert.ErrorIs(t, l.Watch(nil), ErrNoConfigFile)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "profiler.yaml", `
visible: false
sample_rate: 0.25
anchor: upper_left
offset: [0.2, 0.05]
scale: 9
follow_speed: -1
decimals: 2
colors:
  missed: [1, 0, 0]
  base: [0, 0, 0, 0.5]
`)

	l := NewLoader(WithConfigFile(path))
	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, path, l.ConfigFile())

	assert.False(t, s.Visible)
	assert.InDelta(t, 0.25, s.SampleRate, 1e-6)
	assert.Equal(t, profiler.AnchorUpperLeft, s.Anchor)
	assert.InDelta(t, 0.2, s.Offset.X(), 1e-6)
	assert.InDelta(t, 0.05, s.Offset.Y(), 1e-6)
	assert.Equal(t, float32(5), s.Scale, "scale is clamped")
	assert.Equal(t, float32(0), s.FollowSpeed, "follow speed is clamped")
	assert.Equal(t, 2, s.Decimals)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, s.Palette.Missed)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0.5}, s.Palette.Base)
	assert.Equal(t, profiler.DefaultPalette().Used, s.Palette.Used, "unset colors keep their defaults")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "profiler.yaml", "scale: 2\nanchor: lower_right\n")
	t.Setenv("OXY_PROFILER_SCALE", "3")
	t.Setenv("OXY_PROFILER_DECIMALS", "0")
	t.Setenv("OXY_PROFILER_COLORS_PEAK", "0,1,0")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(3), s.Scale)
	assert.Equal(t, 0, s.Decimals)
	assert.Equal(t, profiler.AnchorLowerRight, s.Anchor)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, s.Palette.Peak)
}

func TestEnvPrefixOption(t *testing.T) {
	t.Setenv("DEMO_ANCHOR", "center")
	_, err := NewLoader(WithEnvPrefix("DEMO")).Load()
	assert.ErrorIs(t, err, profiler.ErrUnknownAnchor)

	t.Setenv("DEMO_ANCHOR", "middle_center")
	s, err := NewLoader(WithEnvPrefix("DEMO")).Load()
	require.NoError(t, err)
	assert.Equal(t, profiler.AnchorMiddleCenter, s.Anchor)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]struct {
		body string
		err  error
	}{
		"anchor": {body: "anchor: sideways\n", err: profiler.ErrUnknownAnchor},
		"color":  {body: "colors:\n  used: [1, 1]\n", err: profiler.ErrInvalidColor},
		"offset": {body: "offset: [1, 2, 3]\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), "profiler.yaml", tc.body))
			require.Error(t, err)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "overlay.toml", "decimals = 3\n")

	l := NewLoader(WithSearchPaths("overlay", filepath.Join(dir, "nope"), dir))
	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Decimals)
	assert.Equal(t, filepath.Join(dir, "overlay.toml"), l.ConfigFile())
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "profiler.yaml", "scale: 1\n")
	l := NewLoader(WithConfigFile(path))
	_, err := l.Load()
	require.NoError(t, err)

	reloaded := make(chan profiler.Settings, 16)
	require.NoError(t, l.Watch(func(s profiler.Settings) { reloaded <- s }))
	require.NoError(t, l.Watch(nil), "watching twice is a no-op")

	require.NoError(t, os.WriteFile(path, []byte("scale: 4\n"), 0o644))

	assert.Eventually(t, func() bool {
		for {
			select {
			case s := <-reloaded:
				if s.Scale == 4 {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 20*time.Millisecond)
}
