package config

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"
)

// rawSettings is the file and environment shape of profiler.Settings.
type rawSettings struct {
	Visible     bool       `mapstructure:"visible"`
	SampleRate  float32    `mapstructure:"sample_rate"`
	Anchor      string     `mapstructure:"anchor"`
	Offset      []float32  `mapstructure:"offset"`
	Scale       float32    `mapstructure:"scale"`
	FollowSpeed float32    `mapstructure:"follow_speed"`
	Decimals    int        `mapstructure:"decimals"`
	Colors      rawPalette `mapstructure:"colors"`
}

type rawPalette struct {
	Base   []float32 `mapstructure:"base"`
	Target []float32 `mapstructure:"target"`
	Missed []float32 `mapstructure:"missed"`
	Used   []float32 `mapstructure:"used"`
	Peak   []float32 `mapstructure:"peak"`
	Limit  []float32 `mapstructure:"limit"`
}

// setDefaults registers every key, which also makes each one visible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper, d profiler.Settings) {
	v.SetDefault("visible", d.Visible)
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("anchor", d.Anchor.String())
	v.SetDefault("offset", []float32{d.Offset.X(), d.Offset.Y()})
	v.SetDefault("scale", d.Scale)
	v.SetDefault("follow_speed", d.FollowSpeed)
	v.SetDefault("decimals", d.Decimals)

	v.SetDefault("colors.base", colorSlice(d.Palette.Base))
	v.SetDefault("colors.target", colorSlice(d.Palette.Target))
	v.SetDefault("colors.missed", colorSlice(d.Palette.Missed))
	v.SetDefault("colors.used", colorSlice(d.Palette.Used))
	v.SetDefault("colors.peak", colorSlice(d.Palette.Peak))
	v.SetDefault("colors.limit", colorSlice(d.Palette.Limit))
}

func colorSlice(c mgl32.Vec4) []float32 {
	return []float32{c[0], c[1], c[2], c[3]}
}

func (r rawSettings) settings() (profiler.Settings, error) {
	anchor, err := profiler.ParseAnchor(r.Anchor)
	if err != nil {
		return profiler.Settings{}, err
	}
	if len(r.Offset) != 2 {
		return profiler.Settings{}, fmt.Errorf("offset must have 2 components, got %d", len(r.Offset))
	}
	palette, err := r.Colors.palette()
	if err != nil {
		return profiler.Settings{}, err
	}

	return profiler.Settings{
		Visible:     r.Visible,
		SampleRate:  r.SampleRate,
		Anchor:      anchor,
		Offset:      mgl32.Vec2{r.Offset[0], r.Offset[1]},
		Scale:       r.Scale,
		FollowSpeed: r.FollowSpeed,
		Decimals:    r.Decimals,
		Palette:     palette,
	}, nil
}

func (r rawPalette) palette() (profiler.Palette, error) {
	var p profiler.Palette
	colors := []struct {
		name string
		in   []float32
		out  *mgl32.Vec4
	}{
		{"base", r.Base, &p.Base},
		{"target", r.Target, &p.Target},
		{"missed", r.Missed, &p.Missed},
		{"used", r.Used, &p.Used},
		{"peak", r.Peak, &p.Peak},
		{"limit", r.Limit, &p.Limit},
	}
	for _, c := range colors {
		v, err := profiler.ColorFromSlice(c.in)
		if err != nil {
			return profiler.Palette{}, fmt.Errorf("colors.%s: %w", c.name, err)
		}
		*c.out = v
	}
	return p, nil
}
