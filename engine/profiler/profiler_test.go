package profiler

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	draw     int
	pass     int
	vertices int

	cpuFrame float32
	gpuFrame float32
	timings  bool

	lastTimingsRequest int
}

func (f *fakeStats) DrawCalls() int { return f.draw }
func (f *fakeStats) PassCalls() int { return f.pass }
func (f *fakeStats) Vertices() int  { return f.vertices }

func (f *fakeStats) FrameTimings(cpu, gpu []float32) int {
	f.lastTimingsRequest = len(cpu)
	if !f.timings {
		return 0
	}
	for i := range cpu {
		cpu[i] = f.cpuFrame
		gpu[i] = f.gpuFrame
	}
	return len(cpu)
}

type fakeMemory struct {
	usage   uint64
	ceiling uint64
}

func (f *fakeMemory) Usage() uint64   { return f.usage }
func (f *fakeMemory) Ceiling() uint64 { return f.ceiling }

type fakePose struct {
	position mgl32.Vec3
	rotation mgl32.Quat
}

func (f *fakePose) Pose() (mgl32.Vec3, mgl32.Quat) { return f.position, f.rotation }
func (f *fakePose) Fov() float32                   { return fov45 }
func (f *fakePose) Near() float32                  { return 0.1 }

const mb = 1 << 20

type harness struct {
	p      *visualProfiler
	stats  *fakeStats
	memory *fakeMemory
	sub    *fakeSubmitter
}

func newHarness(t *testing.T, options ...ProfilerBuilderOption) *harness {
	t.Helper()
	h := &harness{
		stats:  &fakeStats{draw: 10, pass: 3, vertices: 12345},
		memory: &fakeMemory{usage: 100 * mb, ceiling: 400 * mb},
		sub:    &fakeSubmitter{instancing: true},
	}
	base := []ProfilerBuilderOption{
		WithFrameStats(h.stats),
		WithMemoryReporter(h.memory),
		WithSubmitter(h.sub),
		WithGlyphAtlas(testAtlas),
	}
	p, ok := NewProfiler(append(base, options...)...).(*visualProfiler)
	require.True(t, ok)
	h.p = p
	return h
}

func hiddenSettings() Settings {
	s := DefaultSettings()
	s.Visible = false
	return s
}

func (h *harness) runSlots(field Field) []Slot {
	r := h.p.layout.text[field].slots
	return h.p.Slots()[r.start:r.end()]
}

func TestNewProfilerStartsVisibleWithPlaceholderFrameRate(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.p.Visible())
	assert.Equal(t, "- fps (-.- ms)", h.p.Text(FieldCPUFrameRate))
	assert.Equal(t, "", h.p.Text(FieldGPUFrameRate))
}

func TestFirstUpdatePaintsEveryStatistic(t *testing.T) {
	h := newHarness(t)
	h.p.Update(0.016)

	assert.Equal(t, "Draw/Pass: 10/3", h.p.Text(FieldDrawPass))
	assert.Equal(t, "Verts: 12.3k", h.p.Text(FieldVertices))
	assert.Equal(t, "Used: 100.0MB", h.p.Text(FieldUsedMemory))
	assert.Equal(t, "Peak: 100.0MB", h.p.Text(FieldPeakMemory))
	assert.Equal(t, "Limit: 400.0MB", h.p.Text(FieldLimitMemory))

	used := h.p.Slots()[h.p.layout.usedBar.start]
	assert.InDelta(t, memoryBarFootprint.X()*0.25, used.Transform.At(0, 0), 1e-6)
}

func TestDrawCallChangeRewritesOnlyItsText(t *testing.T) {
	h := newHarness(t)
	h.p.Update(0.016)
	vertsBefore := h.runSlots(FieldVertices)

	h.stats.draw = 15
	h.p.Update(0.016)

	assert.Equal(t, "Draw/Pass: 15/3", h.p.Text(FieldDrawPass))
	assert.Equal(t, vertsBefore, h.runSlots(FieldVertices))
}

func TestMemoryTextUsesConfiguredDecimals(t *testing.T) {
	h := newHarness(t)
	h.memory.usage = 104_857_600
	h.p.Update(0.016)
	assert.Equal(t, "Used: 100.0MB", h.p.Text(FieldUsedMemory))

	s := h.p.Settings()
	s.Decimals = 2
	h.p.ApplySettings(s)
	h.p.Update(0.016)
	assert.Equal(t, "Used: 100.00MB", h.p.Text(FieldUsedMemory))
	assert.Equal(t, "Limit: 400.00MB", h.p.Text(FieldLimitMemory))
}

func TestSuppressedMemoryChangeKeepsText(t *testing.T) {
	h := newHarness(t)
	h.memory.usage = 1_050_000
	h.p.Update(0.016)
	before := h.runSlots(FieldUsedMemory)
	assert.Equal(t, "Used: 1.0MB", h.p.Text(FieldUsedMemory))

	h.memory.usage = 1_060_000
	h.p.Update(0.016)
	assert.Equal(t, before, h.runSlots(FieldUsedMemory))

	h.memory.usage = 1_160_000
	h.p.Update(0.016)
	assert.NotEqual(t, before, h.runSlots(FieldUsedMemory))
	assert.Equal(t, "Used: 1.1MB", h.p.Text(FieldUsedMemory))
}

func TestShownTextMatchesLatestSampleAfterSmallDrifts(t *testing.T) {
	h := newHarness(t)
	h.memory.ceiling = 0

	steps := []struct {
		vertices int
		usage    uint64
	}{
		{12000, 1_048_000},
		{12080, 1_049_000},
		{12120, 1_100_000},
		{12120, 1_100_000},
		{12190, 1_150_000},
		{12201, 1_160_000},
	}
	for _, step := range steps {
		h.stats.vertices = step.vertices
		h.memory.usage = step.usage
		h.p.Update(0.016)

		var want textBuffer
		formatVertices(&want, step.vertices, 1)
		assert.Equal(t, want.String(), h.p.Text(FieldVertices))

		formatMemory(&want, usedMemoryPrefix, step.usage, 1)
		assert.Equal(t, want.String(), h.p.Text(FieldUsedMemory))
	}
	assert.Equal(t, "Verts: 12.2k", h.p.Text(FieldVertices))
	assert.Equal(t, "Used: 1.1MB", h.p.Text(FieldUsedMemory))
}

func TestFrameRateSampling(t *testing.T) {
	h := newHarness(t)
	h.stats.timings = true
	h.stats.cpuFrame = 1.0 / 64
	h.stats.gpuFrame = 1.0 / 8

	h.p.Update(0.5)

	assert.Equal(t, "64 fps (15.6 ms)", h.p.Text(FieldCPUFrameRate))
	assert.Equal(t, "GPU: 8 fps (125.0 ms)", h.p.Text(FieldGPUFrameRate))

	cpuSlot := h.runSlots(FieldCPUFrameRate)[0]
	assert.Equal(t, h.p.settings.Palette.Target, cpuSlot.Color)
	gpuSlot := h.runSlots(FieldGPUFrameRate)[0]
	assert.Equal(t, h.p.settings.Palette.Missed, gpuSlot.Color)

	newest := h.p.Slots()[h.p.layout.frames.start]
	assert.Equal(t, h.p.settings.Palette.Target, newest.Color)
}

func TestMissingGPUTimingHidesGPUText(t *testing.T) {
	h := newHarness(t)
	h.stats.timings = true
	h.stats.cpuFrame = 1.0 / 64
	h.stats.gpuFrame = 1.0 / 32
	h.p.Update(0.5)
	require.NotEmpty(t, h.p.Text(FieldGPUFrameRate))

	h.stats.gpuFrame = 0
	h.p.Update(0.5)

	assert.Empty(t, h.p.Text(FieldGPUFrameRate))
	for _, s := range h.runSlots(FieldGPUFrameRate) {
		assert.True(t, s.Degenerate())
	}
}

func TestMissedFramesColorTheHistoryStrip(t *testing.T) {
	h := newHarness(t, WithRefreshRate(fakeRefresh(120)))
	h.p.Update(0.5) // 2 fps against a 120 Hz target

	newest := h.p.Slots()[h.p.layout.frames.start]
	older := h.p.Slots()[h.p.layout.frames.start+1]
	assert.Equal(t, h.p.settings.Palette.Missed, newest.Color)
	assert.Equal(t, h.p.settings.Palette.Target, older.Color)
}

func TestHiddenToVisibleResetsStatistics(t *testing.T) {
	h := newHarness(t, WithSettings(hiddenSettings()))
	h.p.Update(0.016)
	assert.Equal(t, uint64(100*mb), h.p.sampler.memoryUsage, "memory is tracked while hidden")
	assert.Zero(t, h.p.sampler.drawCalls, "scene statistics are not sampled while hidden")

	h.p.sampler.drawCalls = 99
	h.p.sampler.frameCount = 5
	h.p.sampler.elapsed = 0.05
	h.p.Show()

	assert.True(t, h.p.Visible())
	assert.Zero(t, h.p.sampler.frameCount, "frames from before the overlay was hidden are dropped")
	assert.Zero(t, h.p.sampler.elapsed)
	assert.Zero(t, h.p.sampler.drawCalls)
	assert.Zero(t, h.p.sampler.memoryUsage)
	assert.Zero(t, h.p.sampler.peakMemory)
	assert.Zero(t, h.p.sampler.memoryLimit)
	assert.True(t, h.p.repaint)

	h.p.Update(0.016)
	assert.Equal(t, "Draw/Pass: 10/3", h.p.Text(FieldDrawPass))
	assert.Equal(t, "Used: 100.0MB", h.p.Text(FieldUsedMemory))
}

func TestVisibleToHiddenKeepsStatistics(t *testing.T) {
	h := newHarness(t)
	h.p.Update(0.016)

	h.p.Hide()
	assert.False(t, h.p.Visible())
	assert.Equal(t, 10, h.p.sampler.drawCalls)
	assert.Equal(t, uint64(100*mb), h.p.sampler.peakMemory)

	h.p.Hide()
	assert.Equal(t, 10, h.p.sampler.drawCalls)
}

func TestToggleFromVisibleDoesNotReset(t *testing.T) {
	h := newHarness(t)
	h.p.Update(0.016)

	h.p.Toggle()
	assert.False(t, h.p.Visible())
	assert.Equal(t, 3, h.p.sampler.passCalls)

	h.p.Toggle()
	assert.True(t, h.p.Visible())
	assert.Zero(t, h.p.sampler.passCalls)
}

func TestTriggerCommandsApplyOnUpdate(t *testing.T) {
	trigger := NewKeywordTrigger(nil)
	h := newHarness(t, WithTrigger(trigger))

	trigger.Recognize("hide profiler")
	assert.True(t, h.p.Visible(), "commands wait for the next update")

	h.p.Update(0.016)
	assert.False(t, h.p.Visible())

	trigger.Recognize("profiler")
	h.p.Update(0.016)
	assert.True(t, h.p.Visible())
}

type chanTrigger chan Command

func (c chanTrigger) Commands() <-chan Command { return c }

func TestMultipleTriggersAndClosedTrigger(t *testing.T) {
	keys := NewKeyTrigger(80)
	closing := make(chanTrigger, 1)
	h := newHarness(t, WithTrigger(keys), WithTrigger(nil), WithTrigger(closing))
	require.Len(t, h.p.triggers, 2)

	closing <- CommandHide
	close(closing)
	h.p.Update(0.016)
	assert.False(t, h.p.Visible())
	require.Len(t, h.p.triggers, 1, "a closed trigger is dropped")

	keys.HandleKeyDown(80)
	h.p.Update(0.016)
	assert.True(t, h.p.Visible())
}

func TestApplySettingsVisibilityAndPalette(t *testing.T) {
	h := newHarness(t)

	s := h.p.Settings()
	s.Palette.Base = mgl32.Vec4{0, 0, 1, 1}
	s.Scale = 40
	h.p.ApplySettings(s)
	assert.Equal(t, float32(5), h.p.Settings().Scale)

	h.p.Update(0.016)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, h.p.Slots()[h.p.layout.backplate.start].Color)

	s.Visible = false
	h.p.ApplySettings(s)
	h.p.Update(0.016)
	assert.False(t, h.p.Visible())
}

func TestUnknownCeilingRendersEmptyBars(t *testing.T) {
	h := newHarness(t)
	h.memory.ceiling = 0
	h.p.Update(0.016)

	slots := h.p.Slots()
	assert.True(t, slots[h.p.layout.usedBar.start].Degenerate())
	assert.True(t, slots[h.p.layout.peakBar.start].Degenerate())
	assert.False(t, slots[h.p.layout.limitBar.start].Degenerate())
	assert.Equal(t, "Limit: 0.0MB", h.p.Text(FieldLimitMemory))
}

func TestDrawSkipsWhileHidden(t *testing.T) {
	h := newHarness(t)
	h.p.Update(0.016)
	require.NoError(t, h.p.Draw())
	assert.Len(t, h.sub.batches, 1)

	h.p.Hide()
	require.NoError(t, h.p.Draw())
	assert.Len(t, h.sub.batches, 1)
}

func TestDrawSwallowsSubmitterErrors(t *testing.T) {
	h := newHarness(t)
	h.sub.drawErr = errors.New("surface lost")

	assert.NoError(t, h.p.Draw())
	assert.Equal(t, "failed to draw overlay batch: surface lost", h.p.lastDrawErr)

	h.sub.drawErr = nil
	assert.NoError(t, h.p.Draw())
	assert.Empty(t, h.p.lastDrawErr)
}

func TestWindowFollowsPose(t *testing.T) {
	pose := &fakePose{position: mgl32.Vec3{0, 1, 5}, rotation: mgl32.QuatIdent()}
	s := DefaultSettings()
	s.Anchor = AnchorMiddleCenter
	h := newHarness(t, WithPoseProvider(pose), WithSettings(s))

	for range 200 {
		h.p.Update(0.05)
	}

	require.NoError(t, h.p.Draw())
	world := h.p.World()
	want := mgl32.Vec3{0, 1, 5 - windowDistance(fov45, 0.1)}
	assertVec3Near(t, want, world.Col(3).Vec3(), 1e-4)
	assert.Equal(t, h.p.settings.Palette.Base, h.sub.lastParams.BaseColor)
}

func TestReleaseFreesSubmitter(t *testing.T) {
	h := newHarness(t)
	h.p.Release()
	assert.True(t, h.sub.released)
	assert.NoError(t, h.p.Draw())
}
