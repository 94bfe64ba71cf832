// Package profiler implements an in-scene performance overlay. It shows frame rate, draw/pass calls, vertex
// count and memory usage as a small window that follows the camera, drawn from a fixed table of instanced quads.
package profiler

import (
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var textWhite = mgl32.Vec4{1, 1, 1, 1}

type visualProfiler struct {
	mu *sync.Mutex

	settings Settings
	pending  *Settings
	visible  bool
	// repaint forces every text run to be regenerated on the next visible tick.
	repaint bool

	layout       layout
	table        InstanceTable
	atlas        *GlyphAtlas
	frameStrings frameRateStrings
	texts        [fieldCount]textBuffer

	track     frameTrack
	sampler   statisticsSampler
	placement windowPlacement

	stats     FrameStatsSource
	memory    MemoryReporter
	pose      PoseProvider
	refresh   RefreshRateSource
	triggers  []Trigger
	submitter Submitter
	overlay   *overlayRenderer
	console   *consoleSummary

	lastDrawErr string
}

// Profiler is the visual performance overlay. It satisfies the engine's layer contract (Active, Update, Draw),
// so it is driven by the render loop once per frame.
type Profiler interface {
	// Active always reports true. Memory statistics are tracked even while the overlay is hidden.
	Active() bool

	// Update advances the profiler by one frame: it applies pending commands and settings, moves the window
	// toward its target pose, samples statistics and regenerates any text whose displayed value changed.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Update(dt float32)

	// Draw submits the overlay through the configured Submitter. It is a no-op while hidden or without a submitter.
	// Draw failures are logged, never returned, so the host loop is not disturbed.
	//
	// Returns:
	//   - error: always nil
	Draw() error

	// Visible reports whether the overlay is shown.
	Visible() bool

	// Toggle flips visibility. Becoming visible resets all cached statistics.
	Toggle()

	// Show makes the overlay visible, resetting statistics if it was hidden.
	Show()

	// Hide hides the overlay. Cached statistics are kept.
	Hide()

	// SetVisible shows or hides the overlay.
	//
	// Parameters:
	//   - visible: the requested visibility
	SetVisible(visible bool)

	// ApplySettings queues new settings, normalized, for the next Update. Safe to call from any goroutine.
	//
	// Parameters:
	//   - s: the settings to apply
	ApplySettings(s Settings)

	// Settings returns the active settings, or the queued ones if an update is pending.
	//
	// Returns:
	//   - Settings: the settings
	Settings() Settings

	// Text returns the text currently shown by field.
	//
	// Parameters:
	//   - field: the text field
	//
	// Returns:
	//   - string: the displayed text, empty if the field is blank
	Text(field Field) string

	// Slots returns a copy of the instance table.
	//
	// Returns:
	//   - []Slot: every slot in draw order
	Slots() []Slot

	// World returns the window's current local-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the window transform including scale
	World() mgl32.Mat4

	// Release frees the submitter's GPU resources.
	Release()
}

var _ Profiler = &visualProfiler{}

// NewProfiler creates a visual profiler. Without WithMemoryReporter it reads the Go runtime; without
// WithSubmitter it samples statistics but draws nothing.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - Profiler: the newly created profiler
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &visualProfiler{
		mu:        &sync.Mutex{},
		settings:  DefaultSettings(),
		layout:    newLayout(),
		track:     newFrameTrack(),
		placement: newWindowPlacement(),
	}
	for _, option := range options {
		option(p)
	}

	if p.atlas == nil {
		p.atlas = NewGlyphAtlas()
	}
	if p.memory == nil {
		p.memory = NewRuntimeMemoryReporter()
	}
	if p.submitter != nil {
		p.overlay = newOverlayRenderer(p.submitter)
	}

	p.settings = p.settings.Normalize()
	p.visible = p.settings.Visible
	p.repaint = true
	p.frameStrings.build(p.settings.Decimals)
	p.buildWindow()

	return p
}

func (p *visualProfiler) Active() bool {
	return true
}

func (p *visualProfiler) Update(dt float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.drainTriggers()
	if p.pending != nil {
		p.applySettings(*p.pending)
		p.pending = nil
	}

	if p.visible {
		p.followCamera(dt)
		p.sampleFrameRate(dt)
		p.sampleScene()
	}
	p.sampleMemory()

	if p.visible {
		p.repaint = false
	}
	if p.console != nil {
		p.console.tick(dt, &p.sampler)
	}
}

func (p *visualProfiler) Draw() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.visible || p.overlay == nil {
		return nil
	}

	params := OverlayParams{
		World:     p.placement.world(p.settings.Scale),
		BaseColor: p.settings.Palette.Base,
	}
	if err := p.overlay.draw(&p.table, params); err != nil {
		if msg := err.Error(); msg != p.lastDrawErr {
			log.Printf("[Profiler] %v", err)
			p.lastDrawErr = msg
		}
		return nil
	}
	p.lastDrawErr = ""
	return nil
}

func (p *visualProfiler) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *visualProfiler) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVisible(!p.visible)
}

func (p *visualProfiler) Show() {
	p.SetVisible(true)
}

func (p *visualProfiler) Hide() {
	p.SetVisible(false)
}

func (p *visualProfiler) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVisible(visible)
}

func (p *visualProfiler) ApplySettings(s Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	normalized := s.Normalize()
	p.pending = &normalized
}

func (p *visualProfiler) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return *p.pending
	}
	return p.settings
}

func (p *visualProfiler) Text(field Field) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if field < 0 || field >= fieldCount {
		return ""
	}
	return p.texts[field].String()
}

func (p *visualProfiler) Slots() []Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Slot, SlotCount)
	copy(out, p.table.Slots())
	return out
}

func (p *visualProfiler) World() mgl32.Mat4 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placement.world(p.settings.Scale)
}

func (p *visualProfiler) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.overlay != nil {
		p.overlay.release()
		p.overlay = nil
	}
}

// setVisible applies a visibility transition. Hidden to visible resets statistics; the reverse keeps them.
// Caller must hold the mutex.
func (p *visualProfiler) setVisible(visible bool) {
	if visible == p.visible {
		return
	}
	p.visible = visible
	p.settings.Visible = visible
	if visible {
		p.sampler.reset()
		p.repaint = true
	}
	log.Printf("[Profiler] visible: %t", visible)
}

// handleCommand applies one trigger command. Caller must hold the mutex.
func (p *visualProfiler) handleCommand(cmd Command) {
	switch cmd {
	case CommandToggle:
		p.setVisible(!p.visible)
	case CommandShow:
		p.setVisible(true)
	case CommandHide:
		p.setVisible(false)
	}
}

// drainTriggers applies every command queued by the triggers without blocking. A trigger whose channel closes
// is dropped. Caller must hold the mutex.
func (p *visualProfiler) drainTriggers() {
	kept := p.triggers[:0]
	for _, t := range p.triggers {
		if p.drainTrigger(t.Commands()) {
			kept = append(kept, t)
		}
	}
	clear(p.triggers[len(kept):])
	p.triggers = kept
}

// drainTrigger reports whether the channel is still open. Caller must hold the mutex.
func (p *visualProfiler) drainTrigger(commands <-chan Command) bool {
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return false
			}
			p.handleCommand(cmd)
		default:
			return true
		}
	}
}

// applySettings swaps in normalized settings and rebuilds whatever depends on the fields that changed.
// Caller must hold the mutex.
func (p *visualProfiler) applySettings(next Settings) {
	prev := p.settings
	p.settings = next
	p.settings.Visible = p.visible

	if next.Decimals != prev.Decimals {
		p.frameStrings.build(next.Decimals)
		p.repaint = true
	}
	if next.Palette != prev.Palette {
		p.paintStatic()
		p.repaint = true
	}
	p.setVisible(next.Visible)
}

// buildWindow lays out every slot that does not carry text. Caller must hold the mutex or own p exclusively.
func (p *visualProfiler) buildWindow() {
	white := p.atlas.WhiteUV()
	p.table.set(p.layout.backplate.index(0), Slot{Transform: trs(mgl32.Vec3{}, windowSize), UV: white})
	for i := range FrameRange {
		p.table.set(p.layout.frames.index(i), Slot{Transform: frameCellTransform(i), UV: white})
	}
	p.table.set(p.layout.limitBar.index(0), Slot{Transform: memoryBarTransform(1), UV: white})
	p.table.set(p.layout.peakBar.index(0), Slot{Transform: memoryBarTransform(p.sampler.peakFill()), UV: white})
	p.table.set(p.layout.usedBar.index(0), Slot{Transform: memoryBarTransform(p.sampler.usedFill()), UV: white})
	p.paintStatic()

	p.texts[FieldCPUFrameRate] = *p.frameStrings.forCPU(0)
	p.paintText(FieldCPUFrameRate, textWhite)
}

// paintStatic colors the backplate, history strip and memory bars from the palette.
func (p *visualProfiler) paintStatic() {
	pal := p.settings.Palette
	p.table.setColor(p.layout.backplate.index(0), pal.Base)
	p.paintFrameTrack()
	p.table.setColor(p.layout.limitBar.index(0), pal.Limit)
	p.table.setColor(p.layout.peakBar.index(0), pal.Peak)
	p.table.setColor(p.layout.usedBar.index(0), pal.Used)
}

func (p *visualProfiler) paintFrameTrack() {
	for i, hit := range p.track.cells {
		p.table.setColor(p.layout.frames.index(i), p.frameColor(hit))
	}
}

func (p *visualProfiler) frameColor(hit bool) mgl32.Vec4 {
	if hit {
		return p.settings.Palette.Target
	}
	return p.settings.Palette.Missed
}

func (p *visualProfiler) paintText(field Field, color mgl32.Vec4) {
	p.table.setText(p.layout.text[field], p.texts[field].bytes(), color, p.atlas)
}

func (p *visualProfiler) clearText(field Field) {
	p.texts[field].reset()
	p.table.clearText(p.layout.text[field])
}

func (p *visualProfiler) followCamera(dt float32) {
	if p.pose == nil {
		return
	}
	position, rotation := p.pose.Pose()
	targetPosition, targetRotation := p.placement.target(position, rotation, p.pose.Fov(), p.pose.Near(), p.settings.Anchor, p.settings.Offset)
	p.placement.follow(targetPosition, targetRotation, dt*p.settings.FollowSpeed)
}

func (p *visualProfiler) sampleFrameRate(dt float32) {
	cpuRate, gpuRate, ok := p.sampler.sampleFrameRate(dt, p.settings.SampleRate, p.stats)
	if !ok {
		return
	}

	target := targetFrameRate(p.refresh)
	cpuHit := onTarget(cpuRate, target)

	p.texts[FieldCPUFrameRate] = *p.frameStrings.forCPU(cpuRate)
	p.paintText(FieldCPUFrameRate, p.frameColor(cpuHit))

	if gpuRate != 0 {
		p.texts[FieldGPUFrameRate] = *p.frameStrings.forGPU(gpuRate)
		p.paintText(FieldGPUFrameRate, p.frameColor(onTarget(gpuRate, target)))
	} else if p.texts[FieldGPUFrameRate].Len() != 0 {
		p.clearText(FieldGPUFrameRate)
	}

	p.track.push(cpuHit)
	p.paintFrameTrack()
}

func (p *visualProfiler) sampleScene() {
	if p.stats == nil {
		return
	}
	decimals := p.settings.Decimals

	if p.sampler.sampleDrawPass(p.stats.DrawCalls(), p.stats.PassCalls()) || p.repaint {
		formatDrawPass(&p.texts[FieldDrawPass], p.sampler.drawCalls, p.sampler.passCalls)
		p.paintText(FieldDrawPass, textWhite)
	}

	if p.sampler.sampleVertices(p.stats.Vertices(), decimals) || p.repaint {
		formatVertices(&p.texts[FieldVertices], p.sampler.vertexCount, decimals)
		p.paintText(FieldVertices, textWhite)
	}
}

func (p *visualProfiler) sampleMemory() {
	if p.memory == nil {
		return
	}
	decimals := p.settings.Decimals
	limit := p.memory.Ceiling()
	usage := p.memory.Usage()
	changes := p.sampler.sampleMemory(usage, limit, decimals)

	if changes.bars {
		p.table.setTransform(p.layout.peakBar.index(0), memoryBarTransform(p.sampler.peakFill()))
		p.table.setTransform(p.layout.usedBar.index(0), memoryBarTransform(p.sampler.usedFill()))
	}
	if !p.visible {
		return
	}

	pal := p.settings.Palette
	if changes.limitText || p.repaint {
		formatMemory(&p.texts[FieldLimitMemory], limitMemoryPrefix, p.sampler.memoryLimit, decimals)
		p.paintText(FieldLimitMemory, textWhite)
	}
	if changes.usedText || p.repaint {
		formatMemory(&p.texts[FieldUsedMemory], usedMemoryPrefix, p.sampler.memoryUsage, decimals)
		p.paintText(FieldUsedMemory, pal.Used)
	}
	if changes.peakText || p.repaint {
		formatMemory(&p.texts[FieldPeakMemory], peakMemoryPrefix, p.sampler.peakMemory, decimals)
		p.paintText(FieldPeakMemory, pal.Peak)
	}
}
