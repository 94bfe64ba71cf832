package profiler

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// OverlayParams is the uniform state shared by every slot of one overlay draw.
type OverlayParams struct {
	// World is the window's local-to-world matrix.
	World mgl32.Mat4
	// BaseColor is the backplate color.
	BaseColor mgl32.Vec4
}

// Submitter is the batched draw facility the overlay renders through.
type Submitter interface {
	// SupportsInstancing reports whether DrawBatch can draw every slot in one submission.
	// It is queried once when the overlay is created.
	SupportsInstancing() bool

	// Upload stages the uniform parameters and, when slots is non-nil, the full slot table.
	//
	// Parameters:
	//   - params: the per-draw uniform state
	//   - slots: the slot table, or nil if it is unchanged since the last upload
	//
	// Returns:
	//   - error: error if staging fails
	Upload(params OverlayParams, slots []Slot) error

	// DrawBatch draws the first count slots in one submission.
	DrawBatch(count int) error

	// DrawSlot draws the single slot at index.
	DrawSlot(index int) error

	// Release frees every resource owned by the submitter.
	Release()
}

// overlayRenderer turns the instance table into draw submissions, batched when the submitter supports it
// and one call per visible slot otherwise.
type overlayRenderer struct {
	submitter Submitter
	instanced bool

	// submissions is the number of draw calls issued by the last draw.
	submissions int
}

func newOverlayRenderer(s Submitter) *overlayRenderer {
	return &overlayRenderer{
		submitter: s,
		instanced: s.SupportsInstancing(),
	}
}

func (o *overlayRenderer) draw(table *InstanceTable, params OverlayParams) error {
	o.submissions = 0

	var slots []Slot
	if table.Dirty() {
		slots = table.Slots()
	}
	if err := o.submitter.Upload(params, slots); err != nil {
		return fmt.Errorf("failed to upload overlay instances: %w", err)
	}
	table.clearDirty()

	if o.instanced {
		if err := o.submitter.DrawBatch(SlotCount); err != nil {
			return fmt.Errorf("failed to draw overlay batch: %w", err)
		}
		o.submissions = 1
		return nil
	}

	for i, s := range table.Slots() {
		if s.Degenerate() {
			continue
		}
		if err := o.submitter.DrawSlot(i); err != nil {
			return fmt.Errorf("failed to draw overlay slot %d: %w", i, err)
		}
		o.submissions++
	}
	return nil
}

func (o *overlayRenderer) release() {
	o.submitter.Release()
}
