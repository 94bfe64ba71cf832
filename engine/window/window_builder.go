package window

// WindowBuilderOption configures a window before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested client area size. On high-DPI displays the framebuffer reported by Width and
// Height may be larger.
//
// Parameters:
//   - width: requested width in screen coordinates
//   - height: requested height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithSizeLimits bounds interactive resizing. A limit of 0 leaves that side unbounded.
//
// Parameters:
//   - minWidth: smallest width the user can resize to
//   - minHeight: smallest height the user can resize to
//   - maxWidth: largest width the user can resize to
//   - maxHeight: largest height the user can resize to
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
		w.minHeight = minHeight
		w.maxWidth = maxWidth
		w.maxHeight = maxHeight
	}
}

// WithRefreshRate overrides the refresh rate reported by RefreshRate, for displays whose video mode is
// misreported or for capped presentation below the monitor rate.
func WithRefreshRate(hz int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.refreshRateOverride = max(hz, 0)
	}
}
