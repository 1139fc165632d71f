// Package tray provides a system tray menu for kinectmask.
package tray

import (
	"fmt"
	"image"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onViewer func()
	onQuit   func()
	state    func() bool
	enabled  bool
	heads    int
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuHeads  *systray.MenuItem
}

// New creates a new Tray with the overlay toggle in the given state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
	}
}

// OnToggle sets the callback invoked when the overlay is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// EnabledFrom makes the toggle read the current overlay state from fn
// before flipping it, so changes made elsewhere are not undone by a click.
func (t *Tray) EnabledFrom(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = fn
}

// OnViewer sets the callback invoked by "Open Viewer...".
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback invoked when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It must be called from the main goroutine and
// blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Kinect Mask")
	systray.SetTooltip("Kinect head mask overlay")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle the head overlay")
	systray.AddSeparator()

	t.menuHeads = systray.AddMenuItem(headsTitle(t.heads), "Tracked heads in view")
	t.menuHeads.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the live view in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Kinect Mask")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuViewer.ClickedCh:
				t.handleViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Overlay On"
	}
	return "○ Overlay Off"
}

func headsTitle(n int) string {
	return fmt.Sprintf("Heads: %d", n)
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	current := t.enabled
	if t.state != nil {
		current = t.state()
	}
	enabled := !current
	t.setEnabledLocked(enabled)

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleViewer() {
	t.mu.RLock()
	callback := t.onViewer
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetHeads updates the tracked head count shown in the menu.
func (t *Tray) SetHeads(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n == t.heads {
		return
	}
	t.heads = n
	if t.menuHeads != nil {
		t.menuHeads.SetTitle(headsTitle(n))
	}
}

// SetEnabled updates the toggle after the overlay was switched elsewhere.
// It does not invoke the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setEnabledLocked(enabled)
}

func (t *Tray) setEnabledLocked(enabled bool) {
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current overlay toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Present updates the head count from each composite, so the tray can be
// registered as a display surface.
func (t *Tray) Present(_ *image.RGBA, heads []image.Point) {
	t.SetHeads(len(heads))
}
