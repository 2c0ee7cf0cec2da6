// Package tray provides the system tray menu of airsketch: the detection
// toggle, an explicit record signal and the last recognition.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/recorder"
)

// Controller is the part of the application the tray drives. *app.App
// satisfies it.
type Controller interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
	StartRecording() bool
	StopRecording() (*recorder.Outcome, bool)
}

// Tray represents the system tray application.
type Tray struct {
	ctrl       Controller
	onSettings func()
	onQuit     func()
	recording  bool
	mu         sync.Mutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuRecord *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a Tray driving ctrl.
func New(ctrl Controller) *Tray {
	return &Tray{ctrl: ctrl}
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit ends Run from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("airsketch")
	systray.SetTooltip("airsketch gesture recognition")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.ctrl.IsEnabled()), "Toggle gesture recognition")
	t.menuRecord = systray.AddMenuItem(recordTitle(false), "Record one stroke")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(nil), "Last recognized stroke")
	t.menuLast.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	menuQuit := systray.AddMenuItem("Quit", "Quit airsketch")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuRecord.ClickedCh:
				t.handleRecord()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	enabled := !t.ctrl.IsEnabled()
	t.ctrl.SetEnabled(enabled)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !enabled {
		t.recording = false
		setTitle(t.menuRecord, recordTitle(false))
	}
	setTitle(t.menuToggle, toggleTitle(enabled))
}

// handleRecord starts a stroke on the first click and ends it on the
// second.
func (t *Tray) handleRecord() {
	t.mu.Lock()
	recording := t.recording
	t.mu.Unlock()

	if recording {
		t.ctrl.StopRecording()
		recording = false
	} else {
		recording = t.ctrl.StartRecording()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = recording
	setTitle(t.menuRecord, recordTitle(recording))
}

func (t *Tray) handleSettings() {
	t.mu.Lock()
	callback := t.onSettings
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.Lock()
	callback := t.onQuit
	t.mu.Unlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// ShowEvent updates the last result entry. A stroke that ended on its own
// also resets the record item.
func (t *Tray) ShowEvent(ev app.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recording = false
	setTitle(t.menuRecord, recordTitle(false))
	setTitle(t.menuLast, lastTitle(&ev))
}

// Recording reports whether the tray started a stroke that has not ended.
func (t *Tray) Recording() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

func setTitle(item *systray.MenuItem, title string) {
	if item != nil {
		item.SetTitle(title)
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func recordTitle(recording bool) string {
	if recording {
		return "■ Stop Recording"
	}
	return "Record Stroke"
}

func lastTitle(ev *app.Event) string {
	switch {
	case ev == nil:
		return "Last: none"
	case ev.Matched:
		return fmt.Sprintf("Last: %s (%.0f%%)", ev.Name, ev.Score*100)
	case ev.Error != "":
		return "Last: too short"
	default:
		return "Last: no match"
	}
}
