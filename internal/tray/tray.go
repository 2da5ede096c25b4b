// Package tray provides the system tray menu for SignSpeak.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onSpeak  func()
	onClear  func()
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastToken *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when recognition is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSpeak sets the callback for the speak menu item.
func (t *Tray) OnSpeak(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSpeak = fn
}

// OnClear sets the callback for the clear menu item.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnOpen sets the callback for the open-in-browser menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
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
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("SignSpeak")
	systray.SetTooltip("SignSpeak Sign Language Translator")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle recognition")
	systray.AddSeparator()

	t.menuLastToken = systray.AddMenuItem(lastTitle(""), "Last committed sign")
	t.menuLastToken.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSpeak := systray.AddMenuItem("Speak Transcript", "Read the transcript aloud")
	menuClear := systray.AddMenuItem("Clear Transcript", "Clear the transcript and start a new session")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the translator in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit SignSpeak")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSpeak.ClickedCh:
				t.call(func() func() { return t.onSpeak })
			case <-menuClear.ClickedCh:
				t.call(func() func() { return t.onClear })
				t.SetLastToken("")
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// call invokes the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// SetEnabled updates the toggle without firing the toggle callback, for
// changes made outside the tray.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetLastToken updates the last committed sign shown in the menu.
func (t *Tray) SetLastToken(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastToken != nil {
		t.menuLastToken.SetTitle(lastTitle(text))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Recognizing"
	}
	return "○ Paused"
}

func lastTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	return "Last: " + text
}
