// Package ui holds the daemon's local surfaces: tray menu, desktop
// notifications, and dialog flows.
package ui

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

// ProfileEntry is the tray's view of a config profile.
type ProfileEntry struct {
	Name    string
	Enabled bool
}

// TrayCallbacks are invoked from menu click handlers. Nil callbacks
// disable the corresponding item handler.
type TrayCallbacks struct {
	OnToggleProfile func(name string)
	OnReload        func()
	OnOpenConfig    func()
	OnAddSecret     func()
	OnListSecrets   func()
	OnRemoveSecret  func()
	OnQuit          func()
}

// Tray owns the daemon's system tray icon and menu. The profile list is
// fixed at startup; toggles update checkmarks in place, but adding or
// removing profiles needs a daemon restart (getlantern/systray cannot
// remove menu items).
type Tray struct {
	appName   string
	version   string
	icon      []byte
	callbacks TrayCallbacks
	logger    *zap.Logger

	mu           sync.Mutex
	profiles     []ProfileEntry
	status       string
	miStatus     *systray.MenuItem
	profileItems map[string]*systray.MenuItem
}

// NewTray creates the tray manager. A nil logger disables logging.
func NewTray(appName, version string, icon []byte, profiles []ProfileEntry, callbacks TrayCallbacks, logger *zap.Logger) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tray{
		appName:      appName,
		version:      version,
		icon:         icon,
		callbacks:    callbacks,
		logger:       logger,
		profiles:     profiles,
		status:       "Starting...",
		profileItems: make(map[string]*systray.MenuItem),
	}
}

// Run starts the tray loop. Blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// SetStatus updates the connection status line at the top of the menu.
// Until the tray loop starts the menu item does not exist yet, so the
// text is remembered and onReady creates the item from it.
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
	if t.miStatus != nil {
		t.miStatus.SetTitle(text)
	}
}

// SetProfileEnabled updates a profile item's checkmark.
func (t *Tray) SetProfileEnabled(name string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if item, ok := t.profileItems[name]; ok {
		item.SetTitle(profileTitle(name, enabled))
	}
}

func profileTitle(name string, enabled bool) string {
	if enabled {
		return "✓ " + name
	}
	return "  " + name
}

func (t *Tray) onReady() {
	title := fmt.Sprintf("%s %s", t.appName, t.version)
	systray.SetTitle(title)
	systray.SetTooltip(title)
	if len(t.icon) > 0 {
		systray.SetIcon(t.icon)
	} else {
		t.logger.Warn("no icon data for systray")
	}

	t.mu.Lock()
	t.miStatus = systray.AddMenuItem(t.status, "Host connection status")
	t.miStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	miProfiles := systray.AddMenuItem("Profiles", "Toggle binding profiles")
	if len(t.profiles) == 0 {
		noProfiles := miProfiles.AddSubMenuItem("(no profiles defined)", "Add profiles in the config file")
		noProfiles.Disable()
	}
	for _, profile := range t.profiles {
		item := miProfiles.AddSubMenuItem(
			profileTitle(profile.Name, profile.Enabled),
			fmt.Sprintf("Toggle profile %s", profile.Name),
		)
		t.mu.Lock()
		t.profileItems[profile.Name] = item
		t.mu.Unlock()

		if t.callbacks.OnToggleProfile != nil {
			go func(name string, item *systray.MenuItem) {
				for range item.ClickedCh {
					t.logger.Info("profile toggle clicked", zap.String("profile", name))
					t.callbacks.OnToggleProfile(name)
				}
			}(profile.Name, item)
		}
	}
	systray.AddSeparator()

	miSecrets := systray.AddMenuItem("Manage Secrets", "Add or remove keyring-backed expansions")
	miAddSecret := miSecrets.AddSubMenuItem("Add/Update Secret...", "Store a new secret value")
	miListSecrets := miSecrets.AddSubMenuItem("List Secret Names", "Show names of stored secrets")
	miRemoveSecret := miSecrets.AddSubMenuItem("Remove Secret...", "Delete a stored secret")
	systray.AddSeparator()

	miReload := systray.AddMenuItem("Reload Configuration", "Re-read the config file and re-register bindings")
	miOpenConfig := systray.AddMenuItem("Open Config File", "Open the config file in the default editor")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Stop the daemon")

	t.clickLoop(miReload, "Reload Configuration", t.callbacks.OnReload)
	t.clickLoop(miOpenConfig, "Open Config File", t.callbacks.OnOpenConfig)
	t.clickLoop(miAddSecret, "Add/Update Secret", t.callbacks.OnAddSecret)
	t.clickLoop(miListSecrets, "List Secret Names", t.callbacks.OnListSecrets)
	t.clickLoop(miRemoveSecret, "Remove Secret", t.callbacks.OnRemoveSecret)

	go func() {
		<-miQuit.ClickedCh
		t.logger.Info("quit clicked")
		if t.callbacks.OnQuit != nil {
			t.callbacks.OnQuit()
		}
		systray.Quit()
	}()

	t.logger.Info("systray ready")
}

func (t *Tray) clickLoop(item *systray.MenuItem, label string, fn func()) {
	if fn == nil {
		item.Disable()
		return
	}
	go func() {
		for range item.ClickedCh {
			t.logger.Info("menu item clicked", zap.String("item", label))
			fn()
		}
	}()
}

func (t *Tray) onExit() {
	t.logger.Info("systray exiting")
}
