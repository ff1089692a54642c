// Package app wires the daemon together: config, host bridge session,
// binding registration, config hot-reload, tray menu, and the fallback mode
// used when the host is unreachable.
package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ahkgo/ahk"
	"ahkgo/bridge"
	"ahkgo/internal/config"
	"ahkgo/internal/diffutil"
	"ahkgo/internal/fallback"
	"ahkgo/internal/keymap"
	"ahkgo/internal/resources"
	"ahkgo/internal/ui"
)

const appName = "ahkd"

const dialTimeout = 3 * time.Second

// reloadDebounce coalesces the burst of fsnotify events editors produce on
// save into one reload.
const reloadDebounce = 300 * time.Millisecond

// Application owns the daemon's state. All mutation happens under mu;
// tray callbacks and the fsnotify watcher run on their own goroutines.
type Application struct {
	logger   *zap.Logger
	version  string
	notifier *ui.NotificationManager
	tray     *ui.Tray
	iconData []byte

	mu          sync.Mutex
	cfg         *config.Config
	conn        *bridge.Conn
	session     *ahk.Session
	fallbackMgr *fallback.Manager
	hotkeys     []*ahk.Hotkey
	hotstrings  []*ahk.Hotstring
	remaps      []*ahk.RemappedKey

	watcher        *fsnotify.Watcher
	reloadTimer    *time.Timer
	lastConfigText string
}

// New builds the application from a loaded config. A nil logger disables
// logging.
func New(cfg *config.Config, version string, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Application{
		logger:  logger,
		version: version,
		cfg:     cfg,
	}

	var err error
	a.iconData, err = resources.GetIcon()
	if err != nil {
		logger.Warn("failed to render tray icon", zap.Error(err))
	}

	a.notifier = ui.NewNotificationManager(cfg.UseNotifications, appName, a.iconData, logger)
	ui.InitGlobalNotifications(a.notifier)

	entries := make([]ui.ProfileEntry, 0, len(cfg.Profiles))
	for _, profile := range cfg.Profiles {
		entries = append(entries, ui.ProfileEntry{Name: profile.Name, Enabled: profile.Enabled})
	}
	a.tray = ui.NewTray(appName, version, a.iconData, entries, ui.TrayCallbacks{
		OnToggleProfile: a.onToggleProfile,
		OnReload:        a.onReload,
		OnOpenConfig:    a.onOpenConfig,
		OnAddSecret:     a.onAddSecret,
		OnListSecrets:   a.onListSecrets,
		OnRemoveSecret:  a.onRemoveSecret,
		OnQuit:          a.onQuit,
	}, logger)

	return a
}

// Run connects to the host, registers all enabled bindings, starts the
// config watcher, and enters the tray loop. Blocks until Quit.
func (a *Application) Run() {
	a.mu.Lock()
	a.connectLocked()
	a.registerAllLocked()
	a.rememberConfigTextLocked()
	a.mu.Unlock()

	if err := a.watchConfig(); err != nil {
		a.logger.Warn("config hot-reload unavailable", zap.Error(err))
	}

	a.tray.Run()
}

// connectLocked dials the host; on failure the daemon drops to fallback
// mode instead of exiting.
func (a *Application) connectLocked() {
	endpoint := a.cfg.Endpoint
	if endpoint == "" {
		endpoint = bridge.DefaultEndpoint()
	}

	conn, err := bridge.DialEndpoint(endpoint, dialTimeout, a.logger)
	if err != nil {
		a.logger.Warn("host unreachable, entering fallback mode",
			zap.String("endpoint", endpoint), zap.Error(err))
		a.fallbackMgr = fallback.New(a.onFallbackCopied, a.logger)
		a.tray.SetStatus("Fallback mode (host unreachable)")
		ui.Notify(ui.LevelWarn, "Host Unreachable",
			"Running in fallback mode: hotkeys copy text to the clipboard; hotstrings and remaps are inactive.")
		return
	}

	a.conn = conn
	a.session = ahk.New(conn)
	a.tray.SetStatus("Connected to host")
	a.logger.Info("connected to host", zap.String("endpoint", endpoint))
}

func (a *Application) onFallbackCopied(binding fallback.Binding) {
	ui.Notify(ui.LevelInfo, "Copied to Clipboard",
		fmt.Sprintf("%s: text copied (fallback mode)", binding.Combo.String()))
}

// registerAllLocked registers every binding of every enabled profile.
// Individual binding failures are logged and skipped; the rest register.
func (a *Application) registerAllLocked() {
	if a.session == nil {
		a.registerFallbackLocked()
		return
	}

	registered, failed := 0, 0
	for _, profile := range a.cfg.Profiles {
		if !profile.Enabled {
			continue
		}
		for _, hb := range profile.Hotkeys {
			if err := a.registerHotkeyLocked(profile.Name, hb); err != nil {
				a.logger.Warn("failed to register hotkey",
					zap.String("profile", profile.Name), zap.String("keys", hb.Keys), zap.Error(err))
				failed++
				continue
			}
			registered++
		}
		for _, hs := range profile.Hotstrings {
			if err := a.registerHotstringLocked(profile.Name, hs); err != nil {
				a.logger.Warn("failed to register hotstring",
					zap.String("profile", profile.Name), zap.String("trigger", hs.Trigger), zap.Error(err))
				failed++
				continue
			}
			registered++
		}
		for _, rm := range profile.Remaps {
			remap, err := a.session.RemapKey(rm.From, rm.To)
			if err != nil {
				a.logger.Warn("failed to register remap",
					zap.String("profile", profile.Name),
					zap.String("from", rm.From), zap.String("to", rm.To), zap.Error(err))
				failed++
				continue
			}
			a.remaps = append(a.remaps, remap)
			registered++
		}
	}

	a.logger.Info("bindings registered", zap.Int("registered", registered), zap.Int("failed", failed))
	if failed > 0 {
		ui.Notify(ui.LevelWarn, "Binding Registration",
			fmt.Sprintf("%d binding(s) could not be registered; see the log.", failed))
	}
}

func (a *Application) registerHotkeyLocked(profileName string, hb config.HotkeyBinding) error {
	combo, err := keymap.Parse(hb.Keys)
	if err != nil {
		return err
	}

	var action func()
	switch {
	case hb.Send != "" && hb.Run != "":
		return fmt.Errorf("hotkey %q sets both send and run", hb.Keys)
	case hb.Send != "":
		session := a.session
		text := hb.Send
		action = func() {
			if err := session.Send(text); err != nil {
				a.logger.Warn("send failed", zap.String("keys", hb.Keys), zap.Error(err))
			}
		}
	case hb.Run != "":
		command := hb.Run
		action = func() {
			a.runCommand(command)
		}
	default:
		return fmt.Errorf("hotkey %q sets neither send nor run", hb.Keys)
	}

	hk, err := a.session.Hotkey(combo.AHK(), action, ahk.HotkeyOptions{})
	if err != nil {
		return err
	}
	a.hotkeys = append(a.hotkeys, hk)
	a.logger.Debug("registered hotkey",
		zap.String("profile", profileName), zap.String("keys", combo.String()))
	return nil
}

func (a *Application) runCommand(command string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Start(); err != nil {
		a.logger.Warn("failed to run command", zap.String("command", command), zap.Error(err))
		return
	}
	go func() { _ = cmd.Wait() }()
}

func (a *Application) registerHotstringLocked(profileName string, hs config.HotstringBinding) error {
	replacement, err := a.cfg.ResolveReplacement(hs)
	if err != nil {
		return err
	}

	opts := ahk.HotstringOptions{
		CaseSensitive:     hs.CaseSensitive,
		ReplaceInsideWord: hs.InsideWord,
	}
	if hs.NoEndChar {
		opts.WaitForEndChar = ahk.Off
	}
	if hs.RawText {
		opts.RawText = ahk.On
	}

	hotstring, err := a.session.Hotstring(hs.Trigger, replacement, opts)
	if err != nil {
		return err
	}
	a.hotstrings = append(a.hotstrings, hotstring)
	a.logger.Debug("registered hotstring",
		zap.String("profile", profileName), zap.String("trigger", hs.Trigger))
	return nil
}

// registerFallbackLocked maps what it can onto OS hotkeys and reports what
// it cannot.
func (a *Application) registerFallbackLocked() {
	var bindings []fallback.Binding
	skipped := 0
	for _, profile := range a.cfg.Profiles {
		if !profile.Enabled {
			continue
		}
		for _, hb := range profile.Hotkeys {
			if hb.Send == "" {
				skipped++ // run commands are host-mode only
				continue
			}
			combo, err := keymap.Parse(hb.Keys)
			if err != nil {
				a.logger.Warn("skipping fallback hotkey", zap.String("keys", hb.Keys), zap.Error(err))
				skipped++
				continue
			}
			bindings = append(bindings, fallback.Binding{
				Combo:   combo,
				Text:    hb.Send,
				Profile: profile.Name,
			})
		}
		skipped += len(profile.Hotstrings) + len(profile.Remaps)
	}

	if err := a.fallbackMgr.Register(bindings); err != nil {
		a.logger.Warn("fallback registration failed", zap.Error(err))
	}
	if skipped > 0 {
		a.logger.Info("bindings unavailable in fallback mode", zap.Int("skipped", skipped))
	}
}

// unregisterAllLocked disables every registered binding. Host-side errors
// are logged, not fatal: a dead connection makes them moot anyway.
func (a *Application) unregisterAllLocked() {
	if a.fallbackMgr != nil {
		a.fallbackMgr.UnregisterAll()
	}
	for _, hk := range a.hotkeys {
		if err := hk.Disable(); err != nil {
			a.logger.Debug("failed to disable hotkey", zap.String("keys", hk.KeyName()), zap.Error(err))
		}
	}
	for _, hs := range a.hotstrings {
		if err := hs.Disable(); err != nil {
			a.logger.Debug("failed to disable hotstring", zap.String("trigger", hs.Trigger()), zap.Error(err))
		}
	}
	for _, rm := range a.remaps {
		if err := rm.Disable(); err != nil {
			a.logger.Debug("failed to disable remap", zap.Error(err))
		}
	}
	a.hotkeys = nil
	a.hotstrings = nil
	a.remaps = nil
}

func (a *Application) rememberConfigTextLocked() {
	data, err := os.ReadFile(a.cfg.GetConfigPath())
	if err != nil {
		a.logger.Debug("cannot snapshot config text", zap.Error(err))
		return
	}
	a.lastConfigText = string(data)
}

// onReload re-reads the config file, logs what changed, and re-registers
// all bindings against the new config.
func (a *Application) onReload() {
	a.mu.Lock()
	defer a.mu.Unlock()

	configPath := a.cfg.GetConfigPath()
	newCfg, err := config.Load(configPath, a.logger)
	if err != nil {
		a.logger.Error("config reload failed", zap.Error(err))
		ui.Notify(ui.LevelError, "Configuration Error",
			fmt.Sprintf("Reload failed, keeping the previous configuration: %v", err))
		return
	}

	if data, err := os.ReadFile(configPath); err == nil {
		text := string(data)
		if diff := diffutil.Unified(a.lastConfigText, text); diff != "" {
			a.logger.Info("config changed",
				zap.String("summary", diffutil.Summary(a.lastConfigText, text)),
				zap.String("diff", diff))
		}
		a.lastConfigText = text
	}

	a.unregisterAllLocked()
	a.cfg = newCfg
	a.notifier.SetEnabled(newCfg.UseNotifications)
	for _, profile := range newCfg.Profiles {
		a.tray.SetProfileEnabled(profile.Name, profile.Enabled)
	}
	a.registerAllLocked()

	ui.Notify(ui.LevelInfo, "Configuration Reloaded", "Bindings have been re-registered.")
}

// onToggleProfile flips a profile's enabled flag, persists it, and
// re-registers bindings.
func (a *Application) onToggleProfile(name string) {
	a.mu.Lock()

	var toggled *config.Profile
	for i := range a.cfg.Profiles {
		if a.cfg.Profiles[i].Name == name {
			toggled = &a.cfg.Profiles[i]
			break
		}
	}
	if toggled == nil {
		a.mu.Unlock()
		a.logger.Warn("toggle for unknown profile", zap.String("profile", name))
		return
	}

	toggled.Enabled = !toggled.Enabled
	enabled := toggled.Enabled
	if err := a.cfg.Save(); err != nil {
		toggled.Enabled = !toggled.Enabled
		a.mu.Unlock()
		a.logger.Error("failed to save config after profile toggle", zap.Error(err))
		ui.Notify(ui.LevelError, "Save Error",
			fmt.Sprintf("Could not save the config after toggling %q: %v", name, err))
		return
	}

	a.tray.SetProfileEnabled(name, enabled)
	a.unregisterAllLocked()
	a.registerAllLocked()
	a.rememberConfigTextLocked()
	a.mu.Unlock()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	ui.Notify(ui.LevelInfo, "Profile Updated", fmt.Sprintf("Profile %q is now %s.", name, state))
}

func (a *Application) onOpenConfig() {
	path := a.cfg.GetConfigPath()
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if err := ui.OpenFileInDefaultApp(absPath); err != nil {
		a.logger.Warn("failed to open config file", zap.String("path", absPath), zap.Error(err))
		ui.Notify(ui.LevelWarn, "Error Opening File",
			fmt.Sprintf("Could not open %s: %v", absPath, err))
	}
}

func (a *Application) onAddSecret() {
	name, value, err := ui.AskNewSecret(appName)
	if err != nil {
		if errors.Is(err, ui.ErrCanceled) {
			return
		}
		ui.Notify(ui.LevelWarn, "Add Secret", err.Error())
		return
	}

	a.mu.Lock()
	err = a.cfg.AddSecretReference(name, value)
	a.mu.Unlock()
	if err != nil {
		a.logger.Error("failed to store secret", zap.String("name", name), zap.Error(err))
		ui.Notify(ui.LevelError, "Add Secret", fmt.Sprintf("Could not store %q: %v", name, err))
		return
	}

	// Reload so bindings referencing the new secret resolve immediately.
	a.onReload()
	ui.Notify(ui.LevelInfo, "Secret Stored", fmt.Sprintf("Secret %q stored and configuration reloaded.", name))
}

func (a *Application) onListSecrets() {
	a.mu.Lock()
	names := a.cfg.GetSecretNames()
	a.mu.Unlock()
	ui.ShowSecretNames(appName, names)
}

func (a *Application) onRemoveSecret() {
	a.mu.Lock()
	names := a.cfg.GetSecretNames()
	a.mu.Unlock()
	if len(names) == 0 {
		ui.Notify(ui.LevelInfo, "Remove Secret", "No secrets are currently managed.")
		return
	}

	name, err := ui.PickSecret(appName, "Select the secret to remove:", names)
	if err != nil {
		if errors.Is(err, ui.ErrCanceled) {
			return
		}
		ui.Notify(ui.LevelWarn, "Remove Secret", err.Error())
		return
	}

	confirmed, err := ui.ConfirmRemoveSecret(appName, name)
	if err != nil {
		ui.Notify(ui.LevelWarn, "Remove Secret", err.Error())
		return
	}
	if !confirmed {
		return
	}

	a.mu.Lock()
	err = a.cfg.RemoveSecretReference(name)
	a.mu.Unlock()
	if err != nil {
		a.logger.Error("failed to remove secret", zap.String("name", name), zap.Error(err))
		ui.Notify(ui.LevelError, "Remove Secret", fmt.Sprintf("Could not remove %q: %v", name, err))
		return
	}

	a.onReload()
	ui.Notify(ui.LevelInfo, "Secret Removed", fmt.Sprintf("Secret %q removed.", name))
}

// watchConfig re-runs onReload when the config file changes on disk.
// Editors replace files on save, so the parent directory is watched and
// events are debounced.
func (a *Application) watchConfig() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	a.watcher = watcher

	configPath, err := filepath.Abs(a.cfg.GetConfigPath())
	if err != nil {
		configPath = a.cfg.GetConfigPath()
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		a.watcher = nil
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != configPath {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				a.scheduleReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	a.logger.Info("watching config for changes", zap.String("path", configPath))
	return nil
}

func (a *Application) scheduleReload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reloadTimer != nil {
		a.reloadTimer.Stop()
	}
	a.reloadTimer = time.AfterFunc(reloadDebounce, func() {
		a.logger.Info("config file changed on disk, reloading")
		a.onReload()
	})
}

// onQuit tears everything down before the tray loop exits.
func (a *Application) onQuit() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reloadTimer != nil {
		a.reloadTimer.Stop()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Debug("failed to close config watcher", zap.Error(err))
		}
	}
	a.unregisterAllLocked()
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Debug("failed to close host connection", zap.Error(err))
		}
	}
	a.logger.Info("shutdown complete")
}
