package greetcard

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads the config file when it changes on disk. Reloads
// are parsed on the watcher goroutine and applied on the frame thread.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Config
	errs    chan error
	done    chan struct{}
}

// NewConfigWatcher watches the file's directory rather than the file, so
// editors that save by rename are still seen.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

func (cw *ConfigWatcher) loop() {
	defer close(cw.done)
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(cw.path)
			if err != nil {
				publishLatest(cw.errs, err)
				continue
			}
			publishLatest(cw.updates, cfg)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			publishLatest(cw.errs, err)
		}
	}
}

// publishLatest replaces any value the frame thread has not picked up yet.
func publishLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Poll returns the newest reloaded config, if any arrived since the last call.
func (cw *ConfigWatcher) Poll() (Config, bool, error) {
	var err error
	select {
	case err = <-cw.errs:
	default:
	}
	select {
	case cfg := <-cw.updates:
		return cfg, true, err
	default:
		return Config{}, false, err
	}
}

func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

// ConfigWatchModule applies the live-reloadable settings: rotation speed,
// debug logging and the track title shown on the music button.
type ConfigWatchModule struct {
	Path string
}

func (mod ConfigWatchModule) Install(app *App, cmd *Commands) {
	if mod.Path == "" {
		return
	}
	cw, err := NewConfigWatcher(mod.Path)
	if err != nil {
		app.Logger().Warnf("config hot reload disabled: %v", err)
		return
	}
	app.addResources(cw)
	app.OnShutdown(func() {
		if err := cw.Close(); err != nil {
			app.Logger().Warnf("close config watcher: %v", err)
		}
	})
	app.UseSystem(
		System(configReloadSystem).
			InStage(PreUpdate),
	)
}

func configReloadSystem(cmd *Commands, cw *ConfigWatcher) {
	cfg, ok, err := cw.Poll()
	if err != nil {
		cmd.Logger().Warnf("config reload: %v", err)
	}
	if !ok {
		return
	}
	ApplyLiveConfig(cmd, cfg)
	cmd.Logger().Infof("config reloaded from %s", cw.path)
}

// ApplyLiveConfig pushes the settings that can change without a restart into
// whichever resources are installed.
func ApplyLiveConfig(cmd *Commands, cfg Config) {
	if rot := ResourceOf[RotationState](cmd); rot != nil {
		rot.Speed = ClampRotationSpeed(cfg.Rotation.Speed)
	}
	if overlay := ResourceOf[Overlay](cmd); overlay != nil {
		overlay.SetTrackTitle(cfg.Audio.Title)
	}
	cmd.Logger().SetDebug(cfg.Log.Debug)
}
