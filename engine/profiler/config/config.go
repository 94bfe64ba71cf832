// Package config loads profiler.Settings from a config file and the environment, and reloads them when the
// file changes.
//
// Keys mirror the Settings fields in snake case. Colors are lists of 3 or 4 components and the anchor is one of
// the nine anchor names, for example:
//
//	visible: true
//	sample_rate: 0.1
//	anchor: upper_left
//	offset: [0.1, 0.1]
//	scale: 1.5
//	follow_speed: 5
//	decimals: 1
//	colors:
//	  missed: [1, 0.2, 0.1]
//
// Every key can be overridden by an environment variable, e.g. OXY_PROFILER_SCALE=2 or
// OXY_PROFILER_COLORS_BASE="0,0,0,0.5".
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-vprof/engine/profiler"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the prefix of the environment variables read by a Loader.
const DefaultEnvPrefix = "OXY_PROFILER"

// ErrNoConfigFile is returned by Watch when no config file was found to watch.
var ErrNoConfigFile = errors.New("config: no config file to watch")

// Loader reads profiler settings from defaults, an optional config file and the environment, in increasing
// order of precedence.
type Loader interface {
	// Load reads the config file, if any, and returns the normalized settings.
	// A missing config file is not an error; the defaults and the environment still apply.
	//
	// Returns:
	//   - profiler.Settings: the loaded settings
	//   - error: an error if the file is unreadable or a value is invalid
	Load() (profiler.Settings, error)

	// Watch calls onChange with the new settings every time the config file changes. Reloads that fail are
	// logged and skipped, keeping the last good settings in place. Load must have found a file first.
	//
	// Parameters:
	//   - onChange: called from the watcher goroutine with the reloaded settings
	//
	// Returns:
	//   - error: ErrNoConfigFile if there is nothing to watch
	Watch(onChange func(profiler.Settings)) error

	// ConfigFile returns the path of the config file in use, or an empty string if none was found.
	ConfigFile() string
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	v         *viper.Viper
	file      string
	name      string
	paths     []string
	envPrefix string

	found    bool
	watching bool
}

var _ Loader = &loader{}

// NewLoader creates a Loader. Without WithConfigFile or WithSearchPaths only defaults and environment variables
// are read.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:        &sync.Mutex{},
		v:         viper.New(),
		envPrefix: DefaultEnvPrefix,
	}
	for _, option := range options {
		option(l)
	}

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	setDefaults(l.v, profiler.DefaultSettings())

	switch {
	case l.file != "":
		l.v.SetConfigFile(l.file)
	case l.name != "":
		l.v.SetConfigName(l.name)
		for _, p := range l.paths {
			l.v.AddConfigPath(p)
		}
	}
	return l
}

// Load is a shortcut for NewLoader(WithConfigFile(path)).Load().
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - profiler.Settings: the loaded settings
//   - error: an error if the file is unreadable or a value is invalid
func Load(path string) (profiler.Settings, error) {
	return NewLoader(WithConfigFile(path)).Load()
}

func (l *loader) Load() (profiler.Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.found = false
	if l.file != "" || l.name != "" {
		err := l.v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			l.found = true
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
		default:
			return profiler.Settings{}, fmt.Errorf("failed to read profiler config: %w", err)
		}
	}
	return l.decode()
}

func (l *loader) Watch(onChange func(profiler.Settings)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.found {
		return ErrNoConfigFile
	}
	if l.watching {
		return nil
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		s, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			log.Printf("[Profiler] config reload from %s failed: %v", e.Name, err)
			return
		}
		log.Printf("[Profiler] config reloaded from %s", e.Name)
		if onChange != nil {
			onChange(s)
		}
	})
	l.v.WatchConfig()
	l.watching = true
	return nil
}

func (l *loader) ConfigFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.found {
		return ""
	}
	return l.v.ConfigFileUsed()
}

// decode converts the merged viper state into settings. Caller must hold the mutex.
func (l *loader) decode() (profiler.Settings, error) {
	var raw rawSettings
	if err := l.v.Unmarshal(&raw); err != nil {
		return profiler.Settings{}, fmt.Errorf("failed to decode profiler config: %w", err)
	}
	s, err := raw.settings()
	if err != nil {
		return profiler.Settings{}, err
	}
	return s.Normalize(), nil
}
