package config

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loader)

// WithConfigFile reads settings from an explicit path. The extension selects the format (yaml, toml, json).
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithConfigFile(path string) LoaderBuilderOption {
	return func(l *loader) {
		l.file = path
	}
}

// WithSearchPaths looks for a config file named name, with any supported extension, in each path in order.
// Ignored when WithConfigFile is also given.
//
// Parameters:
//   - name: the file name without extension
//   - paths: the directories to search
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithSearchPaths(name string, paths ...string) LoaderBuilderOption {
	return func(l *loader) {
		l.name = name
		l.paths = paths
	}
}

// WithEnvPrefix overrides DefaultEnvPrefix.
//
// Parameters:
//   - prefix: the environment variable prefix, without the trailing underscore
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithEnvPrefix(prefix string) LoaderBuilderOption {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}
