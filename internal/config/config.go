// Package config resolves the CLI settings from flags, environment
// variables, an optional YAML config file and built-in defaults, in that
// order of precedence.
//
// Environment variables use the STARTERPACK_ prefix with dashes turned into
// underscores, e.g. STARTERPACK_PACKAGE_MANAGER=pnpm.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable the CLI reads.
const EnvPrefix = "STARTERPACK"

// Config keys. Flags of the same name are bound to them.
const (
	KeyPackageManager = "package-manager"
	KeyInstall        = "install"
	KeyDocker         = "docker"
	KeyDockerImage    = "docker-image"
	KeyGit            = "git"
	KeyOutput         = "output"
)

// Defaults.
const (
	DefaultPackageManager = "npm"
	DefaultDockerImage    = "node:22-alpine"
	DefaultOutput         = "text"
)

// PackageManagers lists the supported package managers.
var PackageManagers = []string{"npm", "pnpm", "yarn", "bun"}

// OutputFormats lists the supported result formats.
var OutputFormats = []string{"text", "json", "yaml"}

// Config is the resolved, validated settings of one run.
type Config struct {
	// PackageManager installs dependencies and prefixes next-step commands.
	PackageManager string `json:"packageManager" yaml:"package-manager"`

	// Install runs the package manager after scaffolding.
	Install bool `json:"install" yaml:"install"`

	// Docker runs the install inside a container instead of on the host.
	Docker bool `json:"docker" yaml:"docker"`

	// DockerImage is the Node image used when Docker is set.
	DockerImage string `json:"dockerImage" yaml:"docker-image"`

	// Git initializes a repository with an initial commit.
	Git bool `json:"git" yaml:"git"`

	// Output is the result format: text, json or yaml.
	Output string `json:"output" yaml:"output"`

	// File is the config file that was read, empty when none was.
	File string `json:"file,omitempty" yaml:"-"`
}

// DefaultPath returns $XDG_CONFIG_HOME/create-starterpack/config.yaml, or
// the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "create-starterpack", "config.yaml")
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPackageManager, DefaultPackageManager)
	v.SetDefault(KeyInstall, true)
	v.SetDefault(KeyDocker, false)
	v.SetDefault(KeyDockerImage, DefaultDockerImage)
	v.SetDefault(KeyGit, false)
	v.SetDefault(KeyOutput, DefaultOutput)
}

// Load resolves the settings. flags may be nil. configFile is the --config
// value: when set the file must exist, otherwise DefaultPath is read if
// present.
//
// The --no-install flag is the inverse of the install key and overrides it
// when given.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	SetDefaults(v)

	// Environment variables sit between flags and the config file.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	file, err := readConfigFile(v, configFile)
	if err != nil {
		return nil, err
	}

	if flags != nil {
		// Bound flags only override lower layers when set explicitly;
		// their defaults match SetDefaults.
		for _, key := range []string{KeyPackageManager, KeyDocker, KeyDockerImage, KeyGit, KeyOutput} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", key, err)
				}
			}
		}
		// --no-install has no key of its own: it is the negation of
		// install, so it cannot be bound and is applied by hand.
		if flags.Changed("no-install") {
			noInstall, err := flags.GetBool("no-install")
			if err != nil {
				return nil, fmt.Errorf("failed to read --no-install: %w", err)
			}
			v.Set(KeyInstall, !noInstall)
		}
	}

	// Enumerated values are compared case-insensitively.
	cfg := &Config{
		PackageManager: strings.ToLower(strings.TrimSpace(v.GetString(KeyPackageManager))),
		Install:        v.GetBool(KeyInstall),
		Docker:         v.GetBool(KeyDocker),
		DockerImage:    strings.TrimSpace(v.GetString(KeyDockerImage)),
		Git:            v.GetBool(KeyGit),
		Output:         strings.ToLower(strings.TrimSpace(v.GetString(KeyOutput))),
		File:           file,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile reads the explicit file or, if present, the default one.
// It returns the path that was read.
func readConfigFile(v *viper.Viper, configFile string) (string, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to read config file %s", configFile), err)
		}
		return configFile, nil
	}

	path := DefaultPath()
	if path == "" {
		return "", nil
	}
	// The default file is optional; an explicit --config is not.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	return path, nil
}

// Validate checks enumerated values. Errors are usage errors.
func (c *Config) Validate() error {
	if !slices.Contains(PackageManagers, c.PackageManager) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("unsupported package manager %q (want one of %s)", c.PackageManager, strings.Join(PackageManagers, ", ")))
	}
	if !slices.Contains(OutputFormats, c.Output) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("unsupported output format %q (want one of %s)", c.Output, strings.Join(OutputFormats, ", ")))
	}
	if c.Docker && c.DockerImage == "" {
		return model.NewCLIError(model.ExitGeneralError, "--docker requires a non-empty --docker-image")
	}
	return nil
}

// Machine reports whether the output format is machine-readable.
func (c *Config) Machine() bool {
	return c.Output != "text"
}
