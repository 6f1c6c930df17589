package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/restkit/logger"
)

// FileSystem abstracts the file operations of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and env files of a program.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, searching the standard
// locations for any that are missing.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(name))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// configCandidates lists config.yml locations: the program's cmd
// directory, a shared config directory, then the working directory.
func configCandidates(name string) []string {
	var paths []string
	for _, n := range names(name) {
		for _, up := range []string{"./", "../", "../../"} {
			paths = append(paths, up+"cmd/"+n+"/config.yml")
		}
	}
	return append(paths,
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	)
}

// envCandidates lists .env.<name> then .env locations.
func envCandidates(name string) []string {
	var dirs []string
	for _, n := range names(name) {
		for _, up := range []string{"./", "../", "../../"} {
			dirs = append(dirs, up+"cmd/"+n+"/")
		}
	}
	dirs = append(dirs, "./config/", "../config/", "./", "../")

	var paths []string
	for _, file := range []string{".env." + name, ".env"} {
		for _, d := range dirs {
			paths = append(paths, d+file)
		}
	}
	return paths
}

// names returns the program name and, for dashed names, its last segment
// (restkit-mockserver -> mockserver).
func names(name string) []string {
	if i := strings.LastIndex(name, "-"); i != -1 && i < len(name)-1 {
		return []string{name, name[i+1:]}
	}
	return []string{name}
}

// LoaderConfig holds dependencies and optional overrides of the loader.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix limits environment binding to variables starting with
	// PREFIX_; the prefix is stripped before binding.
	EnvPrefix string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix only binds variables named PREFIX_*.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.TrimSuffix(strings.ToUpper(prefix), "_") }
}

// LoadConfig loads configuration for name into cfg. Values come from the
// config file, overridden by the environment after the .env file is read.
// A missing file is not an error; an unreadable one is.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)
	return load(name, cfg, files, lc)
}

// Load loads cfg like LoadConfig, then applies defaults and validates it.
func Load(name string, cfg Config, opts ...LoaderOption) error {
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", name, err)
	}
	return nil
}

func load(name string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()
	log := logger.WithComponent("config")

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: read %s: %w", name, files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("path", files.ConfigFile))
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.MergeWithError(logger.Fields("path", files.EnvFile), err))
		}
	}
	bindEnv(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config %s: unmarshal: %w", name, err)
	}
	return nil
}

// bindEnv sets every environment variable under each nested key it could
// name, so API_BASE_URL reaches api.base_url.
func bindEnv(v *viper.Viper, prefix string) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			var found bool
			if key, found = strings.CutPrefix(key, prefix+"_"); !found || key == "" {
				continue
			}
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants expands an environment key into the dotted paths it may
// address: every split point between nesting and underscores.
//
//	AUTH_JWT_SECRET -> [auth_jwt_secret, auth.jwt.secret, auth.jwt_secret, auth_jwt.secret]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants,
			strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"),
			strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."),
		)
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
