// Package config resolves release-ai configuration from layered sources.
//
// Every value is resolved field by field in priority order: process
// environment variable (RELEASE_AI_ + upper-snake key) > project-level
// .release-ai.json > global ~/.config/release-ai/config.json > hard-coded
// default. The version-files list cannot be expressed as an environment
// variable and resolves from the file layers only.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSpec is one configured version-file target: a path (absolute or
// project-root-relative) and an optional dot-separated field path.
// An empty field means the whole file holds the version as plain text.
type FileSpec struct {
	Path  string `json:"path"`
	Field string `json:"field"`
}

// Config holds the effective release-ai configuration.
type Config struct {
	DevelopBranch       string     `json:"develop_branch"`
	MainBranch          string     `json:"main_branch"`
	ReleaseBranchPrefix string     `json:"release_branch_prefix"`
	ConflictStrategy    string     `json:"conflict_strategy"`
	AIModel             string     `json:"ai_model"`
	AIMaxTokens         int        `json:"ai_max_tokens"`
	NoAI                bool       `json:"no_ai"`
	StateFile           string     `json:"state_file"`
	VersionFiles        []FileSpec `json:"version_files"`

	// ProjectRoot is the directory relative paths resolve against.
	// Derived, never read from a file.
	ProjectRoot string `json:"-"`
}

// ProjectConfigName is the project-level config file name.
const ProjectConfigName = ".release-ai.json"

// DefaultStateFile is the default persisted-state file name.
const DefaultStateFile = ".release-state.json"

// EnvPrefix is prepended to upper-snake-cased keys for environment lookup.
const EnvPrefix = "RELEASE_AI_"

// Default returns the default configuration.
func Default() Config {
	return Config{
		DevelopBranch:       "develop",
		MainBranch:          "main",
		ReleaseBranchPrefix: "release/",
		ConflictStrategy:    "theirs",
		AIModel:             "claude-sonnet-4-20250514",
		AIMaxTokens:         1024,
		StateFile:           DefaultStateFile,
		VersionFiles: []FileSpec{
			{Path: "package.json", Field: "version"},
			{Path: "VERSION", Field: ""},
		},
	}
}

// fileConfig mirrors Config with pointer fields so that "absent" and
// "set to zero value" can be told apart when layering.
type fileConfig struct {
	DevelopBranch       *string    `json:"develop_branch"`
	MainBranch          *string    `json:"main_branch"`
	ReleaseBranchPrefix *string    `json:"release_branch_prefix"`
	ConflictStrategy    *string    `json:"conflict_strategy"`
	AIModel             *string    `json:"ai_model"`
	AIMaxTokens         *int       `json:"ai_max_tokens"`
	NoAI                *bool      `json:"no_ai"`
	StateFile           *string    `json:"state_file"`
	VersionFiles        []FileSpec `json:"version_files"`
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "release-ai", "config.json"), nil
}

// ProjectPath returns the path of the project config file under root.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectConfigName)
}

// readFile loads a fileConfig from path. A missing file yields an empty
// layer without error; a malformed file is an error.
func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// EnvKey transforms a config key into its environment variable name,
// e.g. "develop_branch" -> "RELEASE_AI_DEVELOP_BRANCH".
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// resolveString picks the first set value: env > project > global > default.
func resolveString(key string, project, global *string, def string) string {
	if v, ok := os.LookupEnv(EnvKey(key)); ok && v != "" {
		return v
	}
	if project != nil && *project != "" {
		return *project
	}
	if global != nil && *global != "" {
		return *global
	}
	return def
}

func resolveInt(key string, project, global *int, def int) int {
	if v, ok := os.LookupEnv(EnvKey(key)); ok && v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	if project != nil {
		return *project
	}
	if global != nil {
		return *global
	}
	return def
}

func resolveBool(key string, project, global *bool, def bool) bool {
	if v, ok := os.LookupEnv(EnvKey(key)); ok && v != "" {
		return v != "0" && !strings.EqualFold(v, "false")
	}
	if project != nil {
		return *project
	}
	if global != nil {
		return *global
	}
	return def
}

// Load resolves the effective configuration for a project root.
// Missing config files are not an error; malformed ones are.
func Load(root string) (Config, error) {
	cfg := Default()
	cfg.ProjectRoot = root

	globalPath, err := GlobalPath()
	var global fileConfig
	if err == nil {
		global, err = readFile(globalPath)
		if err != nil {
			return cfg, err
		}
	}

	project, err := readFile(ProjectPath(root))
	if err != nil {
		return cfg, err
	}

	cfg.DevelopBranch = resolveString("develop_branch", project.DevelopBranch, global.DevelopBranch, cfg.DevelopBranch)
	cfg.MainBranch = resolveString("main_branch", project.MainBranch, global.MainBranch, cfg.MainBranch)
	cfg.ReleaseBranchPrefix = resolveString("release_branch_prefix", project.ReleaseBranchPrefix, global.ReleaseBranchPrefix, cfg.ReleaseBranchPrefix)
	cfg.ConflictStrategy = resolveString("conflict_strategy", project.ConflictStrategy, global.ConflictStrategy, cfg.ConflictStrategy)
	cfg.AIModel = resolveString("ai_model", project.AIModel, global.AIModel, cfg.AIModel)
	cfg.AIMaxTokens = resolveInt("ai_max_tokens", project.AIMaxTokens, global.AIMaxTokens, cfg.AIMaxTokens)
	cfg.NoAI = resolveBool("no_ai", project.NoAI, global.NoAI, cfg.NoAI)
	cfg.StateFile = resolveString("state_file", project.StateFile, global.StateFile, cfg.StateFile)

	if len(project.VersionFiles) > 0 {
		cfg.VersionFiles = project.VersionFiles
	} else if len(global.VersionFiles) > 0 {
		cfg.VersionFiles = global.VersionFiles
	}

	if cfg.ConflictStrategy != "theirs" && cfg.ConflictStrategy != "ours" {
		return cfg, fmt.Errorf("invalid conflict_strategy %q: must be \"theirs\" or \"ours\"", cfg.ConflictStrategy)
	}

	return cfg, nil
}

// StatePath returns the absolute path of the state file.
func (c *Config) StatePath() string {
	if filepath.IsAbs(c.StateFile) {
		return c.StateFile
	}
	return filepath.Join(c.ProjectRoot, c.StateFile)
}

// ResolvePath resolves a version-file path against the project root.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

const defaultProjectConfig = `{
  "develop_branch": "develop",
  "main_branch": "main",
  "release_branch_prefix": "release/",
  "conflict_strategy": "theirs",
  "version_files": [
    { "path": "package.json", "field": "version" },
    { "path": "VERSION", "field": "" }
  ]
}
`

// Init creates a default project config file under root.
// If force is true, an existing file is overwritten.
// Returns the path of the created file.
func Init(root string, force bool) (string, error) {
	path := ProjectPath(root)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.WriteFile(path, []byte(defaultProjectConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
