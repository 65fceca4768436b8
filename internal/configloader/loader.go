// Package configloader resolves the hyperseq configuration from defaults,
// config files, HYPERSEQ_* environment variables and CLI flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/hyperseq/pkg/config"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
)

// ProjectConfigName is the file name written by `hyperseq init`.
const ProjectConfigName = ".hyperseq.yml"

// LoadOptions selects the sources Load consults.
type LoadOptions struct {
	// WorkingDir anchors the upward project config search. Empty means the
	// process working directory.
	WorkingDir string
	// ExplicitPath is the --config file. It is never skipped.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds only the flags the user set. It wins over every
	// other source.
	CLIConfig *config.Config
}

// LoadResult is a resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths
	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string
	Warnings   []string
}

// layer is one config file in the precedence chain.
type layer struct {
	level string
	path  string
	skip  bool
}

// Load merges, from lowest to highest precedence: defaults, the system file,
// the user file, the project file, the explicit file, the environment and
// the CLI flags. Each file is validated on its own before merging, and the
// merged result again at the end. A relative snapshot path in a file is
// taken relative to that file's directory.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, l := range []layer{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	} {
		if l.skip || l.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(ctx, l.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", l.level, err)
		}
		if err := result.check(ValidateWithFile(fileCfg, l.path), true); err != nil {
			return nil, err
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	if err := result.check(Validate(cfg), false); err != nil {
		return nil, err
	}
	result.Config = cfg
	return result, nil
}

// check returns the first validation error, or records the warnings. File
// warnings keep their file prefix.
func (r *LoadResult) check(validation *ValidationResult, withFile bool) error {
	if !validation.Valid() {
		return &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		if withFile {
			r.Warnings = append(r.Warnings, w.Error())
		} else {
			r.Warnings = append(r.Warnings, w.Message)
		}
	}
	return nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Snapshot != "" && !filepath.IsAbs(cfg.Snapshot) {
		cfg.Snapshot = filepath.Join(filepath.Dir(path), cfg.Snapshot)
	}
	return cfg, nil
}

// WriteProjectConfig writes content to dir/.hyperseq.yml. It refuses to
// replace an existing file unless force is set.
func WriteProjectConfig(ctx context.Context, dir string, content []byte, force bool) (string, error) {
	path := filepath.Join(dir, ProjectConfigName)
	if !force && fileExists(path) {
		return path, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return path, fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
