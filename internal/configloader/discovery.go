package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the config files found for one invocation. Empty fields
// mean no file was found at that level.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// Project config names, most preferred first. ProjectConfigName comes first
// so `hyperseq init` writes the file that discovery prefers.
//
//nolint:gochecknoglobals // read-only lookup table
var projectConfigNames = []string{
	ProjectConfigName,
	".hyperseq.yaml",
	"hyperseq.yml",
	"hyperseq.yaml",
}

//nolint:gochecknoglobals // read-only lookup table
var levelConfigNames = []string{"config.yaml", "config.yml"}

// DiscoverPaths finds the system, user and project config files. The project
// file is searched upward from workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), levelConfigNames),
		User:    firstFile(userConfigDir(), levelConfigNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/hyperseq, or %ProgramData%\hyperseq on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/hyperseq"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "hyperseq")
}

// userConfigDir is $XDG_CONFIG_HOME/hyperseq, falling back to ~/.config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hyperseq")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hyperseq")
}

// FindProjectConfig walks from startDir toward the filesystem root and
// returns the first project config file, or "" if there is none. The walk
// stops after the home directory or a VCS root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if found := firstFile(dir, projectConfigNames); found != "" {
			return found, nil
		}
		if dir == home || isVCSRoot(dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if candidate := filepath.Join(dir, name); fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn"} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
