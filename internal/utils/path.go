package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDirName = "corpusq"

// PathResolver finds config and corpus locations relative to the user's
// config dir, the executable and the working directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable location and the platform config dir.
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     configDirFor(runtime.GOOS, homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// configDirFor returns the config directory for the given platform
func configDirFor(goos, homeDir string) string {
	switch goos {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	default:
		return filepath.Join(homeDir, ".config", appDirName)
	}
}

// ConfigDir returns the config directory
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// GetCorpusPath resolves a user supplied corpus file or directory. Candidates
// are tried in order: the path as given, relative to the executable, and the
// "corpus" dir under the config dir. accept decides whether a candidate holds
// a usable corpus.
func (pr *PathResolver) GetCorpusPath(userPath string, accept func(string) bool) (string, error) {
	candidates := []string{userPath}
	if !filepath.IsAbs(userPath) {
		candidates = append(candidates, filepath.Join(pr.executableDir, userPath))
	}
	candidates = append(candidates, filepath.Join(pr.configDir, "corpus", userPath))

	for _, path := range candidates {
		if FileExists(path) && accept(path) {
			log.Debugf("Found corpus at: %s", path)
			return path, nil
		}
		log.Debugf("Corpus candidate not valid: %s", path)
	}
	return "", os.ErrNotExist
}

// GetConfigPath returns the full path for a config file, falling back to
// writable locations when the config dir cannot be created.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+appDirName),
		filepath.Join(os.TempDir(), appDirName),
	}
	for i, dir := range dirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path, nil
		}
	}
	return "", os.ErrPermission
}
