package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// Load reads, decodes and validates a single corpus file.
func Load(path string) ([]Article, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}

	articles, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if err := Validate(articles); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("Loaded %d articles from %s (%s)", len(articles), path, format)
	return articles, nil
}

// LoadDir loads every supported file in dir, in file name order. Any bad file
// fails the whole load.
func LoadDir(dir string) ([]Article, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no corpus files found in %s", ErrEmpty, dir)
	}

	var all []Article
	for _, file := range files {
		articles, err := Load(file)
		if err != nil {
			return nil, err
		}
		all = append(all, articles...)
	}
	log.Debugf("Loaded %d articles from %d files in %s", len(all), len(files), dir)
	return all, nil
}

// LoadPath loads a file or a directory, whichever path points at.
func LoadPath(path string) ([]Article, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return Load(path)
}

// ListFiles returns the supported corpus files directly inside dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for corpus files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// HasCorpus reports whether path is a supported file or a directory holding at
// least one. It is the acceptance check used when resolving corpus paths.
func HasCorpus(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return IsSupported(path)
	}
	files, err := ListFiles(path)
	return err == nil && len(files) > 0
}
