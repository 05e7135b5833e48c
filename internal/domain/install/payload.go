package install

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// PayloadEntries returns the top-level entries of workDir that an install
// copies, as absolute paths. Hidden entries are skipped, matching what a
// shell "*" would expand to.
func PayloadEntries(workDir string) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(workDir), "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list payload: %w", err)
	}

	entries := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, filepath.Join(workDir, name))
	}
	sort.Strings(entries)
	return entries, nil
}

// Summary describes the payload an install would copy.
type Summary struct {
	Entries int   `json:"entries"`
	Files   int64 `json:"files"`
	Bytes   int64 `json:"bytes"`
}

// Summarize walks workDir and counts the regular files and bytes an install
// would copy.
func Summarize(workDir string) (Summary, error) {
	if _, err := os.Stat(workDir); err != nil {
		return Summary{}, fmt.Errorf("failed to read payload: %w", err)
	}

	entries, err := PayloadEntries(workDir)
	if err != nil {
		return Summary{}, err
	}

	var files, bytes atomic.Int64
	conf := fastwalk.Config{Follow: false}

	// fastwalk invokes the callback from several goroutines.
	err = fastwalk.Walk(&conf, workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if filepath.Dir(path) == filepath.Clean(workDir) && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files.Add(1)
		bytes.Add(info.Size())
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to walk %s: %w", workDir, err)
	}

	return Summary{
		Entries: len(entries),
		Files:   files.Load(),
		Bytes:   bytes.Load(),
	}, nil
}
