// Package scan enumerates and orders the raw files a run will convert.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Inputs resolves the positional arguments into a list of candidate files.
// A single existing directory selects every *.nef file directly inside it
// (non-recursive, lexically sorted); otherwise each argument must be an
// existing file.
func Inputs(args []string) ([]string, bool, error) {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			files, err := nefFiles(args[0])
			return files, true, err
		}
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, false, fmt.Errorf("input %s: %w", arg, err)
		}
		if info.IsDir() {
			return nil, false, fmt.Errorf("input %s: directories may only be passed alone", arg)
		}
		files = append(files, arg)
	}
	return files, false, nil
}

func nefFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".nef") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
