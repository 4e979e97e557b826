package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort reorders files in place according to the named method. Valid methods:
// name (collated, digit runs compared numerically), numeric (digits extracted
// from the stem), size, mtime. An empty or unknown method leaves the order
// untouched and returns false.
func Sort(files []string, method string) bool {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "name":
		coll := collate.New(language.Und, collate.Numeric)
		sort.SliceStable(files, func(i, j int) bool {
			return coll.CompareString(filepath.Base(files[i]), filepath.Base(files[j])) < 0
		})
	case "numeric":
		sort.SliceStable(files, func(i, j int) bool {
			ni, iok := stemNumber(files[i])
			nj, jok := stemNumber(files[j])
			switch {
			case iok && jok:
				if ni != nj {
					return ni < nj
				}
				return files[i] < files[j]
			case iok:
				return true
			case jok:
				return false
			default:
				return files[i] < files[j]
			}
		})
	case "size":
		sort.SliceStable(files, func(i, j int) bool {
			return fileSize(files[i]) < fileSize(files[j])
		})
	case "mtime", "time", "date":
		sort.SliceStable(files, func(i, j int) bool {
			return modTime(files[i]) < modTime(files[j])
		})
	default:
		return false
	}
	return true
}

// ValidMethod reports whether method names a sort order Sort understands.
// The empty string is valid and means no reordering.
func ValidMethod(method string) bool {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "name", "numeric", "size", "mtime", "time", "date":
		return true
	}
	return false
}

// stemNumber concatenates the digits of the file stem into one number, so
// DSC_0042 orders after DSC_0007 regardless of prefix.
func stemNumber(path string) (uint64, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var n uint64
	found := false
	for _, r := range stem {
		if r >= '0' && r <= '9' {
			n = n*10 + uint64(r-'0')
			found = true
		}
	}
	return n, found
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}
