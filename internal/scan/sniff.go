package scan

import (
	"bytes"
	"io"
	"os"
)

// sniffLimit bounds how much of a file the NEF heuristic reads. NEF headers
// and maker notes sit well inside the first 128 KiB.
const sniffLimit = 128 * 1024

// IsNEF reports whether the file looks like a Nikon NEF raw: a TIFF magic
// header plus a case-insensitive "nikon" marker somewhere in the leading
// bytes. It never returns an error; unreadable files are simply not NEF.
func IsNEF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil || len(buf) < 4 {
		return false
	}
	if !bytes.HasPrefix(buf, []byte("II*\x00")) && !bytes.HasPrefix(buf, []byte("MM\x00*")) {
		return false
	}
	return containsFold(buf, []byte("nikon"))
}

func containsFold(haystack, lowerNeedle []byte) bool {
	if len(lowerNeedle) == 0 || len(haystack) < len(lowerNeedle) {
		return false
	}
	for i := 0; i+len(lowerNeedle) <= len(haystack); i++ {
		match := true
		for j, want := range lowerNeedle {
			b := haystack[i+j]
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if b != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
