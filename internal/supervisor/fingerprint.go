package supervisor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// DescriptorSet is the ordered, immutable list of dependency descriptor
// files whose content defines what must be installed.
type DescriptorSet struct {
	dir   string
	paths []string
}

// NewDescriptorSet creates a descriptor set rooted at dir. Relative
// paths resolve against dir; absolute paths are kept as-is.
func NewDescriptorSet(dir string, paths []string) DescriptorSet {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		resolved = append(resolved, p)
	}
	return DescriptorSet{dir: dir, paths: resolved}
}

// Paths returns the resolved descriptor paths in fingerprint order.
func (d DescriptorSet) Paths() []string {
	out := make([]string, len(d.paths))
	copy(out, d.paths)
	return out
}

// Exists reports whether at least one descriptor file is present.
func (d DescriptorSet) Exists() bool {
	for _, p := range d.paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Fingerprint computes a lowercase hex SHA-256 digest over the contents
// of all readable descriptor files, in set order. Each file contributes
// a path-and-length frame ahead of its bytes so adjacent files cannot
// alias. Missing or unreadable files are skipped. If no file
// contributed, the fingerprint is the empty string.
func (d DescriptorSet) Fingerprint() string {
	h := sha256.New()
	contributed := false
	for _, p := range d.paths {
		data, err := os.ReadFile(p)
		if err != nil {
			// Unreadable counts as absent for this entry.
			continue
		}
		fmt.Fprintf(h, "%s\x00%d\x00", p, len(data))
		h.Write(data)
		contributed = true
	}
	if !contributed {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
