// Package library implements the Library Resolver (spec.md §4.1): maps a
// member name to a readable source path under configured search
// libraries, in either filesystem or native-PDS mode.
package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how a member name is turned into a candidate path.
type Mode int

const (
	// Filesystem forms root/MEMBER[.EXT] and tests existence.
	Filesystem Mode = iota
	// NativePDS forms root(MEMBER) and returns the first candidate
	// without testing existence (spec.md §4.1, §9 Open Question 3).
	NativePDS
)

// Resolver maps member names to paths under an ordered, mutable list of
// library roots.
type Resolver struct {
	Mode  Mode
	Ext   string
	roots []string
}

// New creates a Resolver seeded with the configured library roots
// (PATH followed by LIB, per spec.md §6).
func New(mode Mode, ext string, roots []string) *Resolver {
	r := &Resolver{Mode: mode, Ext: ext}
	r.roots = append(r.roots, roots...)
	return r
}

// PrependLibs implements JCLLIB ORDER=(a,b,...): the listed roots are
// prepended to the active library list, preserving the old tail
// (spec.md §4.1).
func (r *Resolver) PrependLibs(roots []string) {
	r.roots = append(append([]string{}, roots...), r.roots...)
}

// Roots returns the currently active library root list, in search order.
func (r *Resolver) Roots() []string {
	return append([]string{}, r.roots...)
}

// Resolve finds a path for member across the active library roots, or
// returns an error if none can be found. In Filesystem mode the path is
// one that exists; in NativePDS mode it is the first root's candidate,
// returned without an existence check.
func (r *Resolver) Resolve(member string) (string, error) {
	member = strings.ToUpper(member)
	for _, root := range r.roots {
		candidate := r.candidate(root, member)
		switch r.Mode {
		case NativePDS:
			return candidate, nil
		default:
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", errors.Errorf("member %s not found in %d configured libraries", member, len(r.roots))
}

func (r *Resolver) candidate(root, member string) string {
	if r.Mode == NativePDS {
		return root + "(" + member + ")"
	}
	name := member
	if r.Ext != "" {
		name += "." + r.Ext
	}
	return filepath.Join(root, name)
}
