// Package sandbox defines the host-supplied collaborators that keep
// script code from reaching outside the project it was loaded for:
// resource loading for require, and filesystem path resolution for io.
package sandbox

import "fmt"

// ResourceLoader maps an import path to the bytes of the resource it
// names, or ok=false if nothing matches. The package library's searchers
// call this instead of touching the real filesystem or host classes.
type ResourceLoader func(path string) (data []byte, ok bool)

// PathPredicate resolves a script-requested filesystem path against the
// project root, returning the resolved absolute path or an error if the
// request escapes the root.
type PathPredicate func(path string) (resolved string, err error)

// ErrOutsideRoot is wrapped by sandbox refusals so hosts can recognize
// them without string matching.
type ErrOutsideRoot struct{ Path string }

func (e *ErrOutsideRoot) Error() string {
	return fmt.Sprintf("path %q escapes the project root", e.Path)
}

// Policy bundles the loader and predicate a Runtime was built with. A
// nil Policy (or nil fields within it) disables the corresponding
// sandboxed library: require/io.open then refuse every path.
type Policy struct {
	Loader ResourceLoader
	Paths  PathPredicate
}

func (p *Policy) resourceLoader() ResourceLoader {
	if p == nil || p.Loader == nil {
		return func(string) ([]byte, bool) { return nil, false }
	}
	return p.Loader
}

func (p *Policy) pathPredicate() PathPredicate {
	if p == nil || p.Paths == nil {
		return func(path string) (string, error) { return "", &ErrOutsideRoot{Path: path} }
	}
	return p.Paths
}

// Load delegates to the policy's loader, defaulting to "nothing found".
func (p *Policy) Load(path string) ([]byte, bool) { return p.resourceLoader()(path) }

// Resolve delegates to the policy's path predicate, defaulting to
// refusing every path.
func (p *Policy) Resolve(path string) (string, error) { return p.pathPredicate()(path) }
