package jsonapi

import (
	"sort"
	"strings"
)

// IncludeScope is the tree of relationship names a client asked to include.
// An empty scope is a leaf: the relationship is included but nothing below it.
//
// Scopes are treated as immutable values; every operation returns a new tree.
type IncludeScope map[string]IncludeScope

// ParseIncludePaths converts dot-separated relationship paths into a nested scope.
//
// Example: ["author.posts", "comments"] returns {author: {posts: {}}, comments: {}}.
// Empty paths are ignored, and so are the empty segments produced by leading,
// trailing or consecutive dots ("author..posts" equals "author.posts").
func ParseIncludePaths(paths []string) IncludeScope {
	scope := IncludeScope{}
	for _, path := range paths {
		scope = scope.Merge(scopeFromSegments(splitPath(path)))
	}
	return scope
}

// splitPath splits a dotted path and drops empty segments
func splitPath(path string) []string {
	parts := strings.Split(strings.TrimSpace(path), ".")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// scopeFromSegments builds a single-branch scope for one path
func scopeFromSegments(segments []string) IncludeScope {
	if len(segments) == 0 {
		return IncludeScope{}
	}
	return IncludeScope{segments[0]: scopeFromSegments(segments[1:])}
}

// Merge returns the union of both scopes. Neither input is modified.
func (s IncludeScope) Merge(other IncludeScope) IncludeScope {
	merged := make(IncludeScope, len(s)+len(other))
	for name, sub := range s {
		merged[name] = sub.Merge(nil)
	}
	for name, sub := range other {
		if existing, ok := merged[name]; ok {
			merged[name] = existing.Merge(sub)
			continue
		}
		merged[name] = sub.Merge(nil)
	}
	return merged
}

// Has reports whether name is requested at this level
func (s IncludeScope) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sub returns the nested scope for name, or an empty scope if absent
func (s IncludeScope) Sub(name string) IncludeScope {
	if sub, ok := s[name]; ok && sub != nil {
		return sub
	}
	return IncludeScope{}
}

// Names returns the relationship names at this level, sorted. The result is
// never nil, so it can be used directly as an allow-list.
func (s IncludeScope) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths flattens the scope back into sorted dotted paths, one per leaf
func (s IncludeScope) Paths() []string {
	var paths []string
	for _, name := range s.Names() {
		sub := s[name]
		if len(sub) == 0 {
			paths = append(paths, name)
			continue
		}
		for _, p := range sub.Paths() {
			paths = append(paths, name+"."+p)
		}
	}
	return paths
}

// Depth returns the length of the longest path in the scope
func (s IncludeScope) Depth() int {
	depth := 0
	for _, sub := range s {
		if d := sub.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}
