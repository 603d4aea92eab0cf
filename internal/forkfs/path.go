package forkfs

import "strings"

// pathBuf is a single growing path buffer shared by a chain of nested scopes.
// It exists to avoid an allocation per path-join while walking into the
// per-sandbox layout (e.g. <root>/<name>/merged/proc); a stack of mutations
// with guaranteed unwind is cheap and hard to get wrong compared to
// re-deriving the path at every level with filepath.Join.
type pathBuf struct {
	b strings.Builder
}

// newPathBuf seeds the buffer with a root path. The root is never popped.
func newPathBuf(root string) *pathBuf {
	p := &pathBuf{}
	p.b.WriteString(root)

	return p
}

// pathScope is a handle returned by pathBuf.enter. Calling leave (typically
// via defer) truncates the buffer back to exactly the length it had before
// this scope's component was appended. Scopes must be released in LIFO
// order; the buffer must never be read or entered again concurrently from
// another scope.
type pathScope struct {
	buf    *pathBuf
	prefix string
}

// enter appends child to the buffer, returning the joined path and a scope
// handle. leave() must be called exactly once, in LIFO order relative to any
// other outstanding scope on the same buffer, including on error paths.
func (p *pathBuf) enter(child string) (string, *pathScope) {
	prefix := p.b.String()

	p.b.WriteByte('/')
	p.b.WriteString(child)

	return p.b.String(), &pathScope{buf: p, prefix: prefix}
}

// leave restores the buffer to its pre-enter state. Safe to call via defer.
// A second call rewrites the same prefix, discarding any component entered
// after the first call, so callers must not do that.
func (s *pathScope) leave() {
	s.buf.b.Reset()
	s.buf.b.WriteString(s.prefix)
}

// path returns the current full path held by the buffer, including any
// outstanding scopes.
func (p *pathBuf) path() string {
	return p.b.String()
}
