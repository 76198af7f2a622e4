package vis

import (
	"io"
	"sync"

	"github.com/flowvis/flowvis/pkg/model"
)

// Session is the editor-session object: it owns the one live flowsheet and
// mediates every mutation and read. Surfaces (TUI, HTTP) hold a *Session,
// never a bare *Flowsheet, so there is no ambient shared canvas state.
//
// The mutex realizes the editor's single-logical-thread model for surfaces
// that are concurrent in Go (an HTTP handler per request); each operation
// runs to completion before the next is admitted.
type Session struct {
	mu    sync.Mutex
	fs    *model.Flowsheet
	icons model.IconFunc
}

// NewSession wraps a flowsheet and the icon resolver used when loading
// replacement models.
func NewSession(fs *model.Flowsheet, icons model.IconFunc) *Session {
	return &Session{fs: fs, icons: icons}
}

// Icons returns the session's icon resolver.
func (s *Session) Icons() model.IconFunc { return s.icons }

// Do applies a mutation command to the flowsheet.
func (s *Session) Do(cmd model.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cmd.Apply(s.fs)
}

// View runs fn with the live flowsheet under the session lock. fn must not
// retain the pointer past the call.
func (s *Session) View(fn func(fs *model.Flowsheet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.fs)
}

// Snapshot returns the current complete state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Take(s.fs)
}

// Replace swaps in a fully built flowsheet. Callers build and validate the
// replacement first (see Build); readers never observe an intermediate state.
func (s *Session) Replace(fs *model.Flowsheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fs = fs
}

// Save writes the current state to w.
func (s *Session) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Write(s.fs, w)
}

// SaveFile writes the current state to a .flowvis file at path.
func (s *Session) SaveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteFile(s.fs, path)
}
