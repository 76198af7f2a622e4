package vis

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/flowvis/flowvis/pkg/model"
)

// LoadState tracks where a load operation is in its lifecycle:
//
//	Idle -> AwaitingFileRead -> ModelReplaced
//	                         -> ErrorReported
//
// The terminal states record the outcome of the last attempt and admit the
// next load immediately. There is no retry; after ErrorReported the user
// re-initiates.
type LoadState int

const (
	StateIdle LoadState = iota
	StateAwaitingFileRead
	StateModelReplaced
	StateErrorReported
)

func (s LoadState) String() string {
	switch s {
	case StateAwaitingFileRead:
		return "awaiting-file-read"
	case StateModelReplaced:
		return "model-replaced"
	case StateErrorReported:
		return "error-reported"
	default:
		return "idle"
	}
}

// Loader performs wholesale flowsheet replacement from a byte stream.
// Reading a user-selected file is asynchronous with respect to the editor,
// so a second load can arrive while the first read is still pending; the
// loader rejects the overlap with ErrLoadInProgress rather than ever
// interleaving two replacements. The session stays fully usable while a
// read is pending - the session lock is only taken for the final swap.
type Loader struct {
	session *Session

	mu    sync.Mutex
	state LoadState
}

// NewLoader creates a loader that replaces the given session's flowsheet.
func NewLoader(s *Session) *Loader {
	return &Loader{session: s}
}

// State returns the loader's current lifecycle state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load reads a complete snapshot document from r and replaces the session's
// flowsheet. On a *ParseError the live flowsheet is left completely
// untouched. Returns ErrLoadInProgress if another load's read has not
// completed.
func (l *Loader) Load(r io.Reader) error {
	if err := l.begin(); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		l.finish(StateErrorReported)
		return parseErr("read", err)
	}

	fs, err := l.parse(data)
	if err != nil {
		l.finish(StateErrorReported)
		return err
	}

	l.session.Replace(fs)
	l.finish(StateModelReplaced)
	return nil
}

// LoadFile opens path and loads it. The same single-flight and
// validate-then-commit guarantees as Load apply.
func (l *Loader) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return l.Load(f)
}

func (l *Loader) begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateAwaitingFileRead {
		return ErrLoadInProgress
	}
	l.state = StateAwaitingFileRead
	return nil
}

// finish records the terminal state of the attempt and releases the
// in-flight slot. Both terminal states immediately admit the next load;
// user-visible reporting happens via the returned error.
func (l *Loader) finish(terminal LoadState) {
	l.mu.Lock()
	l.state = terminal
	l.mu.Unlock()
}

func (l *Loader) parse(data []byte) (*model.Flowsheet, error) {
	return Read(bytes.NewReader(data), l.session.Icons())
}
