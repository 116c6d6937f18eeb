package staging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"relief/internal/ident"
)

var (
	// ErrEmptySelection reports that Add was called without any paths. It is
	// a warning: the list is left untouched.
	ErrEmptySelection = errors.New("no files selected")
	// ErrFileReadFailed reports that a selected file could not be read. The
	// list is left untouched.
	ErrFileReadFailed = errors.New("file read failed")
)

// File is one staged input. Data holds the base64-encoded file contents.
type File struct {
	ID      string    `json:"file_id"`
	Name    string    `json:"name"`
	Data    string    `json:"bytes"`
	AddedAt time.Time `json:"added_at"`
}

// Size returns the decoded size of the file in bytes.
func (f File) Size() int {
	n := base64.StdEncoding.DecodedLen(len(f.Data))
	return n - (len(f.Data) - len(strings.TrimRight(f.Data, "=")))
}

// Row is a File rendered at a position in the list.
type Row struct {
	File
	Position    int  `json:"position"`
	CanMoveUp   bool `json:"can_move_up"`
	CanMoveDown bool `json:"can_move_down"`
}

// View is a point-in-time rendering of the list.
type View struct {
	Rows []Row `json:"files"`
}

// Option customizes a List.
type Option func(*List)

// WithIDGenerator overrides how file identifiers are minted.
func WithIDGenerator(gen func() string) Option {
	return func(l *List) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// WithReader overrides how file contents are read.
func WithReader(read func(path string) ([]byte, error)) Option {
	return func(l *List) {
		if read != nil {
			l.read = read
		}
	}
}

// WithClock overrides the time source stamped on new files.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// List is an ordered, observable collection of staged files. It is safe for
// concurrent use; observers run after the mutation outside the lock.
type List struct {
	mu        sync.Mutex
	files     []File
	observers []func(View)

	newID func() string
	read  func(string) ([]byte, error)
	now   func() time.Time
}

// NewList constructs an empty list.
func NewList(opts ...Option) *List {
	l := &List{
		newID: ident.Generator(ident.DefaultLength),
		read:  os.ReadFile,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers fn to receive a View after every change.
func (l *List) Subscribe(fn func(View)) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

// Add reads, encodes, and appends the files at paths in the given order.
// Every file is read before the list is changed, so a read failure leaves
// the list as it was.
func (l *List) Add(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, ErrEmptySelection
	}
	added := make([]File, 0, len(paths))
	for _, path := range paths {
		data, err := l.read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, path, err)
		}
		added = append(added, File{
			ID:      l.newID(),
			Name:    filepath.Base(path),
			Data:    base64.StdEncoding.EncodeToString(data),
			AddedAt: l.now().UTC(),
		})
	}

	l.mutate(func() bool {
		l.files = append(l.files, added...)
		return true
	})
	return added, nil
}

// Remove deletes the entry with the given id. It reports whether an entry
// was removed.
func (l *List) Remove(id string) bool {
	return l.mutate(func() bool {
		idx := l.indexOf(id)
		if idx < 0 {
			return false
		}
		l.files = append(l.files[:idx], l.files[idx+1:]...)
		return true
	})
}

// MoveUp swaps the entry with its predecessor. Moving the first entry is a
// no-op.
func (l *List) MoveUp(id string) bool {
	return l.mutate(func() bool {
		idx := l.indexOf(id)
		if idx <= 0 {
			return false
		}
		l.files[idx-1], l.files[idx] = l.files[idx], l.files[idx-1]
		return true
	})
}

// MoveDown swaps the entry with its successor. Moving the last entry is a
// no-op.
func (l *List) MoveDown(id string) bool {
	return l.mutate(func() bool {
		idx := l.indexOf(id)
		if idx < 0 || idx >= len(l.files)-1 {
			return false
		}
		l.files[idx], l.files[idx+1] = l.files[idx+1], l.files[idx]
		return true
	})
}

// Clear removes every entry and returns how many were removed.
func (l *List) Clear() int {
	removed := 0
	l.mutate(func() bool {
		removed = len(l.files)
		l.files = nil
		return true
	})
	return removed
}

// ClearFront removes the first n entries (n <= 0 means 1) and returns how
// many were removed.
func (l *List) ClearFront(n int) int {
	if n <= 0 {
		n = 1
	}
	removed := 0
	l.mutate(func() bool {
		removed = min(n, len(l.files))
		if removed == 0 {
			return false
		}
		l.files = append([]File(nil), l.files[removed:]...)
		return true
	})
	return removed
}

// RemoveIDs removes every entry whose id is in ids and returns how many were
// removed. Ids no longer staged are skipped.
func (l *List) RemoveIDs(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	removed := 0
	l.mutate(func() bool {
		kept := make([]File, 0, len(l.files))
		for _, f := range l.files {
			if _, ok := drop[f.ID]; ok {
				continue
			}
			kept = append(kept, f)
		}
		removed = len(l.files) - len(kept)
		if removed == 0 {
			return false
		}
		l.files = kept
		return true
	})
	return removed
}

// Len returns the number of staged files.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.files)
}

// Files returns a copy of the staged files in order.
func (l *List) Files() []File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]File(nil), l.files...)
}

// Get returns the entry with the given id.
func (l *List) Get(id string) (File, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx := l.indexOf(id); idx >= 0 {
		return l.files[idx], true
	}
	return File{}, false
}

// View renders the current order.
func (l *List) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

// restore replaces the contents without notifying observers.
func (l *List) restore(files []File) {
	l.mu.Lock()
	l.files = append([]File(nil), files...)
	l.mu.Unlock()
}

func (l *List) mutate(fn func() bool) bool {
	l.mu.Lock()
	changed := fn()
	var view View
	var observers []func(View)
	if changed {
		view = l.viewLocked()
		observers = append(observers, l.observers...)
	}
	l.mu.Unlock()

	for _, observer := range observers {
		observer(view)
	}
	return changed
}

func (l *List) indexOf(id string) int {
	for i, f := range l.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) viewLocked() View {
	rows := make([]Row, len(l.files))
	last := len(l.files) - 1
	for i, f := range l.files {
		rows[i] = Row{
			File:        f,
			Position:    i + 1,
			CanMoveUp:   i > 0,
			CanMoveDown: i < last,
		}
	}
	return View{Rows: rows}
}
