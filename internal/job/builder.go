package job

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"relief/internal/staging"
)

var (
	// ErrNoFileSelected reports that the staging list was empty.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrInvalidJobType reports an unselected or unknown job type.
	ErrInvalidJobType = errors.New("invalid job type")
)

// Meta is the per-job metadata sent with a descriptor.
type Meta struct {
	Filename       string   `json:"filename"`
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
	Z              *float64 `json:"z,omitempty"`
	BlackThickness *float64 `json:"black_thickness,omitempty"`
}

// Descriptor is the submission payload.
type Descriptor struct {
	Type  Kind     `json:"type"`
	Files []string `json:"files"`
	Meta  Meta     `json:"meta"`
}

// EmptyDescriptor is the state a Builder starts in and returns to after a
// successful submission.
func EmptyDescriptor() Descriptor {
	return Descriptor{
		Type:  KindUnselected,
		Files: []string{},
		Meta:  Meta{Filename: DefaultFilename},
	}
}

// Source supplies the staged files a descriptor is built from.
type Source interface {
	Files() []staging.File
}

// Poster sends a descriptor to the service.
type Poster interface {
	SubmitJob(ctx context.Context, d Descriptor) error
}

// Builder holds the descriptor between selection and submission.
type Builder struct {
	mu   sync.Mutex
	desc Descriptor
}

// NewBuilder returns a Builder holding the empty descriptor.
func NewBuilder() *Builder {
	return &Builder{desc: EmptyDescriptor()}
}

// Select fills the descriptor from spec and the staged files. An empty
// source returns ErrNoFileSelected and leaves the descriptor untouched.
func (b *Builder) Select(src Source, spec Spec, filename string) (Descriptor, error) {
	if spec == nil || !spec.Kind().Valid() {
		return b.Descriptor(), ErrInvalidJobType
	}
	files := src.Files()
	if len(files) == 0 {
		return b.Descriptor(), ErrNoFileSelected
	}
	kind := spec.Kind()
	if !kind.ConsumesAll() {
		files = files[:1]
	}

	next := Descriptor{
		Type:  kind,
		Files: make([]string, len(files)),
		Meta:  Meta{Filename: NormalizeFilename(filename, kind)},
	}
	for i, f := range files {
		next.Files[i] = f.Data
	}
	spec.applyMeta(&next.Meta)

	b.mu.Lock()
	b.desc = next
	b.mu.Unlock()
	return cloneDescriptor(next), nil
}

// Submit posts the current descriptor. On success the descriptor is reset
// and the number of consumed staged files is returned. On failure the
// descriptor is left as it was.
func (b *Builder) Submit(ctx context.Context, poster Poster) (int, error) {
	desc := b.Descriptor()
	if !desc.Type.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidJobType, desc.Type)
	}
	if len(desc.Files) == 0 {
		return 0, ErrNoFileSelected
	}
	if err := poster.SubmitJob(ctx, desc); err != nil {
		return 0, err
	}
	b.Reset()
	return len(desc.Files), nil
}

// Reset restores the empty descriptor.
func (b *Builder) Reset() {
	b.mu.Lock()
	b.desc = EmptyDescriptor()
	b.mu.Unlock()
}

// Descriptor returns a copy of the current descriptor.
func (b *Builder) Descriptor() Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneDescriptor(b.desc)
}

func cloneDescriptor(d Descriptor) Descriptor {
	d.Files = append([]string{}, d.Files...)
	d.Meta.X = clonePtr(d.Meta.X)
	d.Meta.Y = clonePtr(d.Meta.Y)
	d.Meta.Z = clonePtr(d.Meta.Z)
	d.Meta.BlackThickness = clonePtr(d.Meta.BlackThickness)
	return d
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return float64Ptr(*p)
}
