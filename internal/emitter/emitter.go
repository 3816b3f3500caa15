package emitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

// Encoder renders a batch into one output format.
type Encoder interface {
	Format() string
	Encode(w io.Writer, batch domain.Batch) error
}

// Registry keeps a mapping from format names to their encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{encoders: map[string]Encoder{}}
}

// Register adds or replaces an encoder implementation.
func (r *Registry) Register(enc Encoder) {
	if r.encoders == nil {
		r.encoders = map[string]Encoder{}
	}
	r.encoders[enc.Format()] = enc
}

// Resolve returns an encoder by format or an error if it is absent.
func (r *Registry) Resolve(format string) (Encoder, error) {
	if enc, ok := r.encoders[format]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("output format %s is not registered", format)
}

// Target is one configured output file.
type Target struct {
	Format string
	Path   string
}

type sink struct {
	path    string
	encoder Encoder
}

// Emitter writes the same batch to every configured target file.
type Emitter struct {
	sinks  []sink
	logger *slog.Logger
}

var _ ports.Publisher = (*Emitter)(nil)

// New resolves every target against the registry up front.
func New(reg *Registry, targets []Target, log *slog.Logger) (*Emitter, error) {
	e := &Emitter{logger: log}
	for _, t := range targets {
		enc, err := reg.Resolve(t.Format)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", t.Path, err)
		}
		e.sinks = append(e.sinks, sink{path: t.Path, encoder: enc})
	}
	return e, nil
}

// Publish regenerates each output file from scratch.
func (e *Emitter) Publish(ctx context.Context, batch domain.Batch) error {
	for _, s := range e.sinks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(s.path, batch, s.encoder); err != nil {
			return fmt.Errorf("emit %s: %w", s.path, err)
		}
		if e.logger != nil {
			e.logger.Info("output written", "path", s.path, "format", s.encoder.Format(), "records", len(batch.Records))
		}
	}
	return nil
}

func writeFile(path string, batch domain.Batch, enc Encoder) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if err := enc.Encode(f, batch); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
