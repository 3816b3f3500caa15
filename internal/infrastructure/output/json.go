package output

import (
	"encoding/json"
	"fmt"
	"io"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/emitter"
)

// JSONEncoder writes the records as an indented JSON array.
type JSONEncoder struct{}

var _ emitter.Encoder = JSONEncoder{}

// Format identifies the encoder inside the registry.
func (JSONEncoder) Format() string { return "json" }

// Encode never emits null; an empty batch is an empty array.
func (JSONEncoder) Encode(w io.Writer, batch domain.Batch) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toRows(batch.Records)); err != nil {
		return fmt.Errorf("encode videos: %w", err)
	}
	return nil
}
