package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/emitter"
)

// CSVEncoder writes one row per enriched channel.
type CSVEncoder struct{}

var _ emitter.Encoder = CSVEncoder{}

// Format identifies the encoder inside the registry.
func (CSVEncoder) Format() string { return "csv" }

// Encode writes the header followed by the records in order.
func (CSVEncoder) Encode(w io.Writer, batch domain.Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(videoColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range toRows(batch.Records) {
		if err := cw.Write(row.fields()); err != nil {
			return fmt.Errorf("write row %s: %w", row.VideoID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
