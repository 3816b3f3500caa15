package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

const (
	columnCategory   = "category"
	columnChannelURL = "channel_url"
	columnChannelID  = "channel_id"
)

var channelColumns = []string{columnCategory, columnChannelURL, columnChannelID}

// CSVRepository keeps the tracked channel list in a delimited file.
// The header seen by Load is reused by Save so columns the pipeline does not
// interpret survive the rewrite in their original order.
type CSVRepository struct {
	path   string
	header []string
}

var _ ports.ChannelRepository = (*CSVRepository)(nil)

// NewCSVRepository binds the repository to a file path.
func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// Load reads every row and remembers the header for the next Save.
func (r *CSVRepository) Load(ctx context.Context) ([]domain.ChannelRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open channel list: %w", err)
	}
	defer f.Close()

	header, records, err := ReadChannels(f)
	if err != nil {
		return nil, err
	}
	r.header = header
	return records, nil
}

// Save rewrites the file wholesale, keeping the permissions of the file it replaces.
func (r *CSVRepository) Save(ctx context.Context, records []domain.ChannelRecord) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".channels-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := WriteChannels(tmp, r.header, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace channel list: %w", err)
	}
	return nil
}

// ReadChannels decodes a channel list; a missing header column is fatal.
// Columns beyond the identifier ones land in ChannelRecord.Extra.
func ReadChannels(src io.Reader) ([]string, []domain.ChannelRecord, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("missing header: %w", domain.ErrInvalidSource)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[header[i]] = i
	}
	for _, col := range channelColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("column %q: %w", col, domain.ErrInvalidSource)
		}
	}
	extras := lo.Without(header, channelColumns...)

	var records []domain.ChannelRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}

		field := func(col string) string {
			if i := index[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		rec := domain.ChannelRecord{
			Category:   field(columnCategory),
			ChannelURL: field(columnChannelURL),
			ChannelID:  field(columnChannelID),
		}
		if len(extras) > 0 {
			rec.Extra = lo.SliceToMap(extras, func(col string) (string, string) {
				return col, field(col)
			})
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// WriteChannels encodes the channel list under header, or the identifier
// columns alone when header is empty.
func WriteChannels(dst io.Writer, header []string, records []domain.ChannelRecord) error {
	if len(header) == 0 {
		header = channelColumns
	}

	w := csv.NewWriter(dst)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := lo.Map(header, func(col string, _ int) string {
			switch col {
			case columnCategory:
				return rec.Category
			case columnChannelURL:
				return rec.ChannelURL
			case columnChannelID:
				return rec.ChannelID
			default:
				return rec.Extra[col]
			}
		})
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write channel %s: %w", rec.Ref(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush channel list: %w", err)
	}
	return nil
}
