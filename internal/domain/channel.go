package domain

import "time"

// ChannelRecord is one tracked channel, enriched in place by the pipeline.
type ChannelRecord struct {
	Category   string
	ChannelURL string
	ChannelID  string

	Author    string
	Title     string
	VideoID   string
	Published string

	// Extra holds the channel list columns the pipeline does not interpret.
	Extra map[string]string
}

// LatestItem is the newest feed entry of a channel.
type LatestItem struct {
	Author    string
	Title     string
	VideoID   string
	Published string
}

// Apply merges the latest-item fields into the record.
func (r *ChannelRecord) Apply(item LatestItem) {
	r.Author = item.Author
	r.Title = item.Title
	r.VideoID = item.VideoID
	r.Published = item.Published
}

// Ref returns the most readable reference for log lines.
func (r ChannelRecord) Ref() string {
	if r.ChannelURL != "" {
		return r.ChannelURL
	}
	if r.ChannelID != "" {
		return r.ChannelID
	}
	return "<unidentified>"
}

// Batch is the final collection handed to output sinks.
type Batch struct {
	Records     []ChannelRecord
	GeneratedAt time.Time
}
