package output

import (
	"github.com/samber/lo"

	"ChannelFeed/internal/domain"
)

var videoColumns = []string{"category", "channel_url", "channel_id", "author", "title", "video_id", "published"}

type videoRow struct {
	Category   string `json:"category"`
	ChannelURL string `json:"channel_url"`
	ChannelID  string `json:"channel_id"`
	Author     string `json:"author"`
	Title      string `json:"title"`
	VideoID    string `json:"video_id"`
	Published  string `json:"published"`
}

func (v videoRow) fields() []string {
	return []string{v.Category, v.ChannelURL, v.ChannelID, v.Author, v.Title, v.VideoID, v.Published}
}

func toRows(records []domain.ChannelRecord) []videoRow {
	return lo.Map(records, func(r domain.ChannelRecord, _ int) videoRow {
		return videoRow{
			Category:   r.Category,
			ChannelURL: r.ChannelURL,
			ChannelID:  r.ChannelID,
			Author:     r.Author,
			Title:      r.Title,
			VideoID:    r.VideoID,
			Published:  r.Published,
		}
	})
}
