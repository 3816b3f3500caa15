package output

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/emitter"
)

// Record fields are interpolated verbatim; the feed content is trusted input.
var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"day": displayDate,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Latest videos</title>
<style>
body { font-family: sans-serif; margin: 0 auto; max-width: 1200px; padding: 1rem; }
.videos { display: grid; gap: 1rem; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); }
.video img { width: 100%; }
.video p { margin: 0.2rem 0; }
footer { color: #666; margin-top: 2rem; }
</style>
</head>
<body>
<div class="videos">
{{- range .Records}}
<div class="video">
<a href="https://www.youtube.com/watch?v={{.VideoID}}"><img src="https://i.ytimg.com/vi/{{.VideoID}}/mqdefault.jpg" alt="{{.Title}}"></a>
<p class="title">{{.Title}}</p>
<p class="author">{{.Author}}</p>
<p class="date">{{day .Published}}</p>
</div>
{{- end}}
</div>
<footer>Generated {{.Generated}}</footer>
</body>
</html>
`))

// HTMLEncoder renders a thumbnail grid page with a generation footer.
type HTMLEncoder struct{}

var _ emitter.Encoder = HTMLEncoder{}

// Format identifies the encoder inside the registry.
func (HTMLEncoder) Format() string { return "html" }

// Encode renders the page for the batch.
func (HTMLEncoder) Encode(w io.Writer, batch domain.Batch) error {
	data := struct {
		Records   []domain.ChannelRecord
		Generated string
	}{
		Records:   batch.Records,
		Generated: batch.GeneratedAt.Format(time.DateTime),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// displayDate keeps the YYYY-MM-DD prefix of an ISO 8601 timestamp.
func displayDate(published string) string {
	if len(published) < len(time.DateOnly) {
		return published
	}
	return published[:len(time.DateOnly)]
}
