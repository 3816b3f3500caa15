package usecase

import (
	"github.com/samber/lo"

	"ChannelFeed/internal/domain"
)

// Stage names the pipeline step an outcome belongs to.
type Stage string

const (
	StageResolveChannelID  Stage = "resolve_channel_id"
	StageResolveChannelURL Stage = "resolve_channel_url"
	StageFetchLatest       Stage = "fetch_latest"
)

// Outcome is the per-record result of a single resolution or fetch call.
// Value holds the resolved identifier or video id; empty when nothing was found.
type Outcome struct {
	Index int
	Ref   string
	Stage Stage
	Value string
	Err   error
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report collects everything a run decided, in input order.
type Report struct {
	Resolutions []Outcome
	Fetches     []Outcome
	Batch       domain.Batch
}

// Failures lists every failed outcome, resolutions first.
func (r Report) Failures() []Outcome {
	all := append(append([]Outcome{}, r.Resolutions...), r.Fetches...)
	return lo.Filter(all, func(o Outcome, _ int) bool {
		return !o.OK()
	})
}

// Dropped lists the fetch failures, i.e. the records removed from the batch.
func (r Report) Dropped() []Outcome {
	return lo.Reject(r.Fetches, func(o Outcome, _ int) bool {
		return o.OK()
	})
}
