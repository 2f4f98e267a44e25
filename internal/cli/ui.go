package cli

import (
	"strings"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// SpinnerRefreshRate defines the refresh frequency of the wait spinner.
	SpinnerRefreshRate = 200 * time.Millisecond
	// BusyBarWidth defines the width in characters of the utilization bar.
	BusyBarWidth = 20
)

// Spinner abstracts the terminal spinner shown while the snapshot waits for
// its second sample, so the wait can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// busyBar renders a utilization between 0 and 100 as a bar of length cells.
func busyBar(percent float64, length int) string {
	ratio := percent / 100
	if ratio > 1.0 {
		ratio = 1.0
	}
	if ratio < 0.0 {
		ratio = 0.0
	}
	count := int(ratio * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
