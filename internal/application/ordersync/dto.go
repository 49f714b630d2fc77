package ordersync

import (
	"time"

	"github.com/google/uuid"
)

// SyncOptions carries the optional time-window overrides for a manual or
// backfill invocation. A scheduled pass leaves both empty and gets the
// default two-hour lookback.
type SyncOptions struct {
	// CreatedAfter overrides the start of the order window (vendor.TimestampFormat)
	CreatedAfter string
	// CreatedBefore optionally bounds the end of the order window
	CreatedBefore string
}

// Indicator is the consolidated status colour of a sync pass
type Indicator string

const (
	// IndicatorGreen means new orders were created and nothing failed
	IndicatorGreen Indicator = "green"
	// IndicatorBlue means the pass completed with nothing new to create
	IndicatorBlue Indicator = "blue"
	// IndicatorRed means at least one order failed to materialize
	IndicatorRed Indicator = "red"
)

// Summary aggregates the outcome of one sync pass
type Summary struct {
	// RunID uniquely identifies this pass
	RunID uuid.UUID `json:"run_id"`
	// StartedAt is when the pass began
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the pass completed
	FinishedAt time.Time `json:"finished_at"`
	// Disabled is true when the integration was switched off and the pass
	// short-circuited without any network calls
	Disabled bool `json:"disabled"`
	// Created counts newly materialized sales orders
	Created int `json:"created"`
	// Skipped counts orders already present (matched by purchase order number)
	Skipped int `json:"skipped"`
	// Failed counts orders that could not be materialized
	Failed int `json:"failed"`
	// MissingItems lists vendor product identifiers that had no item mapping
	MissingItems []string `json:"missing_items,omitempty"`
	// FetchError carries the order-fetch transport error, if any. The pass
	// degrades to an empty order list in that case; this field is what makes
	// a missed window distinguishable from "no new orders".
	FetchError string `json:"fetch_error,omitempty"`
}

// Indicator returns the consolidated status colour: red if any order failed,
// green if all new orders were created, blue when there was nothing new.
func (s *Summary) Indicator() Indicator {
	switch {
	case s.Failed > 0:
		return IndicatorRed
	case s.Created > 0:
		return IndicatorGreen
	default:
		return IndicatorBlue
	}
}
