package market

import (
	"strconv"

	"veles/core/state"
	"veles/core/types"
)

// Event type strings for the configuration store, following the
// dotted-namespace convention used across the other native packages
// (market.*, registry.*, artifacts.*, voting.*, holdings.*).
const (
	EventTypeVotePassRatioUpdated = "market.vote_pass_ratio.updated"
	EventTypeTimeValueUpdated     = "market.time_value.updated"
	EventTypeFeeValueUpdated      = "market.fee_value.updated"
)

func newVotePassRatioUpdatedEvent(r state.VotePassRatio) *types.Event {
	return types.NewEvent(EventTypeVotePassRatioUpdated, map[string]string{
		"proportion_part": strconv.FormatUint(r.ProportionPart, 10),
		"upper_limit_part": strconv.FormatUint(r.UpperLimitPart, 10),
	})
}

func newTimeValueUpdatedEvent(kind state.TimeKind, value types.BlockNumber) *types.Event {
	return types.NewEvent(EventTypeTimeValueUpdated, map[string]string{
		"kind":  string(kind),
		"value": strconv.FormatUint(uint64(value), 10),
	})
}

func newFeeValueUpdatedEvent(kind state.FeeKind, value types.Balance) *types.Event {
	return types.NewEvent(EventTypeFeeValueUpdated, map[string]string{
		"kind":  string(kind),
		"value": value.String(),
	})
}
