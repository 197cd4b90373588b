package voting

import (
	"strconv"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// Event type strings for the voting engine, in the same dotted namespace
// convention as the other native packages.
const (
	EventTypeSuccessfulVote       = "voting.vote.cast"
	EventTypeArtifactFinalized    = "voting.artifact.finalized"
)

// newSuccessfulVoteEvent carries the voter id per spec.md §6's
// SuccessfulVote(id, doc, kind, bool) signature, the same as the three
// registration events carry their registrant's id.
func newSuccessfulVoteEvent(caller crypto.AccountId, kind state.ArtifactKind, doc types.DocString, inFavor bool) *types.Event {
	return types.NewEvent(EventTypeSuccessfulVote, map[string]string{
		"id":       caller.String(),
		"kind":     string(kind),
		"doc":      string(doc),
		"in_favor": strconv.FormatBool(inFavor),
	})
}

func newArtifactFinalizedEvent(kind state.ArtifactKind, doc types.DocString, passed bool, forCount, againstCount uint64) *types.Event {
	return types.NewEvent(EventTypeArtifactFinalized, map[string]string{
		"kind":    string(kind),
		"doc":     string(doc),
		"passed":  strconv.FormatBool(passed),
		"for":     strconv.FormatUint(forCount, 10),
		"against": strconv.FormatUint(againstCount, 10),
	})
}
