package artifacts

import (
	"veles/core/types"
	"veles/crypto"
)

// Event type strings for artifact submission, in the same dotted namespace
// convention as the other native packages.
const (
	EventTypeFootprintReportSubmitted = "artifacts.footprint_report.submitted"
	EventTypeProjectProposed          = "artifacts.project_proposal.submitted"
	EventTypeBatchProposed            = "artifacts.batch_proposal.submitted"
)

func newFootprintReportSubmittedEvent(caller crypto.AccountId, doc types.DocString) *types.Event {
	return types.NewEvent(EventTypeFootprintReportSubmitted, map[string]string{
		"caller": caller.String(),
		"doc":    string(doc),
	})
}

func newProjectProposedEvent(caller crypto.AccountId, doc types.DocString) *types.Event {
	return types.NewEvent(EventTypeProjectProposed, map[string]string{
		"caller": caller.String(),
		"doc":    string(doc),
	})
}

func newBatchProposedEvent(caller crypto.AccountId, doc types.DocString, projectHash crypto.Hash256) *types.Event {
	return types.NewEvent(EventTypeBatchProposed, map[string]string{
		"caller":       caller.String(),
		"doc":          string(doc),
		"project_hash": projectHash.String(),
	})
}
