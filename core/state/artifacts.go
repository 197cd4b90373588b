package state

import (
	"veles/core/types"
	"veles/crypto"
)

// ArtifactKind tags the three proposal families the voting engine dispatches
// over (spec.md §9's "tagged sum... dispatch table" redesign note).
type ArtifactKind string

const (
	KindFootprintReport ArtifactKind = "FootprintReport"
	KindProjectProposal ArtifactKind = "ProjectProposal"
	KindBatchProposal   ArtifactKind = "BatchProposal"
)

// FootprintReportGet loads the report keyed by doc.
func (s *Store) FootprintReportGet(doc types.DocString) (FootprintReport, bool, error) {
	var r FootprintReport
	found, err := s.getJSON(footprintReportKey(doc), &r)
	return r, found, err
}

// FootprintReportPut writes the report keyed by doc.
func (s *Store) FootprintReportPut(doc types.DocString, r FootprintReport) error {
	return s.putJSON(footprintReportKey(doc), r)
}

// ProjectProposalGet loads the proposal keyed by doc.
func (s *Store) ProjectProposalGet(doc types.DocString) (ProjectProposal, bool, error) {
	var p ProjectProposal
	found, err := s.getJSON(projectProposalKey(doc), &p)
	return p, found, err
}

// ProjectProposalPut writes the proposal keyed by doc.
func (s *Store) ProjectProposalPut(doc types.DocString, p ProjectProposal) error {
	return s.putJSON(projectProposalKey(doc), p)
}

// BatchProposalGet loads the proposal keyed by doc.
func (s *Store) BatchProposalGet(doc types.DocString) (BatchProposal, bool, error) {
	var p BatchProposal
	found, err := s.getJSON(batchProposalKey(doc), &p)
	return p, found, err
}

// BatchProposalPut writes the proposal keyed by doc.
func (s *Store) BatchProposalPut(doc types.DocString, p BatchProposal) error {
	return s.putJSON(batchProposalKey(doc), p)
}

// ProjectProposalExists reports whether a ProjectProposal already claims doc,
// the ProjectProposalAlreadyExists check spec.md §4.3 item 4 names.
// Proposal-key uniqueness here is about the DocString acting as the
// proposal's own key, distinct from the broader documentation-uniqueness
// invariant (I2) checked via DocIndexed.
func (s *Store) ProjectProposalExists(doc types.DocString) (bool, error) {
	return s.has(projectProposalKey(doc))
}

// HasVoted reports whether voter already appears in either vote set of the
// artifact (kind, doc), the check cast_vote uses to enforce I3 (vote
// disjointness) and reject VoteAlreadySubmitted.
func (s *Store) HasVoted(kind ArtifactKind, doc types.DocString, voter crypto.AccountId) (bool, error) {
	forOK, err := s.has(voteForKey(string(kind), doc, voter))
	if err != nil {
		return false, err
	}
	if forOK {
		return true, nil
	}
	return s.has(voteAgainstKey(string(kind), doc, voter))
}

// CastVote records voter's ballot in the for/against set of the artifact
// (kind, doc). Callers must have already checked HasVoted.
func (s *Store) CastVote(kind ArtifactKind, doc types.DocString, voter crypto.AccountId, inFavor bool) error {
	if inFavor {
		return s.putJSON(voteForKey(string(kind), doc, voter), true)
	}
	return s.putJSON(voteAgainstKey(string(kind), doc, voter), true)
}

// VoteCounts returns (votes_for, votes_against) for the artifact (kind, doc),
// the totals spec.md §4.5's vote-passed arithmetic consumes.
func (s *Store) VoteCounts(kind ArtifactKind, doc types.DocString) (forCount, againstCount uint64, err error) {
	if err = s.iteratePrefix(voteForPrefixFor(string(kind), doc), func(_, _ []byte) error {
		forCount++
		return nil
	}); err != nil {
		return 0, 0, err
	}
	if err = s.iteratePrefix(voteAgainstPrefixFor(string(kind), doc), func(_, _ []byte) error {
		againstCount++
		return nil
	}); err != nil {
		return 0, 0, err
	}
	return forCount, againstCount, nil
}

// ArtifactKindOf reports which of the three proposal families currently
// claims doc, for callers (the timeout scheduler) that only have the
// DocString on hand and need the kind tag cast_vote's dispatch requires.
func (s *Store) ArtifactKindOf(doc types.DocString) (ArtifactKind, bool, error) {
	if _, found, err := s.FootprintReportGet(doc); err != nil {
		return "", false, err
	} else if found {
		return KindFootprintReport, true, nil
	}
	if _, found, err := s.ProjectProposalGet(doc); err != nil {
		return "", false, err
	} else if found {
		return KindProjectProposal, true, nil
	}
	if _, found, err := s.BatchProposalGet(doc); err != nil {
		return "", false, err
	} else if found {
		return KindBatchProposal, true, nil
	}
	return "", false, nil
}

// ProjectGet loads the finalized Project keyed by hash.
func (s *Store) ProjectGet(hash crypto.Hash256) (Project, bool, error) {
	var p Project
	found, err := s.getJSON(projectKey(hash), &p)
	return p, found, err
}

// ProjectPut writes the finalized Project keyed by hash.
func (s *Store) ProjectPut(hash crypto.Hash256, p Project) error {
	return s.putJSON(projectKey(hash), p)
}

// BatchGet loads the CarbonCreditBatch keyed by batch_hash.
func (s *Store) BatchGet(batchHash crypto.Hash256) (CarbonCreditBatch, bool, error) {
	var b CarbonCreditBatch
	found, err := s.getJSON(batchKey(batchHash), &b)
	return b, found, err
}

// BatchPut writes the CarbonCreditBatch keyed by batch_hash.
func (s *Store) BatchPut(batchHash crypto.Hash256, b CarbonCreditBatch) error {
	return s.putJSON(batchKey(batchHash), b)
}
