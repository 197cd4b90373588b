package state

import (
	"veles/core/types"
	"veles/crypto"
)

// Key prefixes, one per table, following the teacher's core/state/
// prefixes.go convention of collecting every namespace byte string in one
// place so collisions are visible at a glance.
var (
	authorityPrefix = []byte("authority/")

	feeValuePrefix  = []byte("config/fee/")
	timeValuePrefix = []byte("config/time/")
	votePassRatioKey = []byte("config/vote-pass-ratio")

	docIndexPrefix = []byte("docindex/")

	cfAccountPrefix  = []byte("registry/cfa/")
	traderSetPrefix  = []byte("registry/trader/")
	validatorPrefix  = []byte("registry/validator/")
	ownerPrefix      = []byte("registry/owner/")

	footprintReportPrefix = []byte("artifact/footprint/")
	projectProposalPrefix = []byte("artifact/project-proposal/")
	batchProposalPrefix   = []byte("artifact/batch-proposal/")

	votesForPrefix     = []byte("votes/for/")
	votesAgainstPrefix = []byte("votes/against/")

	projectPrefix = []byte("project/")
	batchPrefix   = []byte("batch/")

	holdingsPrefix  = []byte("holdings/")
	saleOrderPrefix = []byte("sale-order/")
)

func authorityKey(id crypto.AccountId) []byte {
	return append(append([]byte(nil), authorityPrefix...), id.Bytes()...)
}

func feeValueKey(kind FeeKind) []byte {
	return append(append([]byte(nil), feeValuePrefix...), []byte(kind)...)
}

func timeValueKey(kind TimeKind) []byte {
	return append(append([]byte(nil), timeValuePrefix...), []byte(kind)...)
}

func docIndexKey(doc types.DocString) []byte {
	return append(append([]byte(nil), docIndexPrefix...), []byte(doc)...)
}

func cfAccountKey(id crypto.AccountId) []byte {
	return append(append([]byte(nil), cfAccountPrefix...), id.Bytes()...)
}

func traderKey(id crypto.AccountId) []byte {
	return append(append([]byte(nil), traderSetPrefix...), id.Bytes()...)
}

func validatorKey(id crypto.AccountId) []byte {
	return append(append([]byte(nil), validatorPrefix...), id.Bytes()...)
}

func ownerKey(id crypto.AccountId) []byte {
	return append(append([]byte(nil), ownerPrefix...), id.Bytes()...)
}

func footprintReportKey(doc types.DocString) []byte {
	return append(append([]byte(nil), footprintReportPrefix...), []byte(doc)...)
}

func projectProposalKey(doc types.DocString) []byte {
	return append(append([]byte(nil), projectProposalPrefix...), []byte(doc)...)
}

func batchProposalKey(doc types.DocString) []byte {
	return append(append([]byte(nil), batchProposalPrefix...), []byte(doc)...)
}

// voteForKey and voteAgainstKey namespace a vote-set membership entry by
// artifact kind so the
// three proposal families never collide in the shared votes/for and
// votes/against tables the cast_vote dispatch shares (spec.md §9's
// "heterogeneous proposals sharing one voting operation" redesign note).
func voteForKey(kind string, doc types.DocString, voter crypto.AccountId) []byte {
	return append(append(append(append([]byte(nil), votesForPrefix...), []byte(kind+"/")...), []byte(string(doc)+"/")...), voter.Bytes()...)
}

func voteAgainstKey(kind string, doc types.DocString, voter crypto.AccountId) []byte {
	return append(append(append(append([]byte(nil), votesAgainstPrefix...), []byte(kind+"/")...), []byte(string(doc)+"/")...), voter.Bytes()...)
}

func voteForPrefixFor(kind string, doc types.DocString) []byte {
	return append(append([]byte(nil), votesForPrefix...), []byte(kind+"/"+string(doc)+"/")...)
}

func voteAgainstPrefixFor(kind string, doc types.DocString) []byte {
	return append(append([]byte(nil), votesAgainstPrefix...), []byte(kind+"/"+string(doc)+"/")...)
}

func projectKey(hash crypto.Hash256) []byte {
	return append(append([]byte(nil), projectPrefix...), hash.Bytes()...)
}

// batchKey indexes a CarbonCreditBatch by batch_hash alone — see the
// CarbonCreditBatch doc comment in types.go for why the project_hash half of
// the conceptual compound key isn't needed for lookups.
func batchKey(batchHash crypto.Hash256) []byte {
	return append(append([]byte(nil), batchPrefix...), batchHash.Bytes()...)
}

func holdingsKey(batchHash crypto.Hash256, holder crypto.AccountId) []byte {
	out := append([]byte(nil), holdingsPrefix...)
	out = append(out, batchHash.Bytes()...)
	out = append(out, holder.Bytes()...)
	return out
}

func saleOrderKey(hash crypto.Hash256) []byte {
	return append(append([]byte(nil), saleOrderPrefix...), hash.Bytes()...)
}
