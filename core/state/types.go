package state

import (
	"veles/core/types"
	"veles/crypto"
)

// FeeKind enumerates the configurable fee kinds spec.md §6 lists.
type FeeKind string

const (
	FeeTraderAccount          FeeKind = "TraderAccountFee"
	FeeProjectValidatorAcct   FeeKind = "ProjectValidatorAccountFee"
	FeeProjectOwnerAccount    FeeKind = "ProjectOwnerAccountFee"
	FeeCarbonFootprintReport  FeeKind = "CarbonFootprintReportFee"
	FeeProjectProposal        FeeKind = "ProjectProposalFee"
	FeeCarbonCreditBatch      FeeKind = "CarbonCreditBatchFee"
	FeeVoting                 FeeKind = "VotingFee"
	FeeClaim                  FeeKind = "ClaimFee"
)

// DefaultFeeValues are the fee defaults spec.md §6 states.
func DefaultFeeValues() map[FeeKind]uint64 {
	return map[FeeKind]uint64{
		FeeTraderAccount:         100,
		FeeProjectValidatorAcct:  100,
		FeeProjectOwnerAccount:   100,
		FeeCarbonFootprintReport: 300,
		FeeProjectProposal:       100,
		FeeCarbonCreditBatch:     50,
		FeeVoting:                100,
		FeeClaim:                100,
	}
}

// TimeKind enumerates the configurable time kinds spec.md §6 lists.
// PalletBaseTime is read-only via the mutator (spec.md §4.1) but is still a
// member so update_time_value can name it in its rejection error.
type TimeKind string

const (
	TimeBlocksYearly    TimeKind = "NumberOfBlocksYearly"
	TimePalletBaseTime  TimeKind = "PalletBaseTime"
	TimePenaltyTimeout  TimeKind = "PenaltyTimeout"
	TimeVotingTimeout   TimeKind = "VotingTimeout"
	TimeSalesTimeout    TimeKind = "SalesTimeout"
)

// VotePassRatio is the (proportion_part, upper_limit_part) pair spec.md §3
// defines, normalized per the rules in update_vote_pass_ratio.
type VotePassRatio struct {
	ProportionPart uint64 `json:"proportion_part"`
	UpperLimitPart uint64 `json:"upper_limit_part"`
}

// Normalize applies spec.md §3's normalization: if upper_limit_part=0 then
// proportion_part=0; else proportion_part is clamped to ≤ upper_limit_part.
func (r VotePassRatio) Normalize() VotePassRatio {
	if r.UpperLimitPart == 0 {
		return VotePassRatio{}
	}
	if r.ProportionPart > r.UpperLimitPart {
		return VotePassRatio{ProportionPart: r.UpperLimitPart, UpperLimitPart: r.UpperLimitPart}
	}
	return r
}

// CFAccount is the carbon-footprint account entity spec.md §3 defines.
// CarbonBalance is a signed integer per spec.md §3 ("signed integer"),
// distinct from the unsigned, saturating types.Balance used for currency.
type CFAccount struct {
	DocumentationSet []types.DocString `json:"documentation_set"`
	CarbonBalance     int64            `json:"carbon_balance"`
	CreationDate      types.Moment     `json:"creation_date"`
}

// RoleRecord is the per-account payload ValidatorMap and OwnerMap carry,
// per spec.md §3: "ValidatorMap and OwnerMap carry a per-account
// {documentation_ipfs, penalty_level, penalty_timeout}."
type RoleRecord struct {
	DocumentationIPFS types.DocString   `json:"documentation_ipfs"`
	PenaltyLevel      uint32            `json:"penalty_level"`
	PenaltyTimeout    types.BlockNumber `json:"penalty_timeout"`
}

// Project is the finalized project entity spec.md §3 defines, created on a
// passing ProjectProposal.
type Project struct {
	DocumentationIPFS types.DocString    `json:"documentation_ipfs"`
	ProjectOwner      crypto.AccountId   `json:"project_owner"`
	CreationDate      types.Moment       `json:"creation_date"`
	PenaltyLevel      uint32             `json:"penalty_level"`
	PenaltyTimeout    types.BlockNumber  `json:"penalty_timeout"`
}

// BatchStatus enumerates the CarbonCreditBatch lifecycle states spec.md §3
// names. Frozen/Redacted are carried as storage states but no operation in
// this core transitions to them (retirement/freezing is out of scope per
// spec.md §1's Non-goals); only Active is ever written by this
// implementation.
type BatchStatus string

const (
	BatchActive   BatchStatus = "Active"
	BatchFrozen   BatchStatus = "Frozen"
	BatchRedacted BatchStatus = "Redacted"
)

// CarbonCreditBatch is the tradable credit-batch entity spec.md §3 defines,
// conceptually keyed by (project_hash, batch_hash). Every operation that
// references a batch after creation (create_sale_order, Holdings lookups)
// names only batch_hash, which the hash-generation scheme (spec.md §4.3)
// already makes globally unique, so the store indexes batches by batch_hash
// alone and carries ProjectHash as a field rather than maintaining a
// separate secondary index.
type CarbonCreditBatch struct {
	ProjectHash        crypto.Hash256  `json:"project_hash"`
	DocumentationIPFS  types.DocString `json:"documentation_ipfs"`
	CreationDate       types.Moment    `json:"creation_date"`
	CreditAmount       types.Balance   `json:"credit_amount"`
	InitialCreditPrice types.Balance   `json:"initial_credit_price"`
	Status             BatchStatus     `json:"status"`
}

// HoldingsEntry is the per-(batch, holder) available/reserved pair spec.md
// §3 defines. Entries are deleted once both components reach zero (I4,
// "Holdings as sparse 2D table" in spec.md §9).
type HoldingsEntry struct {
	Available types.Balance `json:"available"`
	Reserved  types.Balance `json:"reserved"`
}

// IsEmpty reports whether both components are zero, the deletion condition
// spec.md §3 states.
func (h HoldingsEntry) IsEmpty() bool {
	return h.Available.IsZero() && h.Reserved.IsZero()
}

// SaleOrder is the sale-order entity spec.md §3/§4.7 define. Buyer is
// initialized to Seller as the "not yet filled" sentinel.
type SaleOrder struct {
	BatchHash    crypto.Hash256    `json:"batch_hash"`
	CreditAmount types.Balance     `json:"credit_amount"`
	CreditPrice  types.Balance     `json:"credit_price"`
	Seller       crypto.AccountId  `json:"seller"`
	Buyer        crypto.AccountId  `json:"buyer"`
	SaleActive   bool              `json:"sale_active"`
	SaleTimeout  types.BlockNumber `json:"sale_timeout"`
}

// FootprintReport is one of the three proposal families spec.md §3 defines.
type FootprintReport struct {
	CFAccount     crypto.AccountId `json:"cf_account"`
	CreationDate  types.Moment     `json:"creation_date"`
	CarbonBalance int64            `json:"carbon_balance"`
	VotingActive  bool             `json:"voting_active"`
}

// ProjectProposal is one of the three proposal families spec.md §3 defines.
type ProjectProposal struct {
	ProjectOwner crypto.AccountId `json:"project_owner"`
	CreationDate types.Moment     `json:"creation_date"`
	ProjectHash  crypto.Hash256   `json:"project_hash"`
	VotingActive bool             `json:"voting_active"`
}

// BatchProposal is one of the three proposal families spec.md §3 defines.
type BatchProposal struct {
	ProjectHash        crypto.Hash256 `json:"project_hash"`
	BatchHash          crypto.Hash256 `json:"batch_hash"`
	CreationDate       types.Moment   `json:"creation_date"`
	CreditAmount       types.Balance  `json:"credit_amount"`
	InitialCreditPrice types.Balance  `json:"initial_credit_price"`
	VotingActive       bool           `json:"voting_active"`
}
