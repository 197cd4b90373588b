package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// GenesisSpec is the YAML-authored seed for the configuration store,
// following the same yaml-tagged-struct-plus-os.ReadFile convention the
// teacher's service configs (services/swapd/config, services/governd/config)
// use, applied here to on-chain genesis parameters rather than a daemon's
// runtime flags.
type GenesisSpec struct {
	Authorities   []string         `yaml:"authorities"`
	Fees          map[string]uint64 `yaml:"fees"`
	BlocksPerYear uint64           `yaml:"blocksPerYear"`
	PenaltyTimeout uint64          `yaml:"penaltyTimeout"`
	VotingTimeout uint64           `yaml:"votingTimeout"`
	SalesTimeout  uint64           `yaml:"salesTimeout"`
	VotePassRatio struct {
		ProportionPart uint64 `yaml:"proportionPart"`
		UpperLimitPart uint64 `yaml:"upperLimitPart"`
	} `yaml:"votePassRatio"`
}

// LoadGenesisSpec reads and parses a genesis configuration file.
func LoadGenesisSpec(path string) (*GenesisSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("market: read genesis spec: %w", err)
	}
	var spec GenesisSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("market: parse genesis spec: %w", err)
	}
	return &spec, nil
}

// ApplyGenesis seeds the AuthoritySet and every configuration table from
// spec, falling back to the spec.md §6 defaults for any fee kind the spec
// omits. Unlike the authority-gated mutators, genesis application bypasses
// UpdateFeeValue/UpdateTimeValue's "reject equal writes" checks: there is no
// prior value to collide with during bootstrap.
func ApplyGenesis(store *state.Store, spec *GenesisSpec) error {
	for _, addr := range spec.Authorities {
		id, err := crypto.DecodeAccountId(addr)
		if err != nil {
			return fmt.Errorf("market: genesis authority %q: %w", addr, err)
		}
		if err := store.PutAuthority(id); err != nil {
			return err
		}
	}

	defaults := state.DefaultFeeValues()
	for kind, defaultValue := range defaults {
		v := defaultValue
		if configured, ok := spec.Fees[string(kind)]; ok {
			v = configured
		}
		if err := store.SetFeeValue(kind, types.NewBalanceFromUint64(v)); err != nil {
			return err
		}
	}

	timeValues := map[state.TimeKind]uint64{
		state.TimeBlocksYearly:   spec.BlocksPerYear,
		state.TimePenaltyTimeout: spec.PenaltyTimeout,
		state.TimeVotingTimeout:  spec.VotingTimeout,
		state.TimeSalesTimeout:   spec.SalesTimeout,
	}
	for kind, v := range timeValues {
		if err := store.SetTimeValue(kind, types.BlockNumber(v)); err != nil {
			return err
		}
	}
	// PalletBaseTime starts at zero; the first block tick's anniversary
	// check (spec.md §4.6) sets it on its own.
	if err := store.SetTimeValue(state.TimePalletBaseTime, 0); err != nil {
		return err
	}

	ratio := state.VotePassRatio{
		ProportionPart: spec.VotePassRatio.ProportionPart,
		UpperLimitPart: spec.VotePassRatio.UpperLimitPart,
	}.Normalize()
	return store.SetVotePassRatio(ratio)
}
