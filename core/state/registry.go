package state

import (
	"encoding/json"

	"veles/core/types"
	"veles/crypto"
)

// CFAccountGet loads the CFAccount for id.
func (s *Store) CFAccountGet(id crypto.AccountId) (CFAccount, bool, error) {
	var acct CFAccount
	found, err := s.getJSON(cfAccountKey(id), &acct)
	return acct, found, err
}

// CFAccountPut writes acct for id.
func (s *Store) CFAccountPut(id crypto.AccountId, acct CFAccount) error {
	return s.putJSON(cfAccountKey(id), acct)
}

// IsTrader reports whether id is registered as a trader.
func (s *Store) IsTrader(id crypto.AccountId) (bool, error) {
	return s.has(traderKey(id))
}

// PutTrader registers id as a trader.
func (s *Store) PutTrader(id crypto.AccountId) error {
	return s.putJSON(traderKey(id), true)
}

// ValidatorGet loads the RoleRecord for a registered project validator.
func (s *Store) ValidatorGet(id crypto.AccountId) (RoleRecord, bool, error) {
	var rec RoleRecord
	found, err := s.getJSON(validatorKey(id), &rec)
	return rec, found, err
}

// ValidatorPut registers id as a project validator with rec.
func (s *Store) ValidatorPut(id crypto.AccountId, rec RoleRecord) error {
	return s.putJSON(validatorKey(id), rec)
}

// OwnerGet loads the RoleRecord for a registered project owner.
func (s *Store) OwnerGet(id crypto.AccountId) (RoleRecord, bool, error) {
	var rec RoleRecord
	found, err := s.getJSON(ownerKey(id), &rec)
	return rec, found, err
}

// OwnerPut registers id as a project owner with rec.
func (s *Store) OwnerPut(id crypto.AccountId, rec RoleRecord) error {
	return s.putJSON(ownerKey(id), rec)
}

// IsAccountAvailable implements spec.md §4.2's is_account_available: false
// iff id is in any of the four role containers (CFA, Trader, Validator,
// Owner).
func (s *Store) IsAccountAvailable(id crypto.AccountId) (bool, error) {
	if _, found, err := s.CFAccountGet(id); err != nil {
		return false, err
	} else if found {
		return false, nil
	}
	if ok, err := s.IsTrader(id); err != nil {
		return false, err
	} else if ok {
		return false, nil
	}
	if _, found, err := s.ValidatorGet(id); err != nil {
		return false, err
	} else if found {
		return false, nil
	}
	if _, found, err := s.OwnerGet(id); err != nil {
		return false, err
	} else if found {
		return false, nil
	}
	return true, nil
}

// IsEligibleForCFA implements spec.md §4.2's is_eligible_for_cfa: true iff
// id is not in Trader/Validator/Owner (CFA registration is permitted
// alongside an existing CFAccount — repeat footprint reports append to it).
func (s *Store) IsEligibleForCFA(id crypto.AccountId) (bool, error) {
	if ok, err := s.IsTrader(id); err != nil {
		return false, err
	} else if ok {
		return false, nil
	}
	if _, found, err := s.ValidatorGet(id); err != nil {
		return false, err
	} else if found {
		return false, nil
	}
	if _, found, err := s.OwnerGet(id); err != nil {
		return false, err
	} else if found {
		return false, nil
	}
	return true, nil
}

// IsEligibleForCreditTx implements spec.md §4.2's is_eligible_for_credit_tx:
// true iff id is in CFA, Validator, or Owner. Traders are deliberately
// excluded — spec.md §9 open question 3 preserves this as observed in the
// source rather than inverting it.
func (s *Store) IsEligibleForCreditTx(id crypto.AccountId) (bool, error) {
	if _, found, err := s.CFAccountGet(id); err != nil {
		return false, err
	} else if found {
		return true, nil
	}
	if _, found, err := s.ValidatorGet(id); err != nil {
		return false, err
	} else if found {
		return true, nil
	}
	if _, found, err := s.OwnerGet(id); err != nil {
		return false, err
	} else if found {
		return true, nil
	}
	return false, nil
}

// HasActiveFootprintReport implements spec.md §4.2's
// has_active_footprint_report: true iff any FootprintReport with
// cf_account=id has voting_active=true. Scans every stored footprint report,
// not only those submitted by id; at most one of id's reports is active at a
// time (I1 blocks a second submission while one is active).
func (s *Store) HasActiveFootprintReport(id crypto.AccountId) (bool, error) {
	active := false
	err := s.iteratePrefix(footprintReportPrefix, func(_, value []byte) error {
		var report FootprintReport
		if err := json.Unmarshal(value, &report); err != nil {
			return err
		}
		if report.CFAccount == id && report.VotingActive {
			active = true
		}
		return nil
	})
	return active, err
}

// DocIndexed reports whether doc has already been claimed by any artifact or
// account, the uniqueness check spec.md §3 invariant I2 requires.
func (s *Store) DocIndexed(doc types.DocString) (bool, error) {
	return s.has(docIndexKey(doc))
}

// DocIndexClaim marks doc as claimed. Callers must have already checked
// DocIndexed (this method does not itself enforce uniqueness, so precondition
// checks and the write stay cleanly separated per the "rollback on failure"
// model in spec.md §5/§7).
func (s *Store) DocIndexClaim(doc types.DocString) error {
	return s.putJSON(docIndexKey(doc), true)
}
