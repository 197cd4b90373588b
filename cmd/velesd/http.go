package main

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/artifacts"
	"veles/native/holdings"
	"veles/native/market"
	"veles/native/registry"
	"veles/native/voting"
)

// blockCounter is the shared, monotonically increasing block number the
// tick loop advances and the submission API reads when computing a
// timeout's absolute block. There is no consensus here, so this process's
// own tick loop is the sole writer.
type blockCounter struct {
	value atomic.Uint64
}

func (b *blockCounter) Current() types.BlockNumber { return types.BlockNumber(b.value.Load()) }
func (b *blockCounter) Advance() types.BlockNumber { return types.BlockNumber(b.value.Add(1)) }

// api wires the submission-side native engines to a small JSON/HTTP
// surface, standing in for the host-runtime extrinsic dispatch spec.md §1
// places outside this state machine's own scope.
type api struct {
	registry  *registry.Engine
	artifacts *artifacts.Engine
	voting    *voting.Engine
	holdings  *holdings.Engine
	market    *market.Engine
	store     *state.Store
	block     *blockCounter
}

func (a *api) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/registry/trader", a.handleRegisterTrader)
	mux.HandleFunc("/v1/registry/validator", a.handleRegisterValidator)
	mux.HandleFunc("/v1/registry/owner", a.handleRegisterOwner)
	mux.HandleFunc("/v1/artifacts/footprint-reports", a.handleSubmitFootprintReport)
	mux.HandleFunc("/v1/artifacts/project-proposals", a.handleProposeProject)
	mux.HandleFunc("/v1/artifacts/batch-proposals", a.handleProposeBatch)
	mux.HandleFunc("/v1/artifacts/votes", a.handleCastVote)
	mux.HandleFunc("/v1/market/sale-orders", a.handleCreateSaleOrder)
	mux.HandleFunc("/v1/market/sale-orders/complete", a.handleCompleteSaleOrder)
	mux.HandleFunc("/v1/market/sale-orders/close", a.handleCloseSaleOrder)
	mux.HandleFunc("/v1/config/vote-pass-ratio", a.handleUpdateVotePassRatio)
	mux.HandleFunc("/v1/config/time-value", a.handleUpdateTimeValue)
	mux.HandleFunc("/v1/config/fee-value", a.handleUpdateFeeValue)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (a *api) handleRegisterTrader(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Fee    uint64 `json:"fee"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.registry.RegisterTrader(caller, types.NewBalanceFromUint64(req.Fee)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleRegisterValidator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Doc    string `json:"doc"`
		Fee    uint64 `json:"fee"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.registry.RegisterValidator(caller, types.DocString(req.Doc), types.NewBalanceFromUint64(req.Fee)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleRegisterOwner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Doc    string `json:"doc"`
		Fee    uint64 `json:"fee"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.registry.RegisterOwner(caller, types.DocString(req.Doc), types.NewBalanceFromUint64(req.Fee)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleSubmitFootprintReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller        string `json:"caller"`
		Doc           string `json:"doc"`
		CarbonBalance int64  `json:"carbon_balance"`
		Fee           uint64 `json:"fee"`
		VotingTimeout uint64 `json:"voting_timeout"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	now := types.NewMoment(time.Now())
	err = a.artifacts.SubmitFootprintReport(caller, types.DocString(req.Doc), req.CarbonBalance,
		types.NewBalanceFromUint64(req.Fee), now, types.BlockNumber(req.VotingTimeout), a.block.Current())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleProposeProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller        string `json:"caller"`
		Doc           string `json:"doc"`
		Nonce         uint64 `json:"nonce"`
		Fee           uint64 `json:"fee"`
		VotingTimeout uint64 `json:"voting_timeout"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	now := types.NewMoment(time.Now())
	err = a.artifacts.ProposeProject(caller, types.DocString(req.Doc), req.Nonce,
		types.NewBalanceFromUint64(req.Fee), now, types.BlockNumber(req.VotingTimeout), a.block.Current())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleProposeBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller        string `json:"caller"`
		ProjectHash   string `json:"project_hash"`
		Amount        uint64 `json:"amount"`
		Price         uint64 `json:"price"`
		Doc           string `json:"doc"`
		Nonce         uint64 `json:"nonce"`
		Fee           uint64 `json:"fee"`
		VotingTimeout uint64 `json:"voting_timeout"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	projectHash, err := crypto.DecodeHash256(req.ProjectHash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	now := types.NewMoment(time.Now())
	err = a.artifacts.ProposeBatch(caller, projectHash, types.NewBalanceFromUint64(req.Amount), types.NewBalanceFromUint64(req.Price),
		types.DocString(req.Doc), req.Nonce, types.NewBalanceFromUint64(req.Fee), now, types.BlockNumber(req.VotingTimeout), a.block.Current())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Kind    string `json:"kind"`
		Doc     string `json:"doc"`
		InFavor bool   `json:"in_favor"`
		Fee     uint64 `json:"fee"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.voting.CastVote(caller, state.ArtifactKind(req.Kind), types.DocString(req.Doc), req.InFavor, types.NewBalanceFromUint64(req.Fee)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handleCreateSaleOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seller        string `json:"seller"`
		BatchHash     string `json:"batch_hash"`
		Amount        uint64 `json:"amount"`
		Price         uint64 `json:"price"`
		Nonce         uint64 `json:"nonce"`
		VotingTimeout uint64 `json:"voting_timeout"`
	}
	if !decode(w, r, &req) {
		return
	}
	seller, err := crypto.DecodeAccountId(req.Seller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	batchHash, err := crypto.DecodeHash256(req.BatchHash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	now := types.NewMoment(time.Now())
	saleHash, err := a.holdings.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(req.Amount),
		types.NewBalanceFromUint64(req.Price), req.Nonce, now, types.BlockNumber(req.VotingTimeout), a.block.Current())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sale_hash": saleHash.String()})
}

func (a *api) handleCompleteSaleOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Buyer    string `json:"buyer"`
		SaleHash string `json:"sale_hash"`
	}
	if !decode(w, r, &req) {
		return
	}
	buyer, err := crypto.DecodeAccountId(req.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saleHash, err := crypto.DecodeHash256(req.SaleHash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.holdings.CompleteSaleOrder(buyer, saleHash); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *api) handleCloseSaleOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seller   string `json:"seller"`
		SaleHash string `json:"sale_hash"`
	}
	if !decode(w, r, &req) {
		return
	}
	seller, err := crypto.DecodeAccountId(req.Seller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saleHash, err := crypto.DecodeHash256(req.SaleHash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.holdings.CloseSaleOrder(seller, saleHash); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *api) handleUpdateVotePassRatio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller         string `json:"caller"`
		ProportionPart uint64 `json:"proportion_part"`
		UpperLimitPart uint64 `json:"upper_limit_part"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.market.UpdateVotePassRatio(caller, req.ProportionPart, req.UpperLimitPart); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *api) handleUpdateTimeValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Kind   string `json:"kind"`
		Value  uint64 `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.market.UpdateTimeValue(caller, state.TimeKind(req.Kind), types.BlockNumber(req.Value)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *api) handleUpdateFeeValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Kind   string `json:"kind"`
		Value  uint64 `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	caller, err := crypto.DecodeAccountId(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.market.UpdateFeeValue(caller, state.FeeKind(req.Kind), types.NewBalanceFromUint64(req.Value)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
