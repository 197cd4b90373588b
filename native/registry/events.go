package registry

import (
	"veles/core/types"
	"veles/crypto"
)

// Event type strings for the account registry, in the same dotted
// namespace convention as the other native packages.
const (
	EventTypeTraderAccountRegistered           = "registry.trader.registered"
	EventTypeProjectValidatorAccountRegistered = "registry.validator.registered"
	EventTypeProjectOwnerAccountRegistered     = "registry.owner.registered"
)

func newTraderRegisteredEvent(id crypto.AccountId) *types.Event {
	return types.NewEvent(EventTypeTraderAccountRegistered, map[string]string{
		"id": id.String(),
	})
}

func newValidatorRegisteredEvent(id crypto.AccountId, doc types.DocString) *types.Event {
	return types.NewEvent(EventTypeProjectValidatorAccountRegistered, map[string]string{
		"id":  id.String(),
		"doc": string(doc),
	})
}

func newOwnerRegisteredEvent(id crypto.AccountId, doc types.DocString) *types.Event {
	return types.NewEvent(EventTypeProjectOwnerAccountRegistered, map[string]string{
		"id":  id.String(),
		"doc": string(doc),
	})
}
