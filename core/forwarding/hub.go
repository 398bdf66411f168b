// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Hub is the single source of truth for roles, the halt flag, the
// settlement destination, and the per-asset strategy registry.

package forwarding

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

var (
	// ErrUnauthorized is returned when the caller lacks the required role.
	ErrUnauthorized = errors.New("caller lacks required role")
	// ErrInvalidArgument is returned when a real identity or strategy is
	// required and a zero value was supplied.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSystemHalted is returned when forwarding is attempted while the
	// hub is not operational.
	ErrSystemHalted = errors.New("system halted")
	// ErrNothingToForward is returned when the resolved balance is zero.
	ErrNothingToForward = errors.New("nothing to forward")
	// ErrTransferRejected is returned when a nested transfer or token call
	// reported failure.
	ErrTransferRejected = errors.New("transfer rejected")
	// ErrNotWhitelisted is returned when satellite generation is gated and
	// the target is not approved.
	ErrNotWhitelisted = errors.New("target not whitelisted")
)

// HubConfig holds the construction parameters for a Hub.
type HubConfig struct {
	Address         common.Address // Identity of the hub itself
	Owner           common.Address // Full control; required
	SweepAuthority  common.Address // May trigger forwarding
	Destination     common.Address // Settlement destination; defaults to Owner
	DefaultStrategy Strategy       // Fallback strategy; required
}

// Hub composes the access roles, the halt switch, and the strategy
// registry. It is shared by reference with every satellite bound to it;
// satellites only ever read it.
type Hub struct {
	mu sync.RWMutex

	address         common.Address
	owner           common.Address
	sweepAuthority  common.Address
	destination     common.Address
	operational     bool
	strategies      map[AssetKind]Strategy
	defaultStrategy Strategy

	forwardFeed   event.Feed
	addressFeed   event.Feed
	ownershipFeed event.Feed
	scope         event.SubscriptionScope
}

// NewHub creates a hub. The owner and the default strategy are required.
// When no destination is given the owner is the initial settlement
// destination. The hub starts operational.
func NewHub(config HubConfig) (*Hub, error) {
	if config.Owner == (common.Address{}) {
		return nil, ErrInvalidArgument
	}
	if config.DefaultStrategy == nil {
		return nil, ErrInvalidArgument
	}
	destination := config.Destination
	if destination == (common.Address{}) {
		destination = config.Owner
	}
	return &Hub{
		address:         config.Address,
		owner:           config.Owner,
		sweepAuthority:  config.SweepAuthority,
		destination:     destination,
		operational:     true,
		strategies:      make(map[AssetKind]Strategy),
		defaultStrategy: config.DefaultStrategy,
	}, nil
}

// Address returns the hub's own identity.
func (h *Hub) Address() common.Address {
	return h.address
}

// Owner returns the current owner identity.
func (h *Hub) Owner() common.Address {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.owner
}

// SweepAuthority returns the identity currently permitted to trigger
// forwarding.
func (h *Hub) SweepAuthority() common.Address {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sweepAuthority
}

// Destination returns the current settlement destination.
func (h *Hub) Destination() common.Address {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.destination
}

// Operational reports whether forwarding is enabled.
func (h *Hub) Operational() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.operational
}

// TransferOwnership reassigns the owner role. Owner-only. The effect is
// immediate and total: the previous owner loses every owner-gated
// capability atomically.
func (h *Hub) TransferOwnership(caller, newOwner common.Address) error {
	h.mu.Lock()
	if caller != h.owner {
		h.mu.Unlock()
		return ErrUnauthorized
	}
	if newOwner == (common.Address{}) {
		h.mu.Unlock()
		return ErrInvalidArgument
	}
	previous := h.owner
	h.owner = newOwner
	h.mu.Unlock()

	log.Info("Hub ownership transferred", "hub", h.address, "previous", previous, "new", newOwner)
	h.ownershipFeed.Send(&OwnershipChangedRecord{Hub: h.address, Previous: previous, New: newOwner})
	return nil
}

// SetSweepAuthority reassigns the sweep authority role. Owner-only.
func (h *Hub) SetSweepAuthority(caller, newAuthority common.Address) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caller != h.owner {
		return ErrUnauthorized
	}
	if newAuthority == (common.Address{}) {
		return ErrInvalidArgument
	}
	h.sweepAuthority = newAuthority
	log.Info("Sweep authority changed", "hub", h.address, "authority", newAuthority)
	return nil
}

// SetDestination changes the settlement destination. Owner-only. Takes
// effect for all subsequent forwards immediately; there is no pending
// state.
func (h *Hub) SetDestination(caller, newDestination common.Address) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caller != h.owner {
		return ErrUnauthorized
	}
	if newDestination == (common.Address{}) {
		return ErrInvalidArgument
	}
	h.destination = newDestination
	log.Info("Settlement destination changed", "hub", h.address, "destination", newDestination)
	return nil
}

// Halt disables forwarding. Owner-only. Sets the flag rather than
// toggling it, so repeated calls are harmless.
func (h *Hub) Halt(caller common.Address) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caller != h.owner {
		return ErrUnauthorized
	}
	h.operational = false
	log.Warn("Hub halted", "hub", h.address)
	return nil
}

// Resume re-enables forwarding. Owner-only. Set, not toggle.
func (h *Hub) Resume(caller common.Address) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caller != h.owner {
		return ErrUnauthorized
	}
	h.operational = true
	log.Info("Hub resumed", "hub", h.address)
	return nil
}

// SetStrategy installs a forwarding strategy override for one asset kind,
// replacing any existing override. Owner-only. A nil strategy clears the
// override so the asset kind falls back to the default. No check is made
// that the strategy can actually move the asset; a misconfigured strategy
// fails at forward time, not here.
func (h *Hub) SetStrategy(caller common.Address, asset AssetKind, strategy Strategy) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if caller != h.owner {
		return ErrUnauthorized
	}
	if strategy == nil {
		delete(h.strategies, asset)
		log.Info("Strategy override cleared", "hub", h.address, "asset", asset)
		return nil
	}
	h.strategies[asset] = strategy
	log.Info("Strategy override set", "hub", h.address, "asset", asset)
	return nil
}

// ResolveStrategy returns the strategy for an asset kind: the override if
// one is installed, otherwise the default strategy. It never fails; the
// default is fixed non-nil at construction.
func (h *Hub) ResolveStrategy(asset AssetKind) Strategy {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.strategies[asset]; ok {
		return s
	}
	return h.defaultStrategy
}

// SubscribeForwardRecords subscribes to records of successful forwards.
func (h *Hub) SubscribeForwardRecords(ch chan<- *ForwardRecord) event.Subscription {
	return h.scope.Track(h.forwardFeed.Subscribe(ch))
}

// SubscribeAddressCreated subscribes to satellite creation records.
func (h *Hub) SubscribeAddressCreated(ch chan<- *AddressCreatedRecord) event.Subscription {
	return h.scope.Track(h.addressFeed.Subscribe(ch))
}

// SubscribeOwnershipChanged subscribes to ownership transfer records.
func (h *Hub) SubscribeOwnershipChanged(ch chan<- *OwnershipChangedRecord) event.Subscription {
	return h.scope.Track(h.ownershipFeed.Subscribe(ch))
}

// Close terminates all record subscriptions.
func (h *Hub) Close() {
	h.scope.Close()
}

// emitForward publishes a forward record. Called by satellites after a
// strategy reports success.
func (h *Hub) emitForward(rec *ForwardRecord) {
	h.forwardFeed.Send(rec)
}

// emitAddressCreated publishes a satellite creation record. Called by
// factories.
func (h *Hub) emitAddressCreated(rec *AddressCreatedRecord) {
	h.addressFeed.Send(rec)
}
