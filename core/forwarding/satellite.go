// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Satellite is a passive per-deposit receiving endpoint. It holds no
// business logic: forwarding behavior is resolved from the hub at the
// moment of the call.

package forwarding

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Satellite is one deposit endpoint bound to exactly one hub. The hub
// reference is set at construction and never changes. A satellite's only
// state is whatever ledger balances its address happens to hold.
type Satellite struct {
	address common.Address
	hub     *Hub
}

// NewSatellite binds a satellite address to a hub. Satellites are
// normally created through a Factory; the constructor is exported for
// callers that manage addresses themselves.
func NewSatellite(hub *Hub, address common.Address) (*Satellite, error) {
	if hub == nil || address == (common.Address{}) {
		return nil, ErrInvalidArgument
	}
	return &Satellite{address: address, hub: hub}, nil
}

// Address returns the satellite's deposit address.
func (s *Satellite) Address() common.Address {
	return s.address
}

// Hub returns the hub this satellite is bound to.
func (s *Satellite) Hub() *Hub {
	return s.hub
}

// OnTokenReceived is the acceptance hook token collaborators invoke on
// transfer. Acceptance always succeeds; no filtering or accounting
// happens at receive time. Balances are read fresh at forward time.
func (s *Satellite) OnTokenReceived(token, from common.Address, amount *uint256.Int) error {
	log.Debug("Satellite received tokens", "satellite", s.address, "token", token, "from", from, "amount", amount)
	return nil
}

// Forward sweeps this satellite's balance of one asset kind to the hub's
// settlement destination. Only the identity currently recorded as the
// hub's sweep authority may call it; the check is made at call time, not
// cached. The applicable strategy is likewise resolved from the hub at
// call time, so the hub owner can swap forwarding behavior for every
// satellite without touching any of them.
//
// On success exactly one ForwardRecord is emitted and returned. On
// failure the strategy's error propagates unchanged and no balance has
// moved.
func (s *Satellite) Forward(ledger Ledger, caller common.Address, asset AssetKind) (*ForwardRecord, error) {
	if caller != s.hub.SweepAuthority() {
		return nil, ErrUnauthorized
	}
	strategy := s.hub.ResolveStrategy(asset)
	rec, err := strategy.Forward(ledger, s, asset)
	if err != nil {
		log.Warn("Forward failed", "satellite", s.address, "asset", asset, "err", err)
		return nil, err
	}
	s.hub.emitForward(rec)
	log.Info("Forwarded", "satellite", s.address, "asset", asset, "to", rec.To, "amount", rec.Amount)
	return rec, nil
}
