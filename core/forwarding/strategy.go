// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Sweep strategies. A strategy runs in the calling satellite's context:
// it reads and moves the satellite's balances, never its own state.

package forwarding

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Strategy is stateless forwarding logic resolved per asset kind through
// the hub. Forward moves the calling satellite's balance of one asset
// kind to the hub's settlement destination and returns the record of the
// move. Implementations must not persist state keyed by themselves; the
// only state they touch is the ledger balances of the satellite passed
// in.
type Strategy interface {
	Forward(ledger Ledger, sat *Satellite, asset AssetKind) (*ForwardRecord, error)
}

// SweepAllStrategy is the default strategy: it always sweeps the entire
// current balance, never a partial or caller-specified amount. A partial
// sweep would let a compromised sweep authority siphon below-threshold
// amounts repeatedly without detection.
type SweepAllStrategy struct{}

// NewSweepAllStrategy returns the whole-balance sweep strategy.
func NewSweepAllStrategy() *SweepAllStrategy {
	return &SweepAllStrategy{}
}

// Forward sweeps the satellite's full balance of the asset to the hub's
// settlement destination.
func (st *SweepAllStrategy) Forward(ledger Ledger, sat *Satellite, asset AssetKind) (*ForwardRecord, error) {
	hub := sat.Hub()
	if !hub.Operational() {
		return nil, ErrSystemHalted
	}
	destination := hub.Destination()

	if asset.IsNative() {
		amount := ledger.BalanceOf(sat.Address())
		if amount == nil || amount.IsZero() {
			return nil, ErrNothingToForward
		}
		amount = new(uint256.Int).Set(amount)
		if err := ledger.Transfer(sat.Address(), destination, amount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferRejected, err)
		}
		return &ForwardRecord{
			Asset:  asset,
			From:   sat.Address(),
			To:     destination,
			Amount: amount,
		}, nil
	}

	token, err := ledger.Token(asset.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: token %s: %v", ErrTransferRejected, asset.Address(), err)
	}
	amount := token.BalanceOf(sat.Address())
	if amount == nil || amount.IsZero() {
		return nil, ErrNothingToForward
	}
	amount = new(uint256.Int).Set(amount)
	if err := token.Transfer(sat.Address(), destination, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferRejected, err)
	}
	return &ForwardRecord{
		Asset:  asset,
		From:   sat.Address(),
		To:     destination,
		Amount: amount,
	}, nil
}
