// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Package forwarding implements custodial deposit forwarding: a central
// hub resolves sweep strategies that satellites execute against their own
// balances.

package forwarding

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// AssetKind identifies the asset being forwarded. The zero value denotes
// native currency; any other value is the address of a fungible token
// conforming to the Token interface.
type AssetKind common.Address

// NativeAsset is the reserved asset kind for native currency.
var NativeAsset = AssetKind{}

// TokenAsset returns the asset kind for the token at the given address.
func TokenAsset(addr common.Address) AssetKind {
	return AssetKind(addr)
}

// IsNative reports whether the asset kind denotes native currency.
func (k AssetKind) IsNative() bool {
	return k == AssetKind{}
}

// Address returns the token address for a token asset kind. It is the
// zero address for the native kind.
func (k AssetKind) Address() common.Address {
	return common.Address(k)
}

func (k AssetKind) String() string {
	if k.IsNative() {
		return "native"
	}
	return common.Address(k).Hex()
}

// Ledger is the minimal interface to the execution substrate needed for
// forwarding. Transfer debits and credits atomically: on error no balance
// has changed.
type Ledger interface {
	BalanceOf(addr common.Address) *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) error
	Token(asset common.Address) (Token, error)
}

// Token is the fungible-token collaborator interface. Any identity
// exposing this pair is a valid asset kind; no other assumption about the
// collaborator is made.
type Token interface {
	BalanceOf(holder common.Address) *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) error
}

// ForwardRecord is emitted once per successful forward.
type ForwardRecord struct {
	Asset  AssetKind      `json:"asset"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

// AddressCreatedRecord is emitted once per satellite generated by a
// factory.
type AddressCreatedRecord struct {
	Address common.Address `json:"address"`
	Hub     common.Address `json:"hub"`
	Target  common.Address `json:"target"`
}

// OwnershipChangedRecord is emitted once per completed ownership
// transfer on a hub.
type OwnershipChangedRecord struct {
	Hub      common.Address `json:"hub"`
	Previous common.Address `json:"previous"`
	New      common.Address `json:"new"`
}

// SweepRequest asks the processor to forward one asset kind from one
// satellite.
type SweepRequest struct {
	Satellite common.Address `json:"satellite"`
	Asset     AssetKind      `json:"asset"`
}

// SweepReceipt contains the outcome of one processed SweepRequest.
// Failed sweeps still produce a receipt with Success=false.
type SweepReceipt struct {
	Satellite common.Address `json:"satellite"`
	Asset     AssetKind      `json:"asset"`
	Success   bool           `json:"success"`
	Amount    *uint256.Int   `json:"amount,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}
