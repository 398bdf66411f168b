// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Factory generates satellite addresses bound to a hub, optionally gated
// by an admin-maintained whitelist of deposit targets.

package forwarding

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/crypto/sha3"
)

// FactoryConfig holds the construction parameters for a Factory.
type FactoryConfig struct {
	Hub   *Hub
	Owner common.Address // May generate satellites; required
	Admin common.Address // Maintains the whitelist; zero disables gating
}

// Factory creates satellites bound to one hub. It does not retain
// ownership of what it creates; callers keep the returned satellite.
type Factory struct {
	mu        sync.Mutex
	hub       *Hub
	owner     common.Address
	admin     common.Address
	whitelist map[common.Address]bool
	nonce     uint64
}

// NewFactory creates a factory for the given hub. A non-zero Admin
// enables whitelist gating: generation then additionally requires the
// target to have been approved by the admin.
func NewFactory(config FactoryConfig) (*Factory, error) {
	if config.Hub == nil || config.Owner == (common.Address{}) {
		return nil, ErrInvalidArgument
	}
	return &Factory{
		hub:       config.Hub,
		owner:     config.Owner,
		admin:     config.Admin,
		whitelist: make(map[common.Address]bool),
	}, nil
}

// Gated reports whether whitelist gating is enabled.
func (f *Factory) Gated() bool {
	return f.admin != (common.Address{})
}

// SetWhitelisted approves or revokes a deposit target. Admin-only.
func (f *Factory) SetWhitelisted(caller, target common.Address, allowed bool) error {
	if caller != f.admin || f.admin == (common.Address{}) {
		return ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if allowed {
		f.whitelist[target] = true
	} else {
		delete(f.whitelist, target)
	}
	log.Info("Whitelist updated", "target", target, "allowed", allowed)
	return nil
}

// Whitelisted reports whether a target has been approved.
func (f *Factory) Whitelisted(target common.Address) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.whitelist[target]
}

// Generate creates a new satellite bound to the factory's hub for the
// given deposit target. Owner-only; additionally requires whitelist
// approval when gating is enabled. Calling twice for the same target
// creates two independent satellites; addresses are meant to be freely
// multiplied per deposit use case.
func (f *Factory) Generate(caller, target common.Address) (*Satellite, error) {
	if caller != f.owner {
		return nil, ErrUnauthorized
	}
	f.mu.Lock()
	if f.Gated() && !f.whitelist[target] {
		f.mu.Unlock()
		return nil, ErrNotWhitelisted
	}
	nonce := f.nonce
	f.nonce++
	f.mu.Unlock()

	address := f.deriveAddress(target, nonce)
	sat, err := NewSatellite(f.hub, address)
	if err != nil {
		return nil, err
	}
	log.Info("Satellite generated", "address", address, "hub", f.hub.Address(), "target", target)
	f.hub.emitAddressCreated(&AddressCreatedRecord{
		Address: address,
		Hub:     f.hub.Address(),
		Target:  target,
	})
	return sat, nil
}

// deriveAddress computes a fresh deterministic satellite address from the
// hub identity, the deposit target, and the factory's creation nonce.
func (f *Factory) deriveAddress(target common.Address, nonce uint64) common.Address {
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], nonce)

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(f.hub.Address().Bytes())
	hasher.Write(target.Bytes())
	hasher.Write(seq[:])
	return common.BytesToAddress(hasher.Sum(nil)[12:])
}
