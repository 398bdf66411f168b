// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Processor is the operator-facing batch surface: it tracks satellites
// by address and processes sweep requests, producing one receipt per
// request.

package forwarding

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Processor sweeps batches of satellites for an operator client. A
// failed sweep never aborts the batch; it produces a receipt with
// Success=false and the failure reason.
type Processor struct {
	mu         sync.RWMutex
	hub        *Hub
	satellites map[common.Address]*Satellite
}

// NewProcessor creates a batch processor for the given hub.
func NewProcessor(hub *Hub) *Processor {
	return &Processor{
		hub:        hub,
		satellites: make(map[common.Address]*Satellite),
	}
}

// Hub returns the hub this processor sweeps against.
func (p *Processor) Hub() *Hub {
	return p.hub
}

// Track registers a satellite so sweep requests can address it.
func (p *Processor) Track(sat *Satellite) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.satellites[sat.Address()] = sat
}

// Satellite looks up a tracked satellite by address.
func (p *Processor) Satellite(addr common.Address) (*Satellite, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sat, ok := p.satellites[addr]
	return sat, ok
}

// ProcessSweeps forwards each requested asset kind from each requested
// satellite, in order, as the given caller. One receipt is produced per
// request regardless of outcome.
func (p *Processor) ProcessSweeps(ledger Ledger, caller common.Address, reqs []*SweepRequest) []*SweepReceipt {
	receipts := make([]*SweepReceipt, 0, len(reqs))

	for _, req := range reqs {
		receipt := &SweepReceipt{
			Satellite: req.Satellite,
			Asset:     req.Asset,
		}
		sat, ok := p.Satellite(req.Satellite)
		if !ok {
			receipt.Reason = "satellite not tracked"
			receipts = append(receipts, receipt)
			continue
		}
		rec, err := sat.Forward(ledger, caller, req.Asset)
		if err != nil {
			log.Warn("Sweep failed", "satellite", req.Satellite, "asset", req.Asset, "err", err)
			receipt.Reason = err.Error()
			receipts = append(receipts, receipt)
			continue
		}
		receipt.Success = true
		receipt.Amount = rec.Amount
		receipts = append(receipts, receipt)
	}

	return receipts
}
