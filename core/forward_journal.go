// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// ForwardJournal is the off-chain record keeper: it subscribes to a
// hub's record feeds and persists every record to the database.

package core

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/QuoineFinancial/eth-fund-forwarder/core/forwarding"
	"github.com/QuoineFinancial/eth-fund-forwarder/core/rawdb"
)

// ForwardJournal persists a hub's append-only record streams (forwards,
// satellite creations, ownership changes) so operator clients can
// reconcile accounting after the fact. Records are written in arrival
// order; the journal never mutates what it has written.
type ForwardJournal struct {
	db  ethdb.KeyValueStore
	hub *forwarding.Hub

	forwardCh   chan *forwarding.ForwardRecord
	addressCh   chan *forwarding.AddressCreatedRecord
	ownershipCh chan *forwarding.OwnershipChangedRecord
	subs        []event.Subscription

	quit    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewForwardJournal creates a journal for one hub backed by the given
// database.
func NewForwardJournal(db ethdb.KeyValueStore, hub *forwarding.Hub) *ForwardJournal {
	return &ForwardJournal{
		db:          db,
		hub:         hub,
		forwardCh:   make(chan *forwarding.ForwardRecord),
		addressCh:   make(chan *forwarding.AddressCreatedRecord),
		ownershipCh: make(chan *forwarding.OwnershipChangedRecord),
	}
}

// Start subscribes to the hub's feeds and begins persisting records.
func (j *ForwardJournal) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.subs = []event.Subscription{
		j.hub.SubscribeForwardRecords(j.forwardCh),
		j.hub.SubscribeAddressCreated(j.addressCh),
		j.hub.SubscribeOwnershipChanged(j.ownershipCh),
	}
	j.quit = make(chan struct{})
	j.started = true
	j.wg.Add(1)
	go j.loop()
	log.Info("Forward journal started", "hub", j.hub.Address())
}

// Stop unsubscribes from the hub and waits for the persistence loop to
// exit. Records received before Stop returns are on disk.
func (j *ForwardJournal) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.started {
		return
	}
	for _, sub := range j.subs {
		sub.Unsubscribe()
	}
	close(j.quit)
	j.wg.Wait()
	j.started = false
	log.Info("Forward journal stopped", "hub", j.hub.Address())
}

func (j *ForwardJournal) loop() {
	defer j.wg.Done()
	for {
		select {
		case rec := <-j.forwardCh:
			rawdb.AppendForwardRecord(j.db, rec)
		case rec := <-j.addressCh:
			rawdb.WriteAddressCreatedRecord(j.db, rec)
		case rec := <-j.ownershipCh:
			rawdb.AppendOwnershipChangedRecord(j.db, rec)
		case <-j.quit:
			return
		}
	}
}

// ForwardHistory returns every persisted forward record for a satellite,
// in sweep order.
func (j *ForwardJournal) ForwardHistory(satellite common.Address) []*forwarding.ForwardRecord {
	return rawdb.ReadForwardRecords(j.db, satellite)
}

// CreationRecord returns the persisted creation record for a satellite
// address, or nil if none was journaled.
func (j *ForwardJournal) CreationRecord(satellite common.Address) *forwarding.AddressCreatedRecord {
	return rawdb.ReadAddressCreatedRecord(j.db, satellite)
}

// OwnershipHistory returns every persisted ownership change for the
// journal's hub, oldest first.
func (j *ForwardJournal) OwnershipHistory() []*forwarding.OwnershipChangedRecord {
	return rawdb.ReadOwnershipHistory(j.db, j.hub.Address())
}
