// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.
//
// Database accessors for the append-only forwarding records: forward
// sweeps, satellite creations, and ownership changes.

package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/QuoineFinancial/eth-fund-forwarder/core/forwarding"
)

var (
	// forwardRecordPrefix is the prefix for forward records
	// forwardRecordPrefix + satellite + index -> rlp(ForwardRecord)
	forwardRecordPrefix = []byte("fwd-")

	// forwardCountPrefix is the prefix for per-satellite record counts
	// forwardCountPrefix + satellite -> 8-byte big-endian count
	forwardCountPrefix = []byte("fwdn-")

	// addressCreatedPrefix is the prefix for satellite creation records
	// addressCreatedPrefix + satellite -> rlp(AddressCreatedRecord)
	addressCreatedPrefix = []byte("sat-")

	// ownershipPrefix is the prefix for ownership change records
	// ownershipPrefix + hub + index -> rlp(OwnershipChangedRecord)
	ownershipPrefix = []byte("own-")

	// ownershipCountPrefix is the prefix for per-hub ownership counts
	// ownershipCountPrefix + hub -> 8-byte big-endian count
	ownershipCountPrefix = []byte("ownn-")
)

// forwardRecordKey returns the database key for one forward record
func forwardRecordKey(satellite common.Address, index uint64) []byte {
	key := make([]byte, 0, len(forwardRecordPrefix)+common.AddressLength+8)
	key = append(key, forwardRecordPrefix...)
	key = append(key, satellite.Bytes()...)
	key = binary.BigEndian.AppendUint64(key, index)
	return key
}

// forwardCountKey returns the database key for a satellite's record count
func forwardCountKey(satellite common.Address) []byte {
	return append(forwardCountPrefix, satellite.Bytes()...)
}

// addressCreatedKey returns the database key for a creation record
func addressCreatedKey(satellite common.Address) []byte {
	return append(addressCreatedPrefix, satellite.Bytes()...)
}

// ownershipKey returns the database key for one ownership change record
func ownershipKey(hub common.Address, index uint64) []byte {
	key := make([]byte, 0, len(ownershipPrefix)+common.AddressLength+8)
	key = append(key, ownershipPrefix...)
	key = append(key, hub.Bytes()...)
	key = binary.BigEndian.AppendUint64(key, index)
	return key
}

// ownershipCountKey returns the database key for a hub's ownership count
func ownershipCountKey(hub common.Address) []byte {
	return append(ownershipCountPrefix, hub.Bytes()...)
}

func readCount(db ethdb.KeyValueReader, key []byte) uint64 {
	data, err := db.Get(key)
	if err != nil || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

func writeCount(db ethdb.KeyValueWriter, key []byte, count uint64) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, count)
	if err := db.Put(key, data); err != nil {
		panic("failed to write record count: " + err.Error())
	}
}

// ReadForwardRecordCount reads the number of forward records stored for a
// satellite.
func ReadForwardRecordCount(db ethdb.KeyValueReader, satellite common.Address) uint64 {
	return readCount(db, forwardCountKey(satellite))
}

// AppendForwardRecord appends a forward record to a satellite's log and
// returns the index it was stored at.
func AppendForwardRecord(db ethdb.KeyValueStore, rec *forwarding.ForwardRecord) uint64 {
	index := ReadForwardRecordCount(db, rec.From)

	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		panic("failed to encode forward record: " + err.Error())
	}
	if err := db.Put(forwardRecordKey(rec.From, index), data); err != nil {
		panic("failed to write forward record: " + err.Error())
	}
	writeCount(db, forwardCountKey(rec.From), index+1)
	return index
}

// ReadForwardRecord reads one forward record from a satellite's log.
// Returns nil if the record is missing or corrupt.
func ReadForwardRecord(db ethdb.KeyValueReader, satellite common.Address, index uint64) *forwarding.ForwardRecord {
	data, err := db.Get(forwardRecordKey(satellite, index))
	if err != nil {
		return nil
	}
	rec := new(forwarding.ForwardRecord)
	if err := rlp.DecodeBytes(data, rec); err != nil {
		return nil
	}
	return rec
}

// ReadForwardRecords reads a satellite's entire forward log in append
// order.
func ReadForwardRecords(db ethdb.KeyValueReader, satellite common.Address) []*forwarding.ForwardRecord {
	count := ReadForwardRecordCount(db, satellite)
	records := make([]*forwarding.ForwardRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		if rec := ReadForwardRecord(db, satellite, i); rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

// HasAddressCreatedRecord checks whether a creation record exists for a
// satellite address.
func HasAddressCreatedRecord(db ethdb.KeyValueReader, satellite common.Address) bool {
	has, _ := db.Has(addressCreatedKey(satellite))
	return has
}

// WriteAddressCreatedRecord writes a satellite creation record.
func WriteAddressCreatedRecord(db ethdb.KeyValueWriter, rec *forwarding.AddressCreatedRecord) {
	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		panic("failed to encode address creation record: " + err.Error())
	}
	if err := db.Put(addressCreatedKey(rec.Address), data); err != nil {
		panic("failed to write address creation record: " + err.Error())
	}
}

// ReadAddressCreatedRecord reads the creation record for a satellite
// address. Returns nil if absent.
func ReadAddressCreatedRecord(db ethdb.KeyValueReader, satellite common.Address) *forwarding.AddressCreatedRecord {
	data, err := db.Get(addressCreatedKey(satellite))
	if err != nil {
		return nil
	}
	rec := new(forwarding.AddressCreatedRecord)
	if err := rlp.DecodeBytes(data, rec); err != nil {
		return nil
	}
	return rec
}

// ReadOwnershipChangeCount reads the number of ownership changes stored
// for a hub.
func ReadOwnershipChangeCount(db ethdb.KeyValueReader, hub common.Address) uint64 {
	return readCount(db, ownershipCountKey(hub))
}

// AppendOwnershipChangedRecord appends an ownership change to a hub's log
// and returns the index it was stored at.
func AppendOwnershipChangedRecord(db ethdb.KeyValueStore, rec *forwarding.OwnershipChangedRecord) uint64 {
	index := ReadOwnershipChangeCount(db, rec.Hub)

	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		panic("failed to encode ownership record: " + err.Error())
	}
	if err := db.Put(ownershipKey(rec.Hub, index), data); err != nil {
		panic("failed to write ownership record: " + err.Error())
	}
	writeCount(db, ownershipCountKey(rec.Hub), index+1)
	return index
}

// ReadOwnershipHistory reads a hub's ownership changes in append order.
func ReadOwnershipHistory(db ethdb.KeyValueReader, hub common.Address) []*forwarding.OwnershipChangedRecord {
	count := ReadOwnershipChangeCount(db, hub)
	records := make([]*forwarding.OwnershipChangedRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		data, err := db.Get(ownershipKey(hub, i))
		if err != nil {
			continue
		}
		rec := new(forwarding.OwnershipChangedRecord)
		if err := rlp.DecodeBytes(data, rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
