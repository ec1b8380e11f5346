// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebblestore implements store.Storage over a Pebble LSM-tree
// database: every write call is a single synchronous Pebble write or
// batch commit, so it is atomic and durable without an additional
// transaction layer.
package pebblestore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/holiman/uint256"

	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/snapshot"
)

// snapshotWire is the gob-encodable projection of a snapshot.Snapshot:
// its exported fields, plus SumWeightsQ's byte encoding since
// *uint256.Int does not gob-encode directly.
type snapshotWire struct {
	Epoch       uint64
	Order       []registry.ValidatorID
	StakeQ      []q32.Q
	TrustQ      []q32.Q
	SumWeightsQ []byte
	WeightsRoot [32]byte
}

// toSnapshot reconstructs the portion of a snapshot.Snapshot that
// survives a round trip through storage. Its Merkle layers are not
// persisted; a reloaded snapshot can still verify leaves that carry
// their own proof, but cannot mint new proofs via ProofFor without
// rebuilding via snapshot.Build from the same leaf set.
func (w snapshotWire) toSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Epoch:       w.Epoch,
		Order:       w.Order,
		StakeQ:      w.StakeQ,
		TrustQ:      w.TrustQ,
		SumWeightsQ: new(uint256.Int).SetBytes(w.SumWeightsQ),
		WeightsRoot: w.WeightsRoot,
	}
}

// Store is a Pebble-backed store.Storage implementation.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key layout: single-byte prefix tags separate the three key spaces
// so a prefix iterator over one never crosses into another.
const (
	prefixBlock       byte = 'b'
	prefixEpochIndex  byte = 'e'
	prefixSnapshot    byte = 's'
)

func blockKey(digest [32]byte) []byte {
	return append([]byte{prefixBlock}, digest[:]...)
}

func epochIndexKey(epoch uint64, digest [32]byte) []byte {
	buf := make([]byte, 0, 1+8+32)
	buf = append(buf, prefixEpochIndex)
	buf = binary.BigEndian.AppendUint64(buf, epoch)
	buf = append(buf, digest[:]...)
	return buf
}

func epochIndexPrefix(epoch uint64) []byte {
	buf := make([]byte, 0, 1+8)
	buf = append(buf, prefixEpochIndex)
	buf = binary.BigEndian.AppendUint64(buf, epoch)
	return buf
}

func snapshotKey(epoch uint64) []byte {
	buf := make([]byte, 0, 1+8)
	buf = append(buf, prefixSnapshot)
	buf = binary.BigEndian.AppendUint64(buf, epoch)
	return buf
}

type blockRecord struct {
	Header      forkchoice.Header
	BlockWeight uint64
	Body        []byte
}

// StoreBlock writes the block record and its epoch index entry in one
// Pebble batch, so both mutations are atomic with respect to a crash.
func (s *Store) StoreBlock(header forkchoice.Header, blockWeight uint64, body []byte) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(blockRecord{Header: header, BlockWeight: blockWeight, Body: body}); err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(blockKey(header.Digest), buf.Bytes(), nil); err != nil {
		return err
	}
	if err := batch.Set(epochIndexKey(header.Epoch, header.Digest), nil, nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// GetBlock reads the record stored for digest, if any.
func (s *Store) GetBlock(digest [32]byte) (forkchoice.Header, uint64, []byte, bool, error) {
	val, closer, err := s.db.Get(blockKey(digest))
	if errors.Is(err, pebble.ErrNotFound) {
		return forkchoice.Header{}, 0, nil, false, nil
	}
	if err != nil {
		return forkchoice.Header{}, 0, nil, false, err
	}
	defer closer.Close()

	var rec blockRecord
	if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&rec); err != nil {
		return forkchoice.Header{}, 0, nil, false, err
	}
	return rec.Header, rec.BlockWeight, rec.Body, true, nil
}

// StoreSnapshot gob-encodes and writes snap under epoch's key.
func (s *Store) StoreSnapshot(epoch uint64, snap *snapshot.Snapshot) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshotWire{
		Epoch:       snap.Epoch,
		Order:       snap.Order,
		StakeQ:      snap.StakeQ,
		TrustQ:      snap.TrustQ,
		SumWeightsQ: snap.SumWeightsQ.Bytes(),
		WeightsRoot: snap.WeightsRoot,
	}); err != nil {
		return err
	}
	return s.db.Set(snapshotKey(epoch), buf.Bytes(), pebble.Sync)
}

// GetSnapshot reads and decodes the snapshot stored for epoch, if any.
// The returned snapshot carries the committed leaf set and root but not
// the internal Merkle layers; snapshot.Build takes the epoch's absolute
// stakes and a trust source, not the stored StakeQ/TrustQ, so it cannot
// rebuild them from this record alone.
func (s *Store) GetSnapshot(epoch uint64) (*snapshot.Snapshot, bool, error) {
	val, closer, err := s.db.Get(snapshotKey(epoch))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	var wire snapshotWire
	if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&wire); err != nil {
		return nil, false, err
	}
	return wire.toSnapshot(), true, nil
}

// ListEpochHeaders scans the epoch index prefix and resolves each
// digest back to its stored header. Headers come back in digest order
// (the index key order), not in the order they were stored.
func (s *Store) ListEpochHeaders(epoch uint64) ([]forkchoice.Header, error) {
	prefix := epochIndexPrefix(epoch)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: append(append([]byte{}, prefix...), 0xFF),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []forkchoice.Header
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		var digest [32]byte
		copy(digest[:], key[len(prefix):])
		header, _, _, ok, err := s.GetBlock(digest)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, header)
		}
	}
	return out, iter.Error()
}
