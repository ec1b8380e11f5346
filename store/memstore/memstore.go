// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package memstore implements store.Storage entirely in memory, for
// tests and single-process simulation.
package memstore

import (
	"sync"

	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/snapshot"
)

type blockEntry struct {
	header      forkchoice.Header
	blockWeight uint64
	body        []byte
}

// Store is a single-writer in-memory implementation of store.Storage.
type Store struct {
	mu           sync.RWMutex
	blocks       map[[32]byte]blockEntry
	epochBlocks  map[uint64][][32]byte
	snapshots    map[uint64]*snapshot.Snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{
		blocks:      make(map[[32]byte]blockEntry),
		epochBlocks: make(map[uint64][][32]byte),
		snapshots:   make(map[uint64]*snapshot.Snapshot),
	}
}

// StoreBlock admits header/body atomically, indexed by digest and by
// epoch for ListEpochHeaders.
func (s *Store) StoreBlock(header forkchoice.Header, blockWeight uint64, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blocks[header.Digest]; !exists {
		s.epochBlocks[header.Epoch] = append(s.epochBlocks[header.Epoch], header.Digest)
	}
	s.blocks[header.Digest] = blockEntry{header: header, blockWeight: blockWeight, body: append([]byte(nil), body...)}
	return nil
}

// GetBlock returns the stored block for digest, if any.
func (s *Store) GetBlock(digest [32]byte) (forkchoice.Header, uint64, []byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.blocks[digest]
	if !ok {
		return forkchoice.Header{}, 0, nil, false, nil
	}
	return e.header, e.blockWeight, e.body, true, nil
}

// StoreSnapshot admits snap for epoch, replacing any prior value.
func (s *Store) StoreSnapshot(epoch uint64, snap *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[epoch] = snap
	return nil
}

// GetSnapshot returns the stored snapshot for epoch, if any.
func (s *Store) GetSnapshot(epoch uint64) (*snapshot.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[epoch]
	return snap, ok, nil
}

// ListEpochHeaders returns every header stored for epoch, in storage
// order.
func (s *Store) ListEpochHeaders(epoch uint64) ([]forkchoice.Header, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	digests := s.epochBlocks[epoch]
	out := make([]forkchoice.Header, 0, len(digests))
	for _, d := range digests {
		out = append(out, s.blocks[d].header)
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
