// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store defines the durable storage contract the engine
// depends on, per spec.md §6: block and snapshot persistence, each
// call atomic. Package store/memstore and store/pebblestore provide
// two implementations; store/storemock provides a gomock test double
// written in the shape mockgen generates.
package store

import (
	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/snapshot"
)

// Storage is the durable collaborator the engine reads and writes
// blocks and epoch snapshots through. Every method is atomic with
// respect to a concurrent call on the same key.
type Storage interface {
	StoreBlock(header forkchoice.Header, blockWeight uint64, body []byte) error
	GetBlock(digest [32]byte) (header forkchoice.Header, blockWeight uint64, body []byte, ok bool, err error)

	StoreSnapshot(epoch uint64, snap *snapshot.Snapshot) error
	GetSnapshot(epoch uint64) (*snapshot.Snapshot, bool, error)

	// ListEpochHeaders returns every stored block header for epoch. The
	// order depends on the implementation: memstore returns storage
	// order, pebblestore returns headers sorted by digest.
	ListEpochHeaders(epoch uint64) ([]forkchoice.Header, error)

	Close() error
}
