// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storemock is a gomock-style mock of store.Storage, in the
// shape go.uber.org/mock/mockgen would generate, for tests that need
// to assert exact call sequences or inject storage failures.
package storemock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/snapshot"
)

// MockStorage is a mock of the store.Storage interface.
type MockStorage struct {
	ctrl     *gomock.Controller
	recorder *MockStorageMockRecorder
}

// MockStorageMockRecorder is the mock recorder for MockStorage.
type MockStorageMockRecorder struct {
	mock *MockStorage
}

// NewMockStorage returns a new mock controlled by ctrl.
func NewMockStorage(ctrl *gomock.Controller) *MockStorage {
	m := &MockStorage{ctrl: ctrl}
	m.recorder = &MockStorageMockRecorder{mock: m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected
// use.
func (m *MockStorage) EXPECT() *MockStorageMockRecorder {
	return m.recorder
}

// StoreBlock mocks store.Storage.StoreBlock.
func (m *MockStorage) StoreBlock(header forkchoice.Header, blockWeight uint64, body []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "StoreBlock", header, blockWeight, body)
	ret0, _ := ret[0].(error)
	return ret0
}

// StoreBlock indicates an expected call.
func (mr *MockStorageMockRecorder) StoreBlock(header, blockWeight, body any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "StoreBlock", reflect.TypeOf((*MockStorage)(nil).StoreBlock), header, blockWeight, body)
}

// GetBlock mocks store.Storage.GetBlock.
func (m *MockStorage) GetBlock(digest [32]byte) (forkchoice.Header, uint64, []byte, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBlock", digest)
	ret0, _ := ret[0].(forkchoice.Header)
	ret1, _ := ret[1].(uint64)
	ret2, _ := ret[2].([]byte)
	ret3, _ := ret[3].(bool)
	ret4, _ := ret[4].(error)
	return ret0, ret1, ret2, ret3, ret4
}

// GetBlock indicates an expected call.
func (mr *MockStorageMockRecorder) GetBlock(digest any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlock", reflect.TypeOf((*MockStorage)(nil).GetBlock), digest)
}

// StoreSnapshot mocks store.Storage.StoreSnapshot.
func (m *MockStorage) StoreSnapshot(epoch uint64, snap *snapshot.Snapshot) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "StoreSnapshot", epoch, snap)
	ret0, _ := ret[0].(error)
	return ret0
}

// StoreSnapshot indicates an expected call.
func (mr *MockStorageMockRecorder) StoreSnapshot(epoch, snap any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "StoreSnapshot", reflect.TypeOf((*MockStorage)(nil).StoreSnapshot), epoch, snap)
}

// GetSnapshot mocks store.Storage.GetSnapshot.
func (m *MockStorage) GetSnapshot(epoch uint64) (*snapshot.Snapshot, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSnapshot", epoch)
	ret0, _ := ret[0].(*snapshot.Snapshot)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// GetSnapshot indicates an expected call.
func (mr *MockStorageMockRecorder) GetSnapshot(epoch any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSnapshot", reflect.TypeOf((*MockStorage)(nil).GetSnapshot), epoch)
}

// ListEpochHeaders mocks store.Storage.ListEpochHeaders.
func (m *MockStorage) ListEpochHeaders(epoch uint64) ([]forkchoice.Header, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListEpochHeaders", epoch)
	ret0, _ := ret[0].([]forkchoice.Header)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListEpochHeaders indicates an expected call.
func (mr *MockStorageMockRecorder) ListEpochHeaders(epoch any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListEpochHeaders", reflect.TypeOf((*MockStorage)(nil).ListEpochHeaders), epoch)
}

// Close mocks store.Storage.Close.
func (m *MockStorage) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call.
func (mr *MockStorageMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStorage)(nil).Close))
}
