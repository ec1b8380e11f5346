// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine wires every consensus collaborator — registry, trust,
// snapshot, randao, sortition, witness, fork choice, equivocation,
// payment, and storage — into the per-slot, per-epoch control flow of
// spec.md's overview: each slot the local node checks its eligibility
// against the current epoch snapshot and beacon, authors a block if
// eligible, and every received block is re-verified independently
// before it updates the fork tree and feeds the trust engine.
package engine

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/luxfi/potrust/config"
	"github.com/luxfi/potrust/equivocation"
	"github.com/luxfi/potrust/errs"
	"github.com/luxfi/potrust/forkchoice"
	"github.com/luxfi/potrust/log"
	"github.com/luxfi/potrust/metrics"
	"github.com/luxfi/potrust/netmsg"
	"github.com/luxfi/potrust/payment"
	"github.com/luxfi/potrust/q32"
	"github.com/luxfi/potrust/randao"
	"github.com/luxfi/potrust/registry"
	"github.com/luxfi/potrust/snapshot"
	"github.com/luxfi/potrust/sortition"
	"github.com/luxfi/potrust/store"
	"github.com/luxfi/potrust/trust"
	"github.com/luxfi/potrust/validatorid"
	"github.com/luxfi/potrust/witness"
	"github.com/luxfi/potrust/witness/zk"
)

// Config bundles every collaborator the engine depends on. Identity
// may be nil for a non-validator (watch-only) node: Tick then always
// reports no block to produce.
type Config struct {
	Params   config.Parameters
	Registry *registry.Registry
	Trust    *trust.State
	Beacon   *randao.Beacon
	Storage  store.Storage
	Out      netmsg.Outbound
	Metrics  *metrics.Consensus
	Log      log.Logger
	Identity *validatorid.Identity

	// ZkVerifier and ZkVerifyingKey are required when Params.ZkRequired
	// is set: ZkVerifyingKey is the circuit key this deployment proves
	// and verifies leader witnesses against (every node in a zk
	// deployment registers the same key bytes, so they derive the same
	// verifying-key ID independently); ZkVerifier holds it registered.
	ZkVerifier     *zk.Verifier
	ZkVerifyingKey []byte
}

// Engine drives one node's view of consensus: it owns the fork tree
// and orphan pool directly, and holds the other collaborators behind
// the Config it was built from.
type Engine struct {
	cfg      Config
	forkTree *forkchoice.Tree
	orphans  *forkchoice.OrphanPool
	equiv    *equivocation.Detector

	mu           sync.Mutex
	snap         *snapshot.Snapshot
	currentEpoch uint64
	epochSamples map[registry.ValidatorID]*trust.QualitySample
}

// New constructs an engine seeded at genesis. Callers must call
// AdvanceEpoch(0) before the first Tick or HandleBlock to install the
// epoch-0 snapshot and open its randao window.
func New(cfg Config, genesis forkchoice.Header) *Engine {
	if cfg.Log == nil {
		cfg.Log = log.NoOp()
	}
	e := &Engine{
		cfg:          cfg,
		forkTree:     forkchoice.NewTree(genesis),
		orphans:      forkchoice.NewOrphanPool(cfg.Params.OrphanMaxAge),
		equiv:        equivocation.NewDetector(),
		epochSamples: make(map[registry.ValidatorID]*trust.QualitySample),
	}
	if cfg.ZkVerifier != nil && len(cfg.ZkVerifyingKey) > 0 {
		cfg.ZkVerifier.RegisterKey(cfg.ZkVerifyingKey)
	}
	return e
}

// Head returns the current canonical chain head.
func (e *Engine) Head() forkchoice.Header {
	return e.forkTree.Head()
}

// AdvanceEpoch applies the trust update accumulated from the closing
// epoch's blocks, closes the previous epoch's randao window (slashing
// any validator that committed but never revealed), builds and
// persists the new epoch's snapshot, and opens the new epoch's randao
// window.
func (e *Engine) AdvanceEpoch(newEpoch uint64) error {
	e.mu.Lock()
	samples := e.epochSamples
	e.epochSamples = make(map[registry.ValidatorID]*trust.QualitySample)
	e.mu.Unlock()

	if len(samples) > 0 {
		idSamples := make([]trust.IDSample, 0, len(samples))
		for id, s := range samples {
			idSamples = append(idSamples, trust.IDSample{ID: id, Sample: *s})
		}
		sort.Slice(idSamples, func(i, j int) bool {
			return bytes.Compare(idSamples[i].ID[:], idSamples[j].ID[:]) < 0
		})
		start := time.Now()
		e.cfg.Trust.Update(idSamples)
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.TrustUpdateSeconds.Observe(time.Since(start).Seconds())
		}
	}

	priorSeed := randao.GenesisSeed
	if newEpoch > 0 {
		if es, ok := e.cfg.Beacon.Epoch(newEpoch - 1); ok {
			es.Finalize()
			priorSeed = es.Seed()
			for _, id := range es.NoReveal() {
				_ = e.cfg.Registry.Slash(id, e.cfg.Params.SlashNoRevealQ)
				if e.cfg.Metrics != nil {
					e.cfg.Metrics.RandaoNoReveals.Inc()
				}
			}
		}
	}

	start := time.Now()
	stakes := e.cfg.Registry.SnapshotStakes()
	newSnap, err := snapshot.Build(newEpoch, stakes, e.cfg.Trust, e.cfg.Params.MinBond)
	if err != nil {
		return err
	}
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.SnapshotBuildSeconds.Observe(time.Since(start).Seconds())
	}
	if err := e.cfg.Storage.StoreSnapshot(newEpoch, newSnap); err != nil {
		return err
	}

	e.cfg.Beacon.StartEpoch(newEpoch, priorSeed)
	if newEpoch >= 2 {
		e.cfg.Beacon.Evict(newEpoch - 2)
	}

	e.mu.Lock()
	e.snap = newSnap
	e.currentEpoch = newEpoch
	e.mu.Unlock()
	return nil
}

func (e *Engine) currentSnapshot() (*snapshot.Snapshot, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, e.currentEpoch
}

func (e *Engine) recordBlockProduced(id registry.ValidatorID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.epochSamples[id]
	if !ok {
		s = &trust.QualitySample{}
		e.epochSamples[id] = s
	}
	s.BlockProduced = true
}

// Tick evaluates the local validator's eligibility for (epoch, slot)
// against the current snapshot and beacon. If eligible it authors,
// stores, inserts, and broadcasts a block carrying body; otherwise it
// returns (nil, nil). It is a no-op for a watch-only engine (nil
// Identity).
func (e *Engine) Tick(epoch, slot uint64, parent forkchoice.Header, body []byte) (*netmsg.Block, error) {
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.SlotsObserved.Inc()
	}
	if e.cfg.Identity == nil {
		return nil, nil
	}

	snap, _ := e.currentSnapshot()
	if snap == nil || snap.Epoch != epoch {
		return nil, errs.ErrWrongEpoch
	}
	es, ok := e.cfg.Beacon.Epoch(epoch)
	if !ok {
		return nil, errs.ErrWrongEpoch
	}

	id := e.cfg.Identity.ID()
	idx := snap.IndexOf(id)
	if idx < 0 {
		return nil, nil
	}

	beaconVal := randao.SlotValue(epoch, slot, es.Seed())
	stakeQ, trustQ := snap.StakeQ[idx], snap.TrustQ[idx]
	draw := sortition.Check(beaconVal, slot, id, stakeQ, trustQ, snap.SumWeightsQ, e.cfg.Params.LambdaQ)
	if !draw.Eligible {
		return nil, nil
	}

	header := forkchoice.Header{
		ParentHash:  parent.Digest,
		Height:      parent.Height + 1,
		Slot:        slot,
		Epoch:       epoch,
		Author:      id,
		WeightsRoot: snap.WeightsRoot,
	}
	header.Digest = HeaderDigest(header)

	w := witness.LeaderWitness{
		Who:         id,
		Epoch:       epoch,
		Slot:        slot,
		StakeQ:      stakeQ,
		TrustQ:      trustQ,
		MerkleIndex: uint64(idx),
	}
	var zkProof *zk.Proof
	if e.cfg.Params.ZkRequired {
		pi := zk.PublicInputs{
			WeightsRoot: snap.WeightsRoot,
			BeaconValue: beaconVal,
			ThresholdQ:  sortition.ProbabilityQ(stakeQ, trustQ, snap.SumWeightsQ, e.cfg.Params.LambdaQ),
			SumWeightsQ: snap.SumWeightsQ,
		}
		proof := zk.Prove(e.cfg.ZkVerifyingKey, pi)
		zkProof = &proof
	} else {
		w.MerklePath = snap.ProofFor(idx)
	}

	if err := e.cfg.Storage.StoreBlock(header, draw.BlockWeight, body); err != nil {
		return nil, err
	}
	e.forkTree.Insert(header, draw.BlockWeight)
	e.equiv.Observe(id, slot, header.Digest)
	e.recordBlockProduced(id)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.BlocksProduced.Inc()
		e.cfg.Metrics.BlocksAccepted.Inc()
	}

	msg := &netmsg.Block{
		Header:    header,
		Witness:   w,
		ZkProof:   zkProof,
		AuthorSig: e.cfg.Identity.Sign(header.Digest),
		AuthorPub: e.cfg.Identity.PublicKeyBytes(),
		Body:      body,
	}
	if e.cfg.Out != nil {
		if err := e.cfg.Out.Broadcast(netmsg.Inbound{Kind: netmsg.KindBlock, Block: msg}); err != nil {
			e.cfg.Log.With("error", err).Warn("broadcast failed")
		}
	}
	return msg, nil
}

// HandleBlock verifies and, if valid, admits a block received from the
// network: signature, witness, and equivocation checks all run
// regardless of which peer relayed it.
func (e *Engine) HandleBlock(msg *netmsg.Block) error {
	author := registry.ValidatorID(msg.Header.Author)

	if HeaderDigest(msg.Header) != msg.Header.Digest {
		e.reject("bad_digest")
		return errs.ErrBadSignature
	}
	if err := validatorid.VerifyHeaderSignature(author, msg.AuthorPub, msg.Header.Digest, msg.AuthorSig); err != nil {
		e.reject(rejectReason(err))
		return err
	}

	snap, _ := e.currentSnapshot()
	if snap == nil {
		e.reject("wrong_epoch")
		return errs.ErrWrongEpoch
	}
	es, ok := e.cfg.Beacon.Epoch(msg.Header.Epoch)
	if !ok {
		e.reject("wrong_epoch")
		return errs.ErrWrongEpoch
	}
	beaconVal := randao.SlotValue(msg.Header.Epoch, msg.Header.Slot, es.Seed())

	minSlot, maxSlot := epochSlotWindow(msg.Header.Epoch, e.cfg.Params.EpochLengthSlots)
	wp := witness.Params{
		MinBond: e.cfg.Params.MinBond,
		LambdaQ: e.cfg.Params.LambdaQ,
		MinSlot: minSlot,
		MaxSlot: maxSlot,
	}

	var (
		blockWeight uint64
		err         error
	)
	if e.cfg.Params.ZkRequired {
		if msg.ZkProof == nil {
			e.reject("bad_zk_proof")
			return errs.ErrBadZkProof
		}
		blockWeight, err = witness.VerifyZK(snap, beaconVal, e.cfg.Registry, &msg.Witness, *msg.ZkProof, e.cfg.ZkVerifier, wp)
	} else {
		blockWeight, err = witness.Verify(snap, beaconVal, e.cfg.Registry, &msg.Witness, wp)
	}
	if err != nil {
		e.reject(rejectReason(err))
		return err
	}

	if ev := e.equiv.Observe(author, msg.Header.Slot, msg.Header.Digest); ev != nil {
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.EquivocationsFound.Inc()
		}
		_ = equivocation.Apply(ev, equivocation.Effects{
			Registry:       e.cfg.Registry,
			TrustFloor:     e.cfg.Params.Trust.FloorQ,
			SlashFrac:      e.cfg.Params.SlashEquivocationQ,
			SetTrust:       func(id registry.ValidatorID, _ q32.Q) { e.cfg.Trust.ForceFloor(id) },
			EjectFromEpoch: func(id registry.ValidatorID) { _ = e.cfg.Registry.MarkInactive(id) },
		})
		e.reject("equivocation")
		return errs.ErrEquivocationDetected
	}

	if err := e.cfg.Storage.StoreBlock(msg.Header, blockWeight, msg.Body); err != nil {
		return err
	}
	e.admit(msg.Header, blockWeight, author)

	for _, o := range e.orphans.Adopt(msg.Header.Digest) {
		e.admit(o.Header, o.BlockWeight, registry.ValidatorID(o.Header.Author))
	}
	return nil
}

// admit inserts a header into the fork tree, falling back to the
// orphan pool if its parent has not arrived yet.
func (e *Engine) admit(h forkchoice.Header, blockWeight uint64, author registry.ValidatorID) {
	if !e.forkTree.Insert(h, blockWeight) {
		e.orphans.Add(h, blockWeight, time.Now())
		return
	}
	e.recordBlockProduced(author)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.BlocksAccepted.Inc()
	}
}

func (e *Engine) reject(reason string) {
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.BlocksRejected.WithLabelValues(reason).Inc()
	}
}

// HandleRandaoCommit admits a validator's commitment into the named
// epoch's randao window.
func (e *Engine) HandleRandaoCommit(m *netmsg.RandaoCommit) error {
	es, ok := e.cfg.Beacon.Epoch(m.Epoch)
	if !ok {
		return errs.ErrWrongEpoch
	}
	return es.Commit(m.Who, m.Commit)
}

// HandleRandaoReveal admits a validator's revealed secret, mixing it
// into the epoch's running seed on success.
func (e *Engine) HandleRandaoReveal(m *netmsg.RandaoReveal) error {
	es, ok := e.cfg.Beacon.Epoch(m.Epoch)
	if !ok {
		return errs.ErrWrongEpoch
	}
	if err := es.Reveal(m.Who, m.Secret); err != nil {
		return err
	}
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.RandaoReveals.Inc()
	}
	return nil
}

// ScanHint attempts to decrypt a scanned private-payment hint against
// recipient's keys, recording the outcome in the hints-verified
// metric regardless of success.
func (e *Engine) ScanHint(m *netmsg.Hint, recipient *payment.RecipientKeys, cOut [32]byte, now time.Time) ([]byte, error) {
	_, epoch := e.currentSnapshot()
	payload, err := payment.Verify(&m.Envelope, payment.VerifyParams{
		Recipient:       recipient,
		SenderPublicKey: m.SenderPublicKey,
		COut:            cOut,
		CurrentEpoch:    epoch,
		AcceptPrevEpoch: e.cfg.Params.AcceptPrevEpoch,
		Now:             now,
		MaxSkew:         e.cfg.Params.MaxSkew,
	})
	outcome := "accepted"
	if err != nil {
		outcome = rejectReason(err)
	}
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.HintsVerified.WithLabelValues(outcome).Inc()
	}
	return payload, err
}

// rejectReason maps a sentinel error onto a low-cardinality metric
// label.
func rejectReason(err error) string {
	switch err {
	case errs.ErrWrongEpoch:
		return "wrong_epoch"
	case errs.ErrInactive:
		return "inactive"
	case errs.ErrInsufficientBond:
		return "insufficient_bond"
	case errs.ErrBadMerklePath:
		return "bad_merkle_path"
	case errs.ErrNotEligible:
		return "not_eligible"
	case errs.ErrBadSignature:
		return "bad_signature"
	case errs.ErrEquivocationDetected:
		return "equivocation"
	case errs.ErrStaleTimestamp:
		return "stale_timestamp"
	case errs.ErrKemDecapsFailure:
		return "kem_decaps_failure"
	case errs.ErrAeadDecryptFailure:
		return "aead_decrypt_failure"
	case errs.ErrMalformedHint:
		return "malformed_hint"
	case errs.ErrBadZkProof:
		return "bad_zk_proof"
	default:
		return "other"
	}
}
