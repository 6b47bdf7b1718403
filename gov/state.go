package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

// StateMachine is the core component responsible for maintaining and updating the governance
// state as the host ledger invokes it one message at a time. It represents the collective
// state of the configuration, the global accounting record, every staker account, and every poll.
//
// Execution is fully sequential: the host guarantees single-writer-per-call semantics, so no
// runtime synchronization exists here. "Concurrency" in this domain is only the logical
// concurrency of multiple open polls competing for the same staker's share pool, which the
// lock accounting in account.go resolves.
type StateMachine struct {
	db    lib.StoreI   // the backing versioned store
	store lib.RWStoreI // the active store; swapped for a discardable txn while a message is applied

	height     uint64     // the current ledger height, used for every voting window comparison
	dispatcher Dispatcher // the host-provided capability for outbound sub-calls
	Config     lib.Config
	log        lib.LoggerI
}

// New() creates a new instance of a StateMachine, initializing from the genesis file when
// the store is at version zero
func New(c lib.Config, db lib.StoreI, dispatcher Dispatcher, log lib.LoggerI) (*StateMachine, lib.ErrorI) {
	s := &StateMachine{
		db:         db,
		store:      db,
		height:     db.Version(),
		dispatcher: dispatcher,
		Config:     c,
		log:        log,
	}
	if db.Version() == 0 {
		if err := s.NewFromGenesisFile(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewWithGenesis() creates a new instance of a StateMachine from an in-memory genesis object
func NewWithGenesis(c lib.Config, db lib.StoreI, genesis *Genesis, dispatcher Dispatcher, log lib.LoggerI) (*StateMachine, lib.ErrorI) {
	s := &StateMachine{
		db:         db,
		store:      db,
		height:     db.Version(),
		dispatcher: dispatcher,
		Config:     c,
		log:        log,
	}
	if err := s.ApplyGenesis(genesis); err != nil {
		return nil, err
	}
	return s, nil
}

// Commit() persists every write applied since the last commit and advances the machine
// to the new store version. The host ledger calls this once per block; a standalone node
// calls it after each accepted transaction, so each transaction forms its own block
func (s *StateMachine) Commit() lib.ErrorI {
	if err := s.db.Commit(); err != nil {
		return err
	}
	s.height = s.db.Version()
	return nil
}

// Height() returns the ledger height the machine is executing at
func (s *StateMachine) Height() uint64 { return s.height }

// SetHeight() moves the machine to the given ledger height; the host advances this once per block
func (s *StateMachine) SetHeight(height uint64) { s.height = height }

// Store() returns the active store
func (s *StateMachine) Store() lib.RWStoreI { return s.store }

// ApplyMessage() is the single entry point for every state-changing call. The caller identity
// is supplied by the host ledger. The message is applied against a discardable transaction so
// that a call either fully commits all of its writes or fully reverts; there is no partial
// commit and no automatic retry.
func (s *StateMachine) ApplyMessage(caller crypto.AddressI, msg MessageI) (err lib.ErrorI) {
	txn := s.db.NewTxn()
	s.store = txn
	defer func() { s.store = s.db }()
	if err = s.HandleMessage(caller, msg); err != nil {
		txn.Discard()
		return
	}
	return txn.Write()
}

// Get() helper delegating basic read to the active store
func (s *StateMachine) Get(key []byte) ([]byte, lib.ErrorI) { return s.store.Get(key) }

// Set() helper delegating basic write to the active store
func (s *StateMachine) Set(key, value []byte) lib.ErrorI { return s.store.Set(key, value) }

// Delete() helper delegating basic delete to the active store
func (s *StateMachine) Delete(key []byte) lib.ErrorI { return s.store.Delete(key) }

// Iterator() helper delegating prefixed iteration to the active store
func (s *StateMachine) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.Iterator(prefix)
}

// RevIterator() helper delegating reverse prefixed iteration to the active store
func (s *StateMachine) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.RevIterator(prefix)
}

// marshalAndSet() serializes a record and writes it under the key
func (s *StateMachine) marshalAndSet(key []byte, record any) lib.ErrorI {
	bz, err := lib.Marshal(record)
	if err != nil {
		return err
	}
	return s.Set(key, bz)
}
