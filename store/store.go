package store

import (
	"bytes"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/meridian-protocol/meridian/lib"
)

const (
	maxKeyBytes = 256 // maximum size of a key
)

var (
	versionKey = lib.JoinLenPrefix([]byte("x/")) // key holding the committed version (the height of the store)

	_ lib.StoreI = &Store{} // enforce the Store interface
)

/*
	The Store is a small abstraction layer over a single BadgerDB instance.

	All writes within a height are buffered in a shared badger transaction and are
	persisted atomically by Commit(), which also increments the store version. The
	version doubles as the block height the surrounding ledger is executing.

	NewTxn() layers a discardable in-memory Txn on top, which is how a single
	inbound message is applied all-or-nothing without touching the height buffer.
*/

type Store struct {
	version uint64       // version of the store
	db      *badger.DB   // underlying database
	writer  *badger.Txn  // the shared batch writer that allows committing it all at once
	log     lib.LoggerI  // logger
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(l)
	}
	return NewStore(filepath.Join(config.DataDirPath, config.DBName), l)
}

// NewStore() creates a new instance of a disk DB
func NewStore(path string, l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return newStore(db, l)
}

// NewStoreInMemory() creates a new non-persistent instance of the DB, only used for testing
func NewStoreInMemory(l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return newStore(db, l)
}

// newStore() initializes the writer and loads the last committed version
func newStore(db *badger.DB, l lib.LoggerI) (*Store, lib.ErrorI) {
	s := &Store{db: db, writer: db.NewTransaction(true), log: l}
	version, err := s.Get(versionKey)
	if err != nil {
		return nil, err
	}
	if version != nil {
		if e := lib.Unmarshal(version, &s.version); e != nil {
			return nil, e
		}
	}
	return s, nil
}

// Version() returns the height of the store
func (s *Store) Version() uint64 { return s.version }

// NewTxn() wraps the store in a discardable in-memory transaction
func (s *Store) NewTxn() lib.StoreTxnI { return NewTxn(s) }

// Get() accesses value bytes using key bytes; a missing key yields nil bytes and no error
func (s *Store) Get(key []byte) ([]byte, lib.ErrorI) {
	item, err := s.writer.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, ErrStoreGet(err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ErrStoreGet(err)
	}
	return value, nil
}

// Set() sets value bytes referenced by key bytes
func (s *Store) Set(key, value []byte) lib.ErrorI {
	if err := s.writer.Set(bytes.Clone(key), bytes.Clone(value)); err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// Delete() removes the key and its value from the store
func (s *Store) Delete(key []byte) lib.ErrorI {
	if err := s.writer.Delete(bytes.Clone(key)); err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// Iterator() iterates through the data one KV pair at a time in lexicographical order
func (s *Store) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	it := s.writer.NewIterator(badger.IteratorOptions{Prefix: bytes.Clone(prefix), PrefetchValues: true})
	it.Rewind()
	return &Iterator{it: it}, nil
}

// RevIterator() iterates through the data one KV pair at a time in reverse lexicographical order
func (s *Store) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	it := s.writer.NewIterator(badger.IteratorOptions{Prefix: bytes.Clone(prefix), Reverse: true, PrefetchValues: true})
	// reverse iteration in badger must seek to a key at or beyond the last key of the prefix
	it.Seek(append(bytes.Clone(prefix), bytes.Repeat([]byte{0xff}, maxKeyBytes)...))
	return &Iterator{it: it}, nil
}

// Commit() persists the buffered writes and increments the version of the store
func (s *Store) Commit() lib.ErrorI {
	s.version++
	version, err := lib.Marshal(s.version)
	if err != nil {
		return err
	}
	if err = s.Set(versionKey, version); err != nil {
		return err
	}
	if e := s.writer.Commit(); e != nil {
		return ErrCommitDB(e)
	}
	s.writer = s.db.NewTransaction(true)
	return nil
}

// Close() discards the pending writer and gracefully stops the database
func (s *Store) Close() lib.ErrorI {
	s.writer.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// enforce the Iterator interface
var _ lib.IteratorI = &Iterator{}

// Iterator is the badger-backed implementation of IteratorI
type Iterator struct {
	it *badger.Iterator
}

func (i *Iterator) Valid() bool    { return i.it.Valid() }
func (i *Iterator) Next()          { i.it.Next() }
func (i *Iterator) Key() []byte    { return i.it.Item().KeyCopy(nil) }
func (i *Iterator) Close()         { i.it.Close() }
func (i *Iterator) Value() []byte {
	value, err := i.it.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return value
}

// prefixEnd() returns the first key lexicographically after every key that carries the prefix
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// every byte is 0xff; pad instead
	return append(end, 0xff)
}
