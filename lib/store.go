package lib

/* This file contains persistence module interfaces that are used throughout the module */

// StoreI defines the interface for interacting with the backing storage
type StoreI interface {
	RWStoreI                           // reading and writing
	NewTxn() StoreTxnI                 // wrap the store in a discardable nested store
	Version() uint64                   // access the height of the store
	Commit() ErrorI                    // save the store and increment the height
	Close() ErrorI                     // gracefully stop the database
}

// StoreTxnI defines a discardable write buffer over a parent store
// a call either fully commits all its writes via Write() or fully reverts via Discard()
type StoreTxnI interface {
	RWStoreI
	Write() ErrorI // flush the buffered operations to the parent
	Discard()      // drop the buffered operations
}

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)               // access value bytes using key bytes
	Iterator(prefix []byte) (IteratorI, ErrorI)    // iterate through the data one KV pair at a time in lexicographical order
	RevIterator(prefix []byte) (IteratorI, ErrorI) // iterate through the data one KV pair at a time in reverse lexicographical order
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to next item
	Key() (key []byte)     // retrieve key
	Value() (value []byte) // retrieve value
	Close()                // close the iterator when done, ensuring proper resource management
}
