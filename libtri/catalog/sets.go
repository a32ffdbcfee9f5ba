package catalog

import (
	"github.com/2x3systems/gotri/libtri"
	"github.com/dgraph-io/badger/v4"
)

// SigSet allows adding triangulations to an internal set and returning if an isomorphic one has already been added.
type SigSet interface {

	// TryAdd adds the iso-sig of tri if it is not already present.
	//
	// If an isomorphic triangulation is already in this SigSet, this call has no effect and TryAdd() returns false.
	// Otherwise the iso-sig is added and TryAdd() returns true.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(tri *libtri.Triangulation) bool

	// TryAddSig is TryAdd for an iso-sig already in hand.
	TryAddSig(dim int, sig string) bool

	// Close removes all previously added items from this set.
	Close()
}

func NewSigSet() SigSet {
	return &sigSet{}
}

type sigSet struct {
	lsmSet
}

func (ss *sigSet) TryAdd(tri *libtri.Triangulation) bool {
	return ss.TryAddSig(tri.Dimension(), tri.IsoSig())
}

func (ss *sigSet) TryAddSig(dim int, sig string) bool {
	var buf [128]byte
	key := append(buf[:0], byte(dim))
	key = append(key, sig...)
	return ss.tryAdd(key)
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		// badger retains key until commit
		err = txn.Set(append([]byte(nil), key...), nil)
		added = true
	}
	if err == nil && added {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
