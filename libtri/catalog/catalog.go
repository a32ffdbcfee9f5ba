// Package catalog maintains a persistent census of triangulations keyed by isomorphism signature.
package catalog

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/dgraph-io/badger/v4"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	dim (byte), size (uint16 BE), iso-sig
		=> TriDef (canonical labelling, Name and Sig set)
	...

Since dimensions start at gotri.MinDim, no entry key collides with the state key.
Keys of a given dimension sort by simplex count first, so a selector's size
bounds map onto a single range scan.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kMajorVers = 2026
	kMinorVers = 1
)

// Entry is a catalogued triangulation in its canonical labelling.
type Entry struct {
	Name string
	Sig  string
	Tri  *libtri.Triangulation
}

// Catalog is a census of triangulations, one entry per isomorphism class.
type Catalog interface {

	// TryAdd adds tri under the given name if no isomorphic triangulation is present.
	//
	// Returns true if tri was added.
	TryAdd(tri *libtri.Triangulation, name string) (bool, error)

	// Lookup returns the entry isomorphic to tri, or gotri.ErrNotInCatalog.
	Lookup(tri *libtri.Triangulation) (*Entry, error)

	// LookupSig returns the entry having the given iso-sig, or gotri.ErrNotInCatalog.
	LookupSig(dim int, sig string) (*Entry, error)

	// Select sends every entry passing sel to onHit, ordered by simplex count.
	// onHit is not closed.
	Select(sel gotri.Selector, onHit chan<- *Entry) error

	// NumEntries returns the number of entries of the given dimension.
	NumEntries(dim int) int64

	IsReadOnly() bool

	Close() error
}

// catalog is a badger db wrapper for a census of triangulations
type catalog struct {
	ctx        gotri.CatalogContext
	readOnly   bool
	mu         sync.Mutex
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

// Open opens (or creates) a census catalog at opts.DbPathName, or an in-memory one if no path is given.
func Open(ctx gotri.CatalogContext, opts gotri.CatalogOpts) (Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer per key
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gotri.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %q", opts.DbPathName)
	}

	// Once the db is open, the ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}
	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(gotri.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}
	if err != nil {
		cat.Close()
		return nil, err
	}
	if len(cat.state.NumEntries) < gotri.MaxDim+1 {
		counts := make([]uint64, gotri.MaxDim+1)
		copy(counts, cat.state.NumEntries)
		cat.state.NumEntries = counts
	}

	klog.V(2).Infof("catalog opened: path=%q readOnly=%v", opts.DbPathName, cat.readOnly)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := proto.Unmarshal(val, &cat.state); err != nil {
				return errors.Wrap(gotri.ErrUnmarshal, err.Error())
			}
			return nil
		})
	})
}

func (cat *catalog) flushState() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if !cat.stateDirty || cat.db == nil {
		return nil
	}
	stateBuf, err := proto.Marshal(&cat.state)
	if err != nil {
		return err
	}
	err = cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err != nil {
		return err
	}
	cat.stateDirty = false
	return nil
}

func (cat *catalog) Close() error {
	err := cat.flushState()

	cat.mu.Lock()
	db := cat.db
	cat.db = nil
	cat.mu.Unlock()

	if db != nil {
		if closeErr := db.Close(); err == nil {
			err = closeErr
		}
		cat.ctx.DetachCatalog(cat)
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumEntries(dim int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if dim < 0 || dim >= len(cat.state.NumEntries) {
		return 0
	}
	return int64(cat.state.NumEntries[dim])
}

func (cat *catalog) issueNextEntry(dim int) {
	cat.mu.Lock()
	cat.state.NumEntries[dim]++
	cat.stateDirty = true
	cat.mu.Unlock()
}

func (cat *catalog) openDB() (*badger.DB, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.db == nil {
		return nil, gotri.ErrCatalogClosed
	}
	return cat.db, nil
}

// formKey appends the catalog key of a triangulation with the given dimension, size, and iso-sig.
func formKey(key []byte, dim, size int, sig string) []byte {
	key = append(key, byte(dim))
	key = binary.BigEndian.AppendUint16(key, uint16(size))
	key = append(key, sig...)
	return key
}

func checkCatalogable(tri *libtri.Triangulation) error {
	if tri.Size() > gotri.MaxCatalogSize {
		return errors.Wrapf(gotri.ErrBadCatalogParam, "%d simplices exceeds catalog limit", tri.Size())
	}
	return nil
}

func (cat *catalog) TryAdd(tri *libtri.Triangulation, name string) (bool, error) {
	if cat.readOnly {
		return false, gotri.ErrReadOnly
	}
	if err := checkCatalogable(tri); err != nil {
		return false, err
	}
	db, err := cat.openDB()
	if err != nil {
		return false, err
	}

	canon := tri.Clone()
	canon.MakeCanonical()
	sig := canon.IsoSig()
	dim := canon.Dimension()

	key := formKey(make([]byte, 0, 3+len(sig)), dim, canon.Size(), sig)

	txn := db.NewTransaction(true)
	defer txn.Discard()

	_, err = txn.Get(key)
	if err == nil {
		return false, nil
	}
	if err != badger.ErrKeyNotFound {
		return false, err
	}

	def := canon.MarshalDef()
	def.Name = name
	def.Sig = sig
	val, err := proto.Marshal(def)
	if err != nil {
		return false, err
	}
	if err = txn.Set(key, val); err != nil {
		return false, err
	}
	if err = txn.Commit(); err != nil {
		return false, err
	}

	cat.issueNextEntry(dim)
	return true, nil
}

func (cat *catalog) Lookup(tri *libtri.Triangulation) (*Entry, error) {
	if err := checkCatalogable(tri); err != nil {
		return nil, err
	}
	return cat.lookup(tri.Dimension(), tri.Size(), tri.IsoSig())
}

func (cat *catalog) LookupSig(dim int, sig string) (*Entry, error) {
	tri, err := libtri.FromIsoSig(dim, sig)
	if err != nil {
		return nil, err
	}
	return cat.Lookup(tri)
}

func (cat *catalog) lookup(dim, size int, sig string) (*Entry, error) {
	db, err := cat.openDB()
	if err != nil {
		return nil, err
	}

	var entry *Entry
	key := formKey(nil, dim, size, sig)
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(gotri.ErrNotInCatalog, "%q", sig)
		}
		if err != nil {
			return err
		}
		entry, err = loadEntry(item)
		return err
	})
	return entry, err
}

func loadEntry(item *badger.Item) (*Entry, error) {
	var entry *Entry
	err := item.Value(func(val []byte) error {
		var def libtri.TriDef
		if err := proto.Unmarshal(val, &def); err != nil {
			return errors.Wrap(gotri.ErrUnmarshal, err.Error())
		}
		tri, err := libtri.NewFromDef(&def)
		if err != nil {
			return err
		}
		entry = &Entry{
			Name: def.Name,
			Sig:  def.Sig,
			Tri:  tri,
		}
		return nil
	})
	return entry, err
}

func (cat *catalog) Select(sel gotri.Selector, onHit chan<- *Entry) error {
	if sel.Dim < gotri.MinDim || sel.Dim > gotri.MaxDim {
		return errors.Wrapf(gotri.ErrBadDimension, "dim=%d", sel.Dim)
	}
	db, err := cat.openDB()
	if err != nil {
		return err
	}

	txn := db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         []byte{byte(sel.Dim)},
	})
	defer it.Close()

	minSize := max(sel.MinSize, 0)
	var keyBuf [3]byte
	minKey := formKey(keyBuf[:0], sel.Dim, minSize, "")

	for it.Seek(minKey); it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		if len(key) < 3 {
			klog.Warningf("catalog: skipping malformed key %q", key)
			continue
		}

		// Stop when the simplex count is over the max
		size := int(binary.BigEndian.Uint16(key[1:3]))
		if sel.MaxSize > 0 && size > sel.MaxSize {
			break
		}

		entry, err := loadEntry(item)
		if err != nil {
			klog.Warningf("catalog: skipping entry %q: %v", key[3:], err)
			continue
		}
		if Selects(&sel, entry.Tri) {
			onHit <- entry
		}
	}
	return nil
}

// Selects reports if tri passes the property filters of sel.
func Selects(sel *gotri.Selector, tri *libtri.Triangulation) bool {
	if sel.Dim != 0 && tri.Dimension() != sel.Dim {
		return false
	}
	if !sel.SelectsSize(tri.Size()) {
		return false
	}
	return sel.Orientable.Allows(tri.IsOrientable()) &&
		sel.Closed.Allows(!tri.HasBoundaryFacets()) &&
		sel.Valid.Allows(tri.IsValid()) &&
		sel.Connected.Allows(tri.IsConnected())
}
