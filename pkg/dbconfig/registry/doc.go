// Package registry provides a generic thread-safe registry for values indexed by key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. Keys must be
// ordered so that Keys can return them in a stable order, which keeps error
// messages and listings deterministic.
//
// # Basic Usage
//
//	r := registry.New[string, reflect.Type]()
//	r.Register("dberr.QueryError", dberr.Base())
//
//	t, ok := r.Get("dberr.QueryError")
//
// LoadOrStore keeps the first registration of a key and hands back what is
// stored, so a caller can tell a repeat from a conflict:
//
//	if existing, loaded := r.LoadOrStore(name, t); loaded && existing != t {
//	    // name taken by another value
//	}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use.
package registry
