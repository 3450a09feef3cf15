// Package respserver holds the fixed, immutable collection of databases a
// running instance serves (spec.md §4.3).
package respserver

import "github.com/akashmaji946/respkv/internal/store"

// Server is a bounded ordered sequence of stores, indexed 0..N-1. Once
// constructed, the set of stores is immutable — only entries within them
// change, mirroring the teacher's DBS slice
// (internal/database.InitDBS/DBS) generalized away from a package-level
// global into an owned value.
type Server struct {
	stores []*store.Store
}

// New builds a Server with n stores, one per configured database.
func New(n int) *Server {
	stores := make([]*store.Store, n)
	for i := range stores {
		stores[i] = store.New()
	}
	return &Server{stores: stores}
}

// Get returns store i. Callers must check IsValid first; Get panics on an
// out-of-range index, matching the original's assert-on-bounds contract
// (source/server/server.cpp get_database).
func (s *Server) Get(i int) *store.Store {
	return s.stores[i]
}

// IsValid reports whether i names one of the server's stores.
func (s *Server) IsValid(i int) bool {
	return i >= 0 && i < len(s.stores)
}

// NumStores reports how many databases this server holds.
func (s *Server) NumStores() int {
	return len(s.stores)
}

// Stores returns every store for maintenance to iterate. The returned
// slice is the server's own backing array; since the set of stores is
// immutable post-construction, callers may read it freely but must not
// mutate it.
func (s *Server) Stores() []*store.Store {
	return s.stores
}
