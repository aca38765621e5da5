// Package listing implements the paginated user listing behind the users view.
//
// # Overview
//
// A Controller pulls pages from a UserSource using a cursor (the identifier of
// the last record fetched), merges them into an in-memory list, keeps that
// list ordered by login, and publishes a Snapshot after every change.
//
// # State Machine
//
//	Idle ──fetch──→ Loading ──ok──→ Loaded ──fetch──→ Loading
//	                   │                                 │
//	                   └──err──→ Errored ←───────err─────┘
//
// HasMore starts true and turns false when a page comes back shorter than the
// page size (empty included) or when a fetch fails. Only StartOrReset and Retry
// turn it back on. LoadNextPage is a no-op while a fetch is outstanding or
// while HasMore is false.
//
// # Concurrency Model
//
// The in-flight flag is checked and set in one critical section, so two
// near-simultaneous LoadNextPage calls issue a single request. The network call
// runs with no lock held.
//
//   - SetSortOrder during a fetch reorders the current items only.
//   - StartOrReset during a fetch clears state at once. The outstanding page is
//     discarded when it arrives and one first-page fetch follows.
//
// # Publishing
//
// Subscribe registers an observer called once per published change with a
// complete, independent Snapshot. Notifications are delivered in mutation
// order. Observers may read Snapshot but must not call mutating methods.
//
// # Duplicates
//
// Records whose identifier is already listed are skipped on merge. HasMore is
// still computed from the raw page length and the cursor advances to the last
// record of the page.
package listing
