// Package ui implements the gitlook terminal interface on Bubble Tea.
//
// # Views
//
//   - Users: the paginated listing, one "#id login" row per user. Selecting
//     the last row loads the next page while more are available.
//   - Profile: the selected user's details and owned repositories in a
//     scrollable viewport, each repository marked with its language colour.
//
// # Data Flow
//
// The model subscribes to the listing controller once. Every state change
// the controller publishes lands in a single-slot feed that keeps only the
// newest snapshot; a waiting command turns it into a snapshotMsg and re-arms
// itself. Fetching operations run as commands off the update loop; only the
// local resort is applied in place.
//
// Profiles load through profile.Loader into a profile.Store. A result for a
// login the user has already left is dropped by the store.
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/ctrl+u: move the selection or scroll the profile
//   - enter: open profile, esc: back to users
//   - s: toggle sort and reload, S: toggle sort of loaded users
//   - m: load more, r: retry, R: reload from the first page
//   - T: cycle theme, h/?: help, e/ctrl+c: quit
//
// Theme and sort choices are saved to the preferences file as they change.
package ui
