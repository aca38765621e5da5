// Package profile loads a single user's detail and repositories.
//
// Loader issues the two requests concurrently and joins them: both must
// succeed. Forked repositories are dropped and the rest are ordered by stars.
//
// Store holds the profile shown by the UI. Begin moves it to a new login and
// Finish applies a load result only if that login is still current, so a slow
// load for a profile the user already left cannot overwrite the newer one.
package profile
