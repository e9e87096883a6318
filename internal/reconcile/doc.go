// Package reconcile merges identity-grouped records from Plex and the
// acquisition managers into one entity per title.
//
// The merge is a pure transform: field precedence prefers the library
// server (it reflects what is actually on disk), watch status takes the
// maximum across contributing records, tags union across manager
// records, and watchlist entries only ever flip the OnWatchlist flag.
// Malformed records are dropped and reported in the run summary rather
// than aborting the merge.
package reconcile
