// Package store persists users, fact-check records, and admin comments in a
// SQLite database guarded by a data-directory file lock.
package store
