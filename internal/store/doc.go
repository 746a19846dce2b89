// Package store is the SQLite persistence layer. A single database file holds
// the flat key-value table behind kv.Store plus the wins and reminders record
// tables; the schema is versioned with embedded golang-migrate migrations.
package store
