// Package snapshot persists an offline copy of a server's library listings in
// SQLite so titles can be browsed and searched without the server online.
package snapshot
