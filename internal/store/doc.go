// Package store implements the file-backed entity stores for DM Vault.
//
// Each store binds one keyed collection of entities to one JSON document on
// disk. Every operation is a self-contained load-mutate-save cycle: the whole
// document is read before the operation and rewritten in full after any
// mutation. A per-file mutex serializes concurrent cycles against the same
// file, and saves go through a temp-file-then-rename so a crash mid-write
// never leaves a truncated document.
package store
