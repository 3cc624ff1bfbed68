// Package store keeps XTon documents in Redis.
//
// Each document is a Redis hash holding the encoded text, its format and
// a version counter incremented on every write. Writes and deletes are
// announced on a per-key pub/sub channel as XTon-encoded events.
package store
