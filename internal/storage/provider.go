package storage

import "lingobridge/internal/ports"

// BlobStore is the storage contract used across the API, poller and renamer.
// It is an alias to ports.BlobStore to keep call-sites simple.
type BlobStore = ports.BlobStore
