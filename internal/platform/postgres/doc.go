// Package postgres provides a PostgreSQL implementation of the document store
// interfaces defined in the internal/store package. Documents of every
// collection live in a single JSONB table and are encoded as relaxed
// Extended JSON, so values round-trip through the same BSON codecs used by
// the MongoDB backend.
package postgres
