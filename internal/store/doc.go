// Package store defines the document-store abstraction the services are
// written against: named collections holding BSON-encoded documents,
// equality filters on dotted field paths and ObjectID identifiers.
// Backends live under internal/platform (mongodb, postgres, memory) and map
// their driver errors onto the sentinels declared here.
package store
