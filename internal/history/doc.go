// Package history persists generation outcomes and cached titles in SQLite.
//
// Every catalog a run touches is recorded as one generations row carrying the
// run identifier, the final state, and the record counts. The titles table
// backs the title resolver cache so repeat runs skip the external lookup.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package history
