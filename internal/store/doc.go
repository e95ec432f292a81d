// Package store defines the persistence contracts of the registrar: one
// repository interface per entity, the sentinel errors implementations must
// return, and the transaction plumbing that lets the service layer commit a
// multi-record mutation atomically or not at all.
//
// The registrar treats durable storage as an external keyed store. Two
// implementations exist: internal/platform/postgres maps the contracts onto
// PostgreSQL, and internal/store/memory keeps everything in process for
// tests and local development.
package store
