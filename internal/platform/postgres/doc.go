// Package postgres provides PostgreSQL-specific implementations for the
// data storage interfaces (repositories) defined in the internal/store
// package. It handles query execution and data mapping between domain
// entities and database records; connection management belongs to the
// caller.
package postgres
