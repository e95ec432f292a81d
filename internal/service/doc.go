// Package service implements the registrar's application workflows on top
// of the domain entities and the store interfaces: institute and student
// account management, the course catalog, fee-paid enrollment, the grant
// request/approval cycle, and balance withdrawal.
//
// Every mutating operation validates its inputs, performs all checks before
// the first write, and runs its writes inside a single transaction through
// store.Transactor. An audit event is emitted only after the transaction
// has committed; a failed operation leaves no trace in either the stores or
// the event stream.
package service
