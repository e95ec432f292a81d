// Package domain defines the core business entities of the registrar:
// institutes, students, courses, enrollments, grants, and roles, together
// with the validation rules and sentinel errors that guard them.
//
// Entities are created through NewX constructor functions that validate
// their inputs and generate identities. Balance-bearing entities expose
// Credit and Debit methods so that a fund balance can never be driven
// negative through normal use of the package. The package has no
// dependencies on storage, transport, or any other layer.
package domain
