// Package events defines the audit events published by the registrar's
// service layer and the emitter used to dispatch them to handlers.
//
// Services emit an event only after the transaction that produced the
// underlying state change has committed. A failed operation therefore
// never produces an event, and every event corresponds to durable state.
package events
