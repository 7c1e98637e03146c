// Package models defines the core domain models for Expense Genie.
//
// # Expense sessions
//
//   - Session: a named group of shared expenses with its own participant list,
//     main currency and exchange rates
//   - Transaction: one expense inside a session, paid by one participant and
//     split equally among the assigned participants
//
// Participants are identified by display name. A user also keeps a roster of
// frequent participants (UserData) that new sessions are seeded from.
//
// # Project intake
//
//   - Brief: a submitted project brief (BriefData) plus who sent it and when
//
// # Validation
//
// Values arriving from clients are parsed and validated once, at the RPC
// boundary, with the Validate methods in this package. Every validation
// failure wraps ErrValidation so callers can map it to a client error.
//
// Settlement results (summaries, debts) are not models: they are projections
// recomputed by the calculator package on every read and never stored.
package models
