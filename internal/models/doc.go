// Package models defines the core domain models for govledger.
//
// # Models
//
//   - Proposal: a votable unit with an owner, a description, two tally
//     counters and an activity flag
//   - Choice: the two-valued vote outcome (Approve or Reject)
//   - User: an entry in the user registry ({id, name, identity})
//   - Account: credentials used to authenticate a caller
//
// # Identity
//
// Callers are identified by an opaque Identity string. Once a request has been
// authenticated the identity is the account ID carried in the caller's token.
// Ownership and vote-uniqueness checks compare identities byte for byte.
//
// # Design Principles
//
//  1. Proposals are stored and replaced as whole records, never patched
//  2. Relationships use IDs and identities instead of pointers
//  3. Models carry no behavior beyond small helpers (Clone, HasVoted)
package models
