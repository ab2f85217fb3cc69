// Package models defines the domain models shared by the ledger, the
// settlement planner, the stores and the RPC surface.
//
// # Records
//
// Users, Groups, Memberships and Expenses are plain records owned by the
// Ledger Store. Debts are the canonical unit of the ledger: one record per
// (group, debtor, creditor) key. Net balances, transfers, rankings and
// summaries are derived on demand and never persisted.
//
// # Conventions
//
//  1. IDs are strings; stores generate UUIDs when an ID is empty.
//  2. Timestamps are Unix milliseconds.
//  3. Amounts are float64 currency units. Comparisons against zero use Epsilon.
//  4. Currencies are labels only. Amounts in different currencies are never
//     combined.
package models
