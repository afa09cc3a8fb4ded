// Package models defines the canonical domain models for Cashbook.
//
// # Ownership
//
// Every entity belongs to exactly one owning user (OwnerID). No code in this
// repository reads or writes across owners; the storage layer scopes every
// query by owner.
//
// # References
//
// Transactions reference categories and payment methods by internal ID. Those
// IDs are established at reconciliation time by resolving the names carried in
// workbook rows — backup files never contain internal IDs that survive an
// import.
//
// # Provenance
//
// Transactions reconstructed from a legacy yearly spreadsheet carry
// IsLegacy=true plus the physical cell coordinates they came from
// (OriginSheet/OriginRow/OriginMonth). This is the only durable trace
// distinguishing reconstructed history from natively entered records, so the
// exporter writes it out and the importer preserves it across round-trips.
package models
