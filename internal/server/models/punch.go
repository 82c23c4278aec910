// Package models defines the server-side data models persisted in the
// database. Column names follow the legacy ponto schema (emp, dat, hora, tip)
// so the ledger stays readable alongside the older tooling that still
// queries it.
package models

import "time"

// Punch is one clock event (a "batida") in the employee ledger.
type Punch struct {
	// ID is assigned by the store on insert.
	ID int64
	// EmployeeID references the funcionarios table.
	EmployeeID int64
	// CompanyCode is the tenant code ("emp").
	CompanyCode string
	// Date is the calendar day of the punch, truncated to midnight UTC.
	Date time.Time
	// ClockTime is the wall time of the punch as "HH:MM".
	ClockTime string
	// LocationID optionally references the locacoes table.
	LocationID *int64
	// Origin tags the submitting system; defaults to "mobile".
	Origin string
	// Latitude and Longitude are optional device coordinates.
	Latitude  *float64
	Longitude *float64
	// Address is the reverse-geocoded address reported by the device.
	Address *string
	// DistanceMeters is the distance from the expected location.
	DistanceMeters *int64
	// Status is "novo" for reconciled imports, "registrado" for live punches.
	Status string
	// Justification is free text, mutable after creation by corrections.
	Justification string
	// Processo is the server receipt timestamp, shifted to server-local time.
	Processo time.Time
	// OriginalTime preserves the clock time as first submitted ("ori").
	OriginalTime string
	// Role is the ordinal role tag ("tip"): ent1, sai1, ent2, sai2 or ext.
	// Empty for batch-reconciled punches until a later reclassification.
	Role string
	// Attachment is an opaque object-storage key, set by corrections.
	Attachment *string
	// CreatedAt is set by the store.
	CreatedAt time.Time
	// DeletedAt is the soft-delete marker; nil for live rows.
	DeletedAt *time.Time
}
