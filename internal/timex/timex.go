// Package timex centralizes the canonical-timezone arithmetic used at every
// ingestion and projection boundary. The ledger stores server-local wall
// times; clients submit UTC-based timestamps, so each boundary applies the
// same fixed offset instead of ad hoc hour subtraction.
package timex

import "time"

// ServerUTCOffset is the fixed offset between submission timestamps (UTC) and
// the server-local ledger timezone (America/Sao_Paulo, no DST since 2019).
const ServerUTCOffset = -3 * time.Hour

// TimestampLayout is the wire format for projected timestamp fields.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// ToServerLocal shifts t by ServerUTCOffset.
func ToServerLocal(t time.Time) time.Time {
	return t.Add(ServerUTCOffset)
}

// FormatServerLocal shifts t into server-local time and renders it with
// TimestampLayout.
func FormatServerLocal(t time.Time) string {
	return ToServerLocal(t).Format(TimestampLayout)
}

// DateOnly truncates t to midnight UTC of its calendar day. Ledger date
// columns compare equal only when both sides are truncated the same way.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
