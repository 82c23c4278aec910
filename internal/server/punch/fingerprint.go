package punch

import (
	"fmt"
	"time"

	"github.com/pontodigital/pontod/internal/timex"
)

// nullToken stands in for absent coordinates so that fingerprints of punches
// without geo data still compare equal across submissions.
const nullToken = "null"

// FingerprintInput is the subset of a punch that identifies it as a
// real-world event, independent of which system produced the record.
// Timestamp is the submission-time (UTC) timestamp; the ledger stores
// server-local wall times, so ledger rows reconstruct it by reversing the
// canonical offset before fingerprinting.
type FingerprintInput struct {
	EmployeeID int64
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
}

// Fingerprint derives the deduplication key for a punch: employee id, the
// timestamp shifted into server-local time in ISO-8601 form at minute
// precision, and each coordinate rounded to 6 decimal places. Missing fields
// never fail; they are substituted with the "null" token. Two punches with
// the same fingerprint are the same event.
//
// Minute precision matters: the ledger keeps only HH:MM, so keys built from
// stored rows and keys built from raw submissions must agree.
func Fingerprint(in FingerprintInput) string {
	ts := timex.ToServerLocal(in.Timestamp).UTC().Truncate(time.Minute).Format(time.RFC3339)
	return fmt.Sprintf("%d-%s-%s-%s", in.EmployeeID, ts, coord(in.Latitude), coord(in.Longitude))
}

func coord(v *float64) string {
	if v == nil {
		return nullToken
	}
	return fmt.Sprintf("%.6f", *v)
}
