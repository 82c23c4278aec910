package punch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch_AliasesAndStringNumbers(t *testing.T) {
	payload := `[
		{"userId": 42, "empresa": "001", "data": "2024-05-01 08:00:00",
		 "latitude": "-23.5505", "longitude": -46.6333, "distancia": "150"},
		{"funcionario_id": "43", "emp": "001", "dat": "2024-05-02"}
	]`

	batch, err := DecodeBatch([]byte(payload))
	require.NoError(t, err)
	require.Len(t, batch, 2)

	assert.EqualValues(t, 42, batch[0].RawEmployeeID())
	assert.EqualValues(t, 43, batch[1].RawEmployeeID())
	assert.InDelta(t, -23.5505, float64(*batch[0].Latitude), 1e-9)
	assert.InDelta(t, -46.6333, float64(*batch[0].Longitude), 1e-9)
	assert.EqualValues(t, 150, *batch[0].Distancia)
}

func TestDecodeBatch_Invalid(t *testing.T) {
	_, err := DecodeBatch([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestRawTimestamp_DateWithClockTime(t *testing.T) {
	r := RawPunch{Date: "2024-05-01", Hora: "08:30"}
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), r.RawTimestamp())
}

func TestRawTimestamp_FullTimestampWins(t *testing.T) {
	r := RawPunch{Data: "2024-05-01T11:15:00Z", Hora: "08:30"}
	assert.Equal(t, time.Date(2024, 5, 1, 11, 15, 0, 0, time.UTC), r.RawTimestamp())
}

func TestRawTimestamp_Unparseable(t *testing.T) {
	r := RawPunch{Date: "01/05/2024"}
	assert.True(t, r.RawTimestamp().IsZero())
}

func TestNormalize_Defaults(t *testing.T) {
	var r RawPunch
	require.NoError(t, json.Unmarshal([]byte(
		`{"userId": 42, "empresa": "001", "data": "2024-05-01T11:00:00Z", "hora": "08:00"}`), &r))

	p, err := Normalize(r)
	require.NoError(t, err)

	assert.EqualValues(t, 42, p.EmployeeID)
	assert.Equal(t, "001", p.CompanyCode)
	// 11:00 UTC shifted -3h lands on the same server-local day
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, "08:00", p.ClockTime)
	assert.Equal(t, "mobile", p.Origin)
	assert.Equal(t, "novo", p.Status)
	assert.Equal(t, "00:00", p.OriginalTime)
	assert.Empty(t, p.Role, "raw import path must not assign an ordinal role")
}

func TestNormalize_TimezoneShiftCrossesDayBoundary(t *testing.T) {
	r := RawPunch{UserID: flexInt(42), Data: "2024-05-01T01:30:00Z"}

	p, err := Normalize(r)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, "22:30", p.ClockTime)
}

func TestNormalize_SeparateClockFieldIsShifted(t *testing.T) {
	// the clock submitted alongside a date-only field is part of the
	// submission timestamp; the stored clock reflects the shifted instant so
	// that ledger rows key the same as the raw payload
	r := RawPunch{UserID: flexInt(42), Dat: "2024-05-01", Hora: "08:00"}

	p, err := Normalize(r)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, "05:00", p.ClockTime)
}

func TestNormalize_MissingEmployee(t *testing.T) {
	_, err := Normalize(RawPunch{Data: "2024-05-01"})
	assert.Error(t, err)
}

func TestNormalize_MissingDate(t *testing.T) {
	_, err := Normalize(RawPunch{UserID: flexInt(42)})
	assert.Error(t, err)
}

func TestNormalize_LegacyLocationAlias(t *testing.T) {
	r := RawPunch{UserID: flexInt(42), Data: "2024-05-01 12:00:00", ClienteID: flexInt(9)}

	p, err := Normalize(r)
	require.NoError(t, err)
	require.NotNil(t, p.LocationID)
	assert.EqualValues(t, 9, *p.LocationID)
}
