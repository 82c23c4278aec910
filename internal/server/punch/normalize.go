package punch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/timex"
)

// FlexFloat is a float64 that also accepts JSON string values ("12.5").
// Mobile clients are inconsistent about numeric encoding.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt is an int64 that also accepts JSON string values ("150").
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = FlexInt(int64(v))
	return nil
}

// RawPunch is one batch payload element as submitted by a client. Fields
// exist under every historical alias; Normalize coalesces them onto the
// canonical model. Unknown aliases take precedence in the order listed by the
// boundary contract (canonical name first, legacy names after).
type RawPunch struct {
	EmployeeID    *FlexInt `json:"employeeId"`
	UserID        *FlexInt `json:"userId"`
	FuncionarioID *FlexInt `json:"funcionario_id"`

	CompanyCode string `json:"companyCode"`
	Empresa     string `json:"empresa"`
	Emp         string `json:"emp"`

	Date string `json:"date"`
	Dat  string `json:"dat"`
	Data string `json:"data"`

	ClockTime string `json:"clockTime"`
	Hora      string `json:"hora"`

	LocationID *FlexInt `json:"locationId"`
	ClienteID  *FlexInt `json:"cliente_id"`
	LocacaoID  *FlexInt `json:"locacao_id"`

	Origin string `json:"origin"`
	Origem string `json:"origem"`

	Latitude *FlexFloat `json:"latitude"`
	Lat      *FlexFloat `json:"lat"`

	Longitude *FlexFloat `json:"longitude"`
	Lng       *FlexFloat `json:"lng"`

	Address  string `json:"address"`
	Endereco string `json:"endereco"`

	DistanceMeters *FlexInt `json:"distanceMeters"`
	Distancia      *FlexInt `json:"distancia"`
	DistanciaM     *FlexInt `json:"distancia_m"`

	Status string `json:"status"`

	Justification string `json:"justification"`
	Justificativa string `json:"justificativa"`

	OriginalTime string `json:"originalOrientation"`
	Ori          string `json:"ori"`
}

// timestampLayouts are attempted in order when parsing a raw punch timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	timex.DateLayout,
}

// RawEmployeeID resolves the employee id across aliases; 0 when absent.
func (r RawPunch) RawEmployeeID() int64 {
	return int64(firstInt(r.EmployeeID, r.UserID, r.FuncionarioID))
}

// RawTimestamp parses the punch's timestamp, combining the date field with
// the clock-time field when the date carries no time component. Returns the
// zero time when nothing parses.
func (r RawPunch) RawTimestamp() time.Time {
	raw := firstString(r.Date, r.Dat, r.Data)
	if raw == "" {
		return time.Time{}
	}
	var ts time.Time
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts = parsed
			break
		}
	}
	if ts.IsZero() {
		return ts
	}
	if ts.Hour() == 0 && ts.Minute() == 0 {
		if hh, mm, ok := ParseClock(firstString(r.ClockTime, r.Hora)); ok {
			ts = ts.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
		}
	}
	return ts
}

// FingerprintInput builds the deduplication key input for this payload.
func (r RawPunch) FingerprintInput() FingerprintInput {
	return FingerprintInput{
		EmployeeID: r.RawEmployeeID(),
		Timestamp:  r.RawTimestamp(),
		Latitude:   (*float64)(firstFloat(r.Latitude, r.Lat)),
		Longitude:  (*float64)(firstFloat(r.Longitude, r.Lng)),
	}
}

// Normalize maps a raw payload onto the canonical Punch model: aliases are
// coalesced, the timestamp is shifted into server-local time, numeric strings
// are coerced, and unset origin/status take their defaults. ClockTime is
// always rendered from the shifted timestamp, never taken verbatim from the
// payload, so Date and ClockTime describe the same server-local instant
// whichever payload shape carried the clock. The ordinal role is
// deliberately left empty on this path.
func Normalize(r RawPunch) (models.Punch, error) {
	employeeID := r.RawEmployeeID()
	if employeeID == 0 {
		return models.Punch{}, common.NewValidationError("funcionario_id")
	}

	ts := r.RawTimestamp()
	if ts.IsZero() {
		return models.Punch{}, common.NewValidationError("dat")
	}

	local := timex.ToServerLocal(ts)

	p := models.Punch{
		EmployeeID:     employeeID,
		CompanyCode:    firstString(r.CompanyCode, r.Empresa, r.Emp),
		Date:           timex.DateOnly(local),
		ClockTime:      local.Format("15:04"),
		LocationID:     int64Ptr(firstIntPtr(r.LocationID, r.ClienteID, r.LocacaoID)),
		Origin:         firstString(r.Origin, r.Origem, "mobile"),
		Latitude:       (*float64)(firstFloat(r.Latitude, r.Lat)),
		Longitude:      (*float64)(firstFloat(r.Longitude, r.Lng)),
		Address:        strPtr(firstString(r.Address, r.Endereco)),
		DistanceMeters: int64Ptr(firstIntPtr(r.DistanceMeters, r.Distancia, r.DistanciaM)),
		Status:         firstString(r.Status, "novo"),
		Justification:  firstString(r.Justification, r.Justificativa),
		OriginalTime:   firstString(r.OriginalTime, r.Ori, "00:00"),
	}
	return p, nil
}

// DecodeBatch unmarshals a raw JSON array of punch payloads.
func DecodeBatch(data []byte) ([]RawPunch, error) {
	var batch []RawPunch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decoding punch batch: %w", err)
	}
	return batch, nil
}

// ParseClock splits an "HH:MM" (optionally "HH:MM:SS") clock string.
func ParseClock(s string) (int, int, bool) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...*FlexInt) FlexInt {
	for _, v := range values {
		if v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}

func firstIntPtr(values ...*FlexInt) *FlexInt {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstFloat(values ...*FlexFloat) *FlexFloat {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func int64Ptr(v *FlexInt) *int64 {
	if v == nil {
		return nil
	}
	out := int64(*v)
	return &out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
