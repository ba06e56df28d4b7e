package timeutil

import (
	"strings"
	"time"
)

// GatewayZoneName is the only zone BlueSnap accepts or reports dates in.
// It is a fixed UTC-8 offset with no daylight saving.
const GatewayZoneName = "Etc/GMT+8"

// Wire layouts used by the BlueSnap APIs.
const (
	WireDateLayout   = "02-Jan-06"           // Extended API dates
	ReportDateLayout = "01/02/2006"          // reporting query range
	IPNDateLayout    = "01/02/2006 03:04 PM" // IPN transactionDate
)

var gatewayLocation = time.FixedZone(GatewayZoneName, -8*60*60)

// lenientLayouts are tried in order when reading dates out of responses.
var lenientLayouts = []string{
	WireDateLayout,
	"2-Jan-06",
	"02-Jan-2006",
	ReportDateLayout,
	"1/2/2006",
	IPNDateLayout,
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// GatewayLocation returns the fixed gateway zone.
func GatewayLocation() *time.Location {
	return gatewayLocation
}

// Now returns the current time in the gateway zone
func Now() time.Time {
	return time.Now().In(gatewayLocation)
}

// InGatewayZone reports whether t carries the gateway zone.
// Equivalent offsets under other names are rejected.
func InGatewayZone(t time.Time) bool {
	return t.Location().String() == GatewayZoneName
}

// Date builds a midnight date in the gateway zone.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, gatewayLocation)
}

// ParseDate parses value with layout in the gateway zone
func ParseDate(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, strings.TrimSpace(value), gatewayLocation)
}

// ParseGatewayTime reads a date as BlueSnap prints it, trying every known
// layout. It returns nil for empty or unparsable input.
func ParseGatewayTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range lenientLayouts {
		if t, err := time.ParseInLocation(layout, value, gatewayLocation); err == nil {
			return &t
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.In(gatewayLocation)
		return &t
	}
	return nil
}

// FormatWireDate formats t as DD-Mon-YY.
func FormatWireDate(t time.Time) string {
	return t.Format(WireDateLayout)
}

// FormatReportDate formats t as MM/DD/YYYY.
func FormatReportDate(t time.Time) string {
	return t.Format(ReportDateLayout)
}

// StartOfDay returns the start of the day (midnight) in the gateway zone
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.In(gatewayLocation).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, gatewayLocation)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the gateway zone
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.In(gatewayLocation).Date()
	return time.Date(year, month, day, 23, 59, 59, 999999999, gatewayLocation)
}
