// Package timestamp generates Discord <t:...> timestamp tokens from a
// date, time and UTC offset.
package timestamp

import (
	"fmt"
	"time"

	"github.com/clanops/muster/pkg/muster"
)

// Format is one Discord timestamp style with a human-readable example used
// as the choice label.
type Format struct {
	Key     string
	Example string
	Style   string
}

// Formats lists the supported styles in presentation order.
var Formats = []Format{
	{"long", "Wednesday, December 10, 2025 at 6:00 PM", "F"},
	{"long with time", "December 10, 2025 at 6:00 PM", "f"},
	{"long date", "December 10, 2025", "D"},
	{"short date", "12/10/2025", "d"},
	{"time", "6:00 PM", "t"},
	{"time with seconds", "6:00:00 PM", "T"},
	{"countdown", "in 7 hours", "R"},
}

// Zone is one selectable UTC offset backed by a representative location.
type Zone struct {
	Offset   int
	ShowName string
	Location string
}

// Zones spans UTC-11 through UTC+12.
var Zones = []Zone{
	{-11, "UTC-11 (Niue)", "Pacific/Niue"},
	{-10, "UTC-10 (Honolulu)", "Pacific/Honolulu"},
	{-9, "UTC-9 (Anchorage)", "America/Anchorage"},
	{-8, "UTC-8 (PST)", "America/Los_Angeles"},
	{-7, "UTC-7 (MST)", "America/Denver"},
	{-6, "UTC-6 (CST)", "America/Chicago"},
	{-5, "UTC-5 (EST)", "America/New_York"},
	{-4, "UTC-4 (Halifax)", "America/Halifax"},
	{-3, "UTC-3 (Buenos_Aires)", "America/Argentina/Buenos_Aires"},
	{-2, "UTC-2 (Noronha)", "America/Noronha"},
	{-1, "UTC-1 (Azores)", "Atlantic/Azores"},
	{0, "UTC+0 (UTC)", "UTC"},
	{1, "UTC+1 (Berlin)", "Europe/Berlin"},
	{2, "UTC+2 (Kyiv)", "Europe/Kyiv"},
	{3, "UTC+3 (Istanbul)", "Europe/Istanbul"},
	{4, "UTC+4 (Dubai)", "Asia/Dubai"},
	{5, "UTC+5 (Karachi)", "Asia/Karachi"},
	{6, "UTC+6 (Almaty)", "Asia/Almaty"},
	{7, "UTC+7 (Bangkok)", "Asia/Bangkok"},
	{8, "UTC+8 (Shanghai)", "Asia/Shanghai"},
	{9, "UTC+9 (Tokyo)", "Asia/Tokyo"},
	{10, "UTC+10 (Sydney)", "Australia/Sydney"},
	{11, "UTC+11 (Sakhalin)", "Asia/Sakhalin"},
	{12, "UTC+12 (Auckland)", "Pacific/Auckland"},
}

func styleForKey(key string) (string, bool) {
	for _, f := range Formats {
		if f.Key == key {
			return f.Style, true
		}
	}
	return "", false
}

func locationForOffset(offset int) (*time.Location, error) {
	for _, z := range Zones {
		if z.Offset == offset {
			return time.LoadLocation(z.Location)
		}
	}
	return nil, fmt.Errorf("%w: unknown UTC offset %d", muster.ErrFormat, offset)
}

// Generate renders a <t:unix:style> token for the given local date and time
// ("2006-01-02" and "15:04") in the zone for the UTC offset.
func Generate(date, clock string, offset int, formatKey string) (string, error) {
	style, ok := styleForKey(formatKey)
	if !ok {
		return "", fmt.Errorf("%w: unknown timestamp format %q", muster.ErrFormat, formatKey)
	}

	loc, err := locationForOffset(offset)
	if err != nil {
		return "", err
	}

	local, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return "", fmt.Errorf("%w: date/time %q %q", muster.ErrFormat, date, clock)
	}

	return fmt.Sprintf("<t:%d:%s>", local.Unix(), style), nil
}
