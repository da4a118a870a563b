package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParse(t *testing.T) {
	data := crlf(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Mission Tracker//Test//EN",
		"BEGIN:VEVENT",
		"UID:evt-1@example.com",
		"DTSTAMP:20250601T000000Z",
		"DTSTART:20250602T010000Z",
		"DTEND:20250602T023000Z",
		"SUMMARY:Customer call",
		"LOCATION:Room 3",
		"ATTENDEE;CN=Aiko:mailto:aiko@example.com",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2@example.com",
		"DTSTAMP:20250601T000000Z",
		"DTSTART;VALUE=DATE:20250603",
		"SUMMARY:Offsite",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-3@example.com",
		"DTSTAMP:20250601T000000Z",
		"DTSTART:20250604T010000Z",
		"DTEND:20250604T020000Z",
		"STATUS:CANCELLED",
		"SUMMARY:Dropped",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"DTSTAMP:20250601T000000Z",
		"DTSTART:20250605T010000Z",
		"SUMMARY:No uid",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	events, err := Parse(strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 2)

	call := events[0]
	assert.Equal(t, "evt-1@example.com", call.UID)
	assert.Equal(t, "Customer call", call.Summary)
	assert.Equal(t, "Room 3", call.Location)
	assert.Equal(t, 90*time.Minute, call.EndTime.Sub(call.StartTime))
	assert.Equal(t, []string{"aiko@example.com"}, call.Attendees)
	assert.False(t, call.IsAllDay)

	offsite := events[1]
	assert.True(t, offsite.IsAllDay)
	assert.Equal(t, 24*time.Hour, offsite.EndTime.Sub(offsite.StartTime))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("BEGIN:VCALENDAR\r\nBROKEN"), nil)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	events, err := Parse(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
