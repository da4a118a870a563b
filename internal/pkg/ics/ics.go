package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
)

// Event represents a parsed VEVENT.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	IsAllDay    bool
	Attendees   []string
}

// Parse decodes every VCALENDAR in r. Floating times and dates are read in loc.
// Events without a UID or start time, and cancelled events, are skipped.
func Parse(r io.Reader, loc *time.Location) ([]Event, error) {
	if loc == nil {
		loc = time.UTC
	}

	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			uid, _ := event.Props.Text(ical.PropUID)
			if uid == "" {
				continue
			}
			if status, _ := event.Props.Text(ical.PropStatus); strings.EqualFold(status, "CANCELLED") {
				continue
			}

			startProp := event.Props.Get(ical.PropDateTimeStart)
			if startProp == nil {
				continue
			}
			start, err := event.DateTimeStart(loc)
			if err != nil {
				continue
			}
			end, err := event.DateTimeEnd(loc)
			if err != nil || end.IsZero() {
				end = start
			}

			summary, _ := event.Props.Text(ical.PropSummary)
			description, _ := event.Props.Text(ical.PropDescription)
			location, _ := event.Props.Text(ical.PropLocation)

			events = append(events, Event{
				UID:         uid,
				Summary:     summary,
				Description: description,
				Location:    location,
				StartTime:   start,
				EndTime:     end,
				IsAllDay:    startProp.ValueType() == ical.ValueDate,
				Attendees:   attendees(event.Props.Values(ical.PropAttendee)),
			})
		}
	}

	return events, nil
}

func attendees(props []ical.Prop) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		email := strings.TrimSpace(p.Value)
		if len(email) >= 7 && strings.EqualFold(email[:7], "mailto:") {
			email = email[7:]
		}
		if email != "" {
			out = append(out, email)
		}
	}
	return out
}
