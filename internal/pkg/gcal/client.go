package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client reads events from the Google Calendar v3 REST API. The http.Client
// is expected to carry OAuth2 credentials (see oauth.GoogleService.Client).
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, maxRetries: 3}
}

type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	Attendees   []string
}

type ListOptions struct {
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int
	// Location is used for all-day events, which carry only a date.
	Location *time.Location
}

type eventsResponse struct {
	Items         []apiEvent `json:"items"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiEvent struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Start       eventDateTime `json:"start"`
	End         eventDateTime `json:"end"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees"`
}

type eventDateTime struct {
	Date     string `json:"date"`
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ListEvents returns expanded single events ordered by start time. MaxResults
// bounds the total number of events returned across pages.
func (c *Client) ListEvents(ctx context.Context, calendarID string, opts ListOptions) ([]Event, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	params := url.Values{
		"timeMin":      {opts.TimeMin.Format(time.RFC3339)},
		"timeMax":      {opts.TimeMax.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
		"maxResults":   {strconv.Itoa(maxResults)},
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))

	var events []Event
	for {
		page, err := c.fetchPage(ctx, endpoint+"?"+params.Encode())
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			event, err := item.toEvent(loc)
			if err != nil {
				slog.Debug("skipping calendar event with unparseable time", "event_id", item.ID, "error", err)
				continue
			}
			events = append(events, event)
			if len(events) >= maxResults {
				return events, nil
			}
		}
		if page.NextPageToken == "" {
			break
		}
		params.Set("pageToken", page.NextPageToken)
	}

	slog.Debug("google calendar events fetched", "calendar_id", calendarID, "count", len(events))
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, requestURL string) (*eventsResponse, error) {
	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating calendar request: %w", err)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt >= c.maxRetries || ctx.Err() != nil {
				return nil, fmt.Errorf("calendar API request failed: %w", err)
			}
		} else if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("calendar API returned status %d after %d retries", resp.StatusCode, c.maxRetries)
			}
		} else {
			break
		}

		slog.Debug("calendar API retrying", "attempt", attempt+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var page eventsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("parsing calendar response: %w", err)
	}
	return &page, nil
}

func (e apiEvent) toEvent(loc *time.Location) (Event, error) {
	start, allDay, err := e.Start.parse(loc)
	if err != nil {
		return Event{}, err
	}
	end, _, err := e.End.parse(loc)
	if err != nil {
		return Event{}, err
	}
	attendees := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		if a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}
	return Event{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       start,
		End:         end,
		IsAllDay:    allDay,
		Attendees:   attendees,
	}, nil
}

func (d eventDateTime) parse(loc *time.Location) (time.Time, bool, error) {
	if d.DateTime != "" {
		t, err := time.Parse(time.RFC3339, d.DateTime)
		return t, false, err
	}
	if d.Date != "" {
		if d.TimeZone != "" {
			if l, err := time.LoadLocation(d.TimeZone); err == nil {
				loc = l
			}
		}
		t, err := time.ParseInLocation("2006-01-02", d.Date, loc)
		return t, true, err
	}
	return time.Time{}, false, fmt.Errorf("event time has neither date nor dateTime")
}

// APIError is a non-retryable error response from the Calendar API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar API error (status %d): %s", e.StatusCode, e.Body)
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * 250 * time.Millisecond
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
