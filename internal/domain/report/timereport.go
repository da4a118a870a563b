package report

import (
	"math"
	"sort"
	"time"
)

const (
	UnknownMissionName = "Unknown mission"
	UnknownUserName    = "Unknown"
)

// Palette is assigned to missions in the order they are first seen, cycling.
var Palette = []string{
	"hsl(205,90%,50%)",
	"hsl(160,84%,45%)",
	"hsl(45,100%,60%)",
	"hsl(280,65%,60%)",
	"hsl(340,75%,55%)",
	"hsl(120,70%,50%)",
	"hsl(30,90%,55%)",
	"hsl(260,70%,60%)",
}

// EventRecord is a calendar event annotated with mission and user names.
type EventRecord struct {
	StartTime   time.Time
	EndTime     time.Time
	MissionID   *string
	MissionName *string
	UserID      string
	UserName    string
}

// Minutes is max(0, end-start) in fractional minutes.
func (e EventRecord) Minutes() float64 {
	d := e.EndTime.Sub(e.StartTime)
	if d <= 0 {
		return 0
	}
	return d.Minutes()
}

type MissionTime struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Minutes    float64 `json:"minutes"`
	Percentage int     `json:"percentage"`
	Events     int     `json:"events"`
	Color      string  `json:"color"`
}

type UserTime struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Minutes    float64  `json:"minutes"`
	Missions   []string `json:"missions"`
	TopMission string   `json:"top_mission"`
}

type TimeReport struct {
	TotalMinutes        float64       `json:"total_minutes"`
	TrackedMinutes      float64       `json:"tracked_minutes"`
	UnclassifiedMinutes float64       `json:"unclassified_minutes"`
	TrackingRate        int           `json:"tracking_rate"`
	MissionStats        []MissionTime `json:"mission_stats"`
	UserStats           []UserTime    `json:"user_stats"`
}

type userBucket struct {
	UserTime
	seenNames  map[string]struct{}
	missionIDs []string
	seenIDs    map[string]struct{}
}

// Aggregate builds a TimeReport from events already filtered to a period.
// Only events with a mission count towards users; the rest is unclassified.
func Aggregate(events []EventRecord) TimeReport {
	report := TimeReport{
		MissionStats: []MissionTime{},
		UserStats:    []UserTime{},
	}

	missions := make(map[string]*MissionTime)
	var missionOrder []string
	users := make(map[string]*userBucket)
	var userOrder []string

	for _, event := range events {
		minutes := event.Minutes()
		report.TotalMinutes += minutes

		if event.MissionID == nil || *event.MissionID == "" {
			report.UnclassifiedMinutes += minutes
			continue
		}
		report.TrackedMinutes += minutes

		missionID := *event.MissionID
		m, ok := missions[missionID]
		if !ok {
			name := UnknownMissionName
			if event.MissionName != nil && *event.MissionName != "" {
				name = *event.MissionName
			}
			m = &MissionTime{
				ID:    missionID,
				Name:  name,
				Color: Palette[len(missionOrder)%len(Palette)],
			}
			missions[missionID] = m
			missionOrder = append(missionOrder, missionID)
		}
		m.Minutes += minutes
		m.Events++

		if event.UserID == "" {
			continue
		}
		u, ok := users[event.UserID]
		if !ok {
			name := event.UserName
			if name == "" {
				name = UnknownUserName
			}
			u = &userBucket{
				UserTime:  UserTime{ID: event.UserID, Name: name, Missions: []string{}},
				seenNames: make(map[string]struct{}),
				seenIDs:   make(map[string]struct{}),
			}
			users[event.UserID] = u
			userOrder = append(userOrder, event.UserID)
		}
		u.Minutes += minutes
		if _, seen := u.seenNames[m.Name]; !seen {
			u.seenNames[m.Name] = struct{}{}
			u.Missions = append(u.Missions, m.Name)
		}
		if _, seen := u.seenIDs[missionID]; !seen {
			u.seenIDs[missionID] = struct{}{}
			u.missionIDs = append(u.missionIDs, missionID)
		}
	}

	for _, id := range missionOrder {
		m := missions[id]
		m.Percentage = percentOf(m.Minutes, report.TrackedMinutes)
		report.MissionStats = append(report.MissionStats, *m)
	}
	sort.SliceStable(report.MissionStats, func(i, j int) bool {
		return report.MissionStats[i].Minutes > report.MissionStats[j].Minutes
	})

	for _, id := range userOrder {
		u := users[id]
		u.TopMission = topMission(u.missionIDs, missions)
		report.UserStats = append(report.UserStats, u.UserTime)
	}
	sort.SliceStable(report.UserStats, func(i, j int) bool {
		return report.UserStats[i].Minutes > report.UserStats[j].Minutes
	})

	report.TrackingRate = percentOf(report.TrackedMinutes, report.TotalMinutes)
	return report
}

// topMission ranks the user's missions by their organization-wide minutes.
// The first mission the user touched wins ties.
func topMission(missionIDs []string, missions map[string]*MissionTime) string {
	var top *MissionTime
	for _, id := range missionIDs {
		m := missions[id]
		if top == nil || m.Minutes > top.Minutes {
			top = m
		}
	}
	if top == nil {
		return ""
	}
	return top.Name
}

func percentOf(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * part / whole))
}
