package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func event(startOffset, minutes int, missionID, missionName *string, userID, userName string) EventRecord {
	start := base.Add(time.Duration(startOffset) * time.Minute)
	return EventRecord{
		StartTime:   start,
		EndTime:     start.Add(time.Duration(minutes) * time.Minute),
		MissionID:   missionID,
		MissionName: missionName,
		UserID:      userID,
		UserName:    userName,
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	assert.Zero(t, got.TotalMinutes)
	assert.Zero(t, got.TrackedMinutes)
	assert.Zero(t, got.UnclassifiedMinutes)
	assert.Zero(t, got.TrackingRate)
	assert.Empty(t, got.MissionStats)
	assert.Empty(t, got.UserStats)
	assert.NotNil(t, got.MissionStats)
}

func TestAggregate_TwoMissionsTwoUsers(t *testing.T) {
	events := []EventRecord{
		event(0, 60, ptr("a"), ptr("Mission A"), "x", "Xavier"),
		event(60, 60, ptr("a"), ptr("Mission A"), "x", "Xavier"),
		event(120, 60, ptr("b"), ptr("Mission B"), "y", "Yuna"),
	}

	got := Aggregate(events)

	assert.Equal(t, 180.0, got.TotalMinutes)
	assert.Equal(t, 180.0, got.TrackedMinutes)
	assert.Equal(t, 0.0, got.UnclassifiedMinutes)
	assert.Equal(t, 100, got.TrackingRate)

	require.Len(t, got.MissionStats, 2)
	assert.Equal(t, "Mission A", got.MissionStats[0].Name)
	assert.Equal(t, 120.0, got.MissionStats[0].Minutes)
	assert.Equal(t, 67, got.MissionStats[0].Percentage)
	assert.Equal(t, 2, got.MissionStats[0].Events)
	assert.Equal(t, "Mission B", got.MissionStats[1].Name)
	assert.Equal(t, 60.0, got.MissionStats[1].Minutes)
	assert.Equal(t, 33, got.MissionStats[1].Percentage)

	require.Len(t, got.UserStats, 2)
	assert.Equal(t, "Xavier", got.UserStats[0].Name)
	assert.Equal(t, 120.0, got.UserStats[0].Minutes)
	assert.Equal(t, []string{"Mission A"}, got.UserStats[0].Missions)
	assert.Equal(t, "Mission A", got.UserStats[0].TopMission)
	assert.Equal(t, "Yuna", got.UserStats[1].Name)
	assert.Equal(t, "Mission B", got.UserStats[1].TopMission)
}

func TestAggregate_UnclassifiedNeverBucketed(t *testing.T) {
	events := []EventRecord{
		event(0, 30, nil, nil, "x", "Xavier"),
		event(30, 90, ptr("a"), ptr("Mission A"), "x", "Xavier"),
		event(120, 45, ptr(""), nil, "y", "Yuna"),
	}

	got := Aggregate(events)

	assert.Equal(t, 165.0, got.TotalMinutes)
	assert.Equal(t, 90.0, got.TrackedMinutes)
	assert.Equal(t, 75.0, got.UnclassifiedMinutes)
	require.Len(t, got.MissionStats, 1)
	assert.Equal(t, "a", got.MissionStats[0].ID)
	assert.Equal(t, 100, got.MissionStats[0].Percentage)
	require.Len(t, got.UserStats, 1, "users only appear through tracked time")
	assert.Equal(t, 90.0, got.UserStats[0].Minutes)
	assert.Equal(t, 55, got.TrackingRate)
}

func TestAggregate_NegativeDurationCountsAsZero(t *testing.T) {
	reversed := EventRecord{StartTime: base, EndTime: base.Add(-time.Hour), MissionID: ptr("a"), UserID: "x"}
	got := Aggregate([]EventRecord{reversed, event(0, 10, ptr("a"), ptr("A"), "x", "X")})

	assert.Equal(t, 10.0, got.TotalMinutes)
	require.Len(t, got.MissionStats, 1)
	assert.Equal(t, 2, got.MissionStats[0].Events)
	assert.Equal(t, UnknownMissionName, got.MissionStats[0].Name, "name comes from the first event seen")
}

func TestAggregate_FractionalMinutes(t *testing.T) {
	e := EventRecord{StartTime: base, EndTime: base.Add(90 * time.Second), MissionID: ptr("a"), UserID: "x"}
	got := Aggregate([]EventRecord{e})
	assert.InDelta(t, 1.5, got.TotalMinutes, 1e-9)
}

func TestAggregate_PaletteCyclesInEncounterOrder(t *testing.T) {
	var events []EventRecord
	ids := []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"}
	for i, id := range ids {
		events = append(events, event(i*10, 10+i, ptr(id), ptr(id), "x", "X"))
	}

	got := Aggregate(events)

	colors := make(map[string]string)
	for _, m := range got.MissionStats {
		colors[m.ID] = m.Color
	}
	for i, id := range ids {
		assert.Equal(t, Palette[i%len(Palette)], colors[id], id)
	}
	assert.Equal(t, "m9", got.MissionStats[0].ID, "sorted by minutes descending")
}

func TestAggregate_TopMissionUsesGlobalMinutes(t *testing.T) {
	// Xavier spends more of his own time on B, but A is bigger overall.
	events := []EventRecord{
		event(0, 10, ptr("a"), ptr("A"), "x", "Xavier"),
		event(10, 50, ptr("b"), ptr("B"), "x", "Xavier"),
		event(60, 200, ptr("a"), ptr("A"), "y", "Yuna"),
	}

	got := Aggregate(events)

	var xavier UserTime
	for _, u := range got.UserStats {
		if u.ID == "x" {
			xavier = u
		}
	}
	assert.Equal(t, []string{"A", "B"}, xavier.Missions)
	assert.Equal(t, "A", xavier.TopMission)
}

func TestAggregate_TopMissionTieGoesToFirstEncountered(t *testing.T) {
	events := []EventRecord{
		event(0, 30, ptr("b"), ptr("B"), "x", "Xavier"),
		event(30, 30, ptr("a"), ptr("A"), "x", "Xavier"),
	}

	got := Aggregate(events)
	require.Len(t, got.UserStats, 1)
	assert.Equal(t, "B", got.UserStats[0].TopMission)
}

func TestAggregate_UnknownUserName(t *testing.T) {
	got := Aggregate([]EventRecord{event(0, 5, ptr("a"), ptr("A"), "x", "")})
	require.Len(t, got.UserStats, 1)
	assert.Equal(t, UnknownUserName, got.UserStats[0].Name)
}

func TestAggregate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	missions := []string{"a", "b", "c", "d"}
	users := []string{"u1", "u2", "u3"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(30)
		events := make([]EventRecord, 0, n)
		for j := 0; j < n; j++ {
			var mid *string
			if rng.Intn(3) > 0 {
				mid = ptr(missions[rng.Intn(len(missions))])
			}
			events = append(events, event(rng.Intn(1000), rng.Intn(240)-20, mid, mid, users[rng.Intn(len(users))], "n"))
		}
		snapshot := make([]EventRecord, len(events))
		copy(snapshot, events)

		got := Aggregate(events)

		var missionSum float64
		var pctSum int
		for k, m := range got.MissionStats {
			missionSum += m.Minutes
			pctSum += m.Percentage
			if k > 0 {
				assert.GreaterOrEqual(t, got.MissionStats[k-1].Minutes, m.Minutes)
			}
		}
		assert.InDelta(t, got.TotalMinutes, missionSum+got.UnclassifiedMinutes, 1e-6)
		assert.InDelta(t, got.TrackedMinutes, missionSum, 1e-6)
		if got.TrackedMinutes > 0 {
			assert.InDelta(t, 100, pctSum, float64(len(got.MissionStats)))
		}
		for k := 1; k < len(got.UserStats); k++ {
			assert.GreaterOrEqual(t, got.UserStats[k-1].Minutes, got.UserStats[k].Minutes)
		}
		assert.Equal(t, snapshot, events)
		assert.Equal(t, got, Aggregate(events), "deterministic")
	}
}

func TestSampleReport_IsConsistent(t *testing.T) {
	s := SampleReport()
	var sum float64
	for _, m := range s.MissionStats {
		sum += m.Minutes
	}
	assert.Equal(t, s.TrackedMinutes, sum)
	assert.Equal(t, s.TotalMinutes, s.TrackedMinutes+s.UnclassifiedMinutes)
	assert.Equal(t, percentOf(s.TrackedMinutes, s.TotalMinutes), s.TrackingRate)
}
