package report

// SampleReport is shown when a period has no calendar events at all.
func SampleReport() TimeReport {
	return TimeReport{
		TotalMinutes:        9600,
		TrackedMinutes:      7680,
		UnclassifiedMinutes: 1920,
		TrackingRate:        80,
		MissionStats: []MissionTime{
			{ID: "sample-1", Name: "営業活動", Minutes: 2880, Percentage: 38, Events: 24, Color: Palette[0]},
			{ID: "sample-2", Name: "プロダクト開発", Minutes: 2400, Percentage: 31, Events: 18, Color: Palette[1]},
			{ID: "sample-3", Name: "ミーティング", Minutes: 1440, Percentage: 19, Events: 32, Color: Palette[2]},
			{ID: "sample-4", Name: "管理業務", Minutes: 960, Percentage: 13, Events: 15, Color: Palette[3]},
		},
		UserStats: []UserTime{
			{ID: "sample-user-1", Name: "田中太郎", Minutes: 2400, Missions: []string{"営業活動", "ミーティング"}, TopMission: "営業活動"},
			{ID: "sample-user-2", Name: "佐藤花子", Minutes: 2280, Missions: []string{"プロダクト開発"}, TopMission: "プロダクト開発"},
			{ID: "sample-user-3", Name: "鈴木一郎", Minutes: 2160, Missions: []string{"営業活動", "管理業務"}, TopMission: "営業活動"},
			{ID: "sample-user-4", Name: "高橋美咲", Minutes: 1920, Missions: []string{"ミーティング", "管理業務"}, TopMission: "ミーティング"},
		},
	}
}
