package organization

import "time"

type Organization struct {
	ID        string
	Name      string
	Slug      string
	Settings  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
