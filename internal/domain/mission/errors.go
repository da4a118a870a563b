package mission

import "errors"

var (
	ErrMissionNotFound          = errors.New("mission not found")
	ErrParentMissionNotFound    = errors.New("parent mission not found")
	ErrMissionCannotBeOwnParent = errors.New("mission cannot be its own parent")
	ErrMissionCycle             = errors.New("parent mission would create a cycle")
	ErrOwnerNotFound            = errors.New("mission owner not found")
	ErrInvalidDateRange         = errors.New("end_date must not be before start_date")
	ErrKeyResultNotFound        = errors.New("key result not found")
	ErrNotMissionOwner          = errors.New("only the mission owner can modify this mission")
	ErrCompanyLevelRestricted   = errors.New("company level missions require mission.manage_all")
)
