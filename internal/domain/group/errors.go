package group

import "errors"

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupNameExists      = errors.New("group name already exists")
	ErrManagerNotFound      = errors.New("manager not found in organization")
	ErrManagerRoleRequired  = errors.New("group manager must have manager or executive role")
	ErrUserNotFound         = errors.New("user not found in organization")
	ErrMemberAlreadyInGroup = errors.New("user is already a member of this group")
	ErrMemberNotFound       = errors.New("user is not a member of this group")
	ErrNotGroupManager      = errors.New("only the group manager or an executive can change this group")
)
