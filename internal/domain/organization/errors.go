package organization

import "errors"

var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrOrganizationSlugExists = errors.New("organization slug already exists")
	ErrExecutiveOnly          = errors.New("only executives can change organization settings")
)
