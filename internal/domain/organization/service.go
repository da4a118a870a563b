package organization

import "context"

type OrganizationService interface {
	GetMyOrganization(ctx context.Context) (OrganizationResponse, error)
	UpdateMyOrganization(ctx context.Context, req UpdateOrganizationRequest) (OrganizationResponse, error)
	// Bootstrap creates an organization with its first executive, for the CLI.
	Bootstrap(ctx context.Context, req BootstrapRequest) (OrganizationResponse, error)
}
