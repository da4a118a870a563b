package organization

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrgRepo struct {
	orgs map[string]organization.Organization
}

func (f *fakeOrgRepo) Create(_ context.Context, org organization.Organization) (organization.Organization, error) {
	for _, o := range f.orgs {
		if o.Slug == org.Slug {
			return organization.Organization{}, &pgconn.PgError{Code: "23505"}
		}
	}
	org.ID = "org-new"
	f.orgs[org.ID] = org
	return org, nil
}

func (f *fakeOrgRepo) GetByID(_ context.Context, id string) (organization.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return organization.Organization{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeOrgRepo) Update(_ context.Context, id string, req organization.UpdateOrganizationRequest) (organization.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return organization.Organization{}, pgx.ErrNoRows
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Settings != nil {
		o.Settings = req.Settings
	}
	f.orgs[id] = o
	return o, nil
}

type fakeUserRepo struct {
	user.UserRepository
	created []user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.created = append(f.created, u)
	return u, nil
}

func ctxAs(role user.Role) context.Context {
	return user.WithClaims(context.Background(), user.Claims{UserID: "u-1", OrganizationID: "org-1", Role: role})
}

func newService() (*OrganizationServiceImpl, *fakeOrgRepo, *fakeUserRepo) {
	orgs := &fakeOrgRepo{orgs: map[string]organization.Organization{
		"org-1": {ID: "org-1", Name: "Acme", Slug: "acme"},
	}}
	users := &fakeUserRepo{}
	return NewOrganizationService(passthroughTx{}, orgs, users).(*OrganizationServiceImpl), orgs, users
}

func TestGetMyOrganization(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetMyOrganization(ctxAs(user.RoleMember))
	require.NoError(t, err)
	assert.Equal(t, "acme", resp.Slug)

	_, err = svc.GetMyOrganization(context.Background())
	assert.ErrorIs(t, err, user.ErrMissingClaims)
}

func TestUpdateMyOrganization(t *testing.T) {
	svc, orgs, _ := newService()
	name := "Acme Global"

	_, err := svc.UpdateMyOrganization(ctxAs(user.RoleManager), organization.UpdateOrganizationRequest{Name: &name})
	assert.ErrorIs(t, err, organization.ErrExecutiveOnly)

	resp, err := svc.UpdateMyOrganization(ctxAs(user.RoleExecutive), organization.UpdateOrganizationRequest{
		Name:     &name,
		Settings: map[string]any{"fiscal_year_start": "04"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Global", resp.Name)
	assert.Equal(t, "04", orgs.orgs["org-1"].Settings["fiscal_year_start"])
}

func TestBootstrap(t *testing.T) {
	svc, _, users := newService()

	resp, err := svc.Bootstrap(context.Background(), organization.BootstrapRequest{
		Name: "Beta", Slug: "beta", ExecutiveName: "Ren", Email: "ren@beta.io", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "org-new", resp.ID)
	require.Len(t, users.created, 1)
	assert.Equal(t, user.RoleExecutive, users.created[0].Role)
	assert.Equal(t, "org-new", users.created[0].OrganizationID)
	assert.True(t, users.created[0].IsActive)

	_, err = svc.Bootstrap(context.Background(), organization.BootstrapRequest{
		Name: "Acme again", Slug: "acme", ExecutiveName: "X", Email: "x@acme.io", Password: "password123",
	})
	assert.ErrorIs(t, err, organization.ErrOrganizationSlugExists)
}
