package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	contextutils "civiccare/internal/utils"
)

type fakeUserStore struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUserStore) CreateUser(_ context.Context, _, _, _ string) (*models.User, error) {
	return nil, contextutils.ErrInternalError
}

func (f *fakeUserStore) AuthenticateUser(_ context.Context, _, _ string) (*models.User, error) {
	return nil, contextutils.ErrInvalidCredentials
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, contextutils.ErrRecordNotFound
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, contextutils.ErrRecordNotFound
}

type fakeAdminStore struct {
	admins map[string]*models.AdminUser // keyed by user ID
	err    error
}

func (f *fakeAdminStore) GetAdminByUserID(_ context.Context, userID string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.admins[userID], nil
}

func (f *fakeAdminStore) RequestAdminAccess(_ context.Context, _, _ string) (*models.AdminUser, error) {
	return nil, contextutils.ErrInternalError
}

func (f *fakeAdminStore) ApproveAdmin(_ context.Context, _ string) error {
	return nil
}

func (f *fakeAdminStore) ListAdmins(_ context.Context) ([]models.AdminUser, error) {
	return nil, nil
}

func newTestIdentityService(masterEmail string) (*IdentityService, *fakeUserStore, *fakeAdminStore) {
	cfg := &config.Config{Admin: config.AdminConfig{MasterEmail: masterEmail}}
	users := &fakeUserStore{users: map[string]*models.User{
		"u-citizen":  {ID: "u-citizen", Email: "citizen@example.com"},
		"u-master":   {ID: "u-master", Email: "mayor@city.example"},
		"u-dept":     {ID: "u-dept", Email: "roads@city.example"},
		"u-pending":  {ID: "u-pending", Email: "pending@city.example"},
		"u-unscoped": {ID: "u-unscoped", Email: "citywide@city.example"},
	}}
	admins := &fakeAdminStore{admins: map[string]*models.AdminUser{
		"u-dept":     {ID: "a-1", UserID: "u-dept", Role: models.RoleDepartmentAdmin, Department: "roads", Approved: true},
		"u-pending":  {ID: "a-2", UserID: "u-pending", Role: models.RoleDepartmentAdmin, Department: "parks", Approved: false},
		"u-unscoped": {ID: "a-3", UserID: "u-unscoped", Role: models.RoleDepartmentAdmin, Department: models.DepartmentAll, Approved: true},
	}}
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	return NewIdentityService(cfg, users, admins, logger), users, admins
}

func TestIdentityService_ResolveAnonymous(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityAnonymous, id.Kind)
}

func TestIdentityService_ResolveUnknownUserIsAnonymous(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "u-gone")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityAnonymous, id.Kind)
}

func TestIdentityService_ResolveCitizen(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "u-citizen")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityCitizen, id.Kind)
	assert.Equal(t, "u-citizen", id.UserID)
	assert.Equal(t, "citizen@example.com", id.Email)
}

func TestIdentityService_ResolveMasterByEmail(t *testing.T) {
	svc, _, _ := newTestIdentityService("Mayor@City.Example ")

	id, err := svc.Resolve(context.Background(), "u-master")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityMasterAdmin, id.Kind, "master email match is case-insensitive and trimmed")
}

func TestIdentityService_MasterDisabledWhenUnset(t *testing.T) {
	svc, _, _ := newTestIdentityService("")

	id, err := svc.Resolve(context.Background(), "u-master")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityCitizen, id.Kind, "empty master email disables the bypass")
}

func TestIdentityService_ResolveDepartmentAdmin(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "u-dept")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityDepartmentAdmin, id.Kind)
	assert.Equal(t, "roads", id.Department)
}

func TestIdentityService_UnscopedAdminResolvesAsMaster(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "u-unscoped")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityMasterAdmin, id.Kind, "an approved admin row scoped to the 'all' sentinel carries master-level access")
	assert.Equal(t, models.DepartmentAll, id.Department)
}

func TestIdentityService_UnapprovedAdminIsCitizen(t *testing.T) {
	svc, _, _ := newTestIdentityService("mayor@city.example")

	id, err := svc.Resolve(context.Background(), "u-pending")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityCitizen, id.Kind)
	assert.Empty(t, id.Department)
}

func TestIdentityService_UserLookupFailureDegradesToCitizen(t *testing.T) {
	svc, users, _ := newTestIdentityService("mayor@city.example")
	users.err = contextutils.ErrDatabaseConnection

	id, err := svc.Resolve(context.Background(), "u-citizen")
	require.NoError(t, err, "resolution failures degrade access instead of failing the request")
	assert.Equal(t, models.IdentityCitizen, id.Kind)
	assert.Equal(t, "u-citizen", id.UserID)
}

func TestIdentityService_AdminLookupFailureDegradesToCitizen(t *testing.T) {
	svc, _, admins := newTestIdentityService("mayor@city.example")
	admins.err = contextutils.ErrDatabaseConnection

	id, err := svc.Resolve(context.Background(), "u-dept")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityCitizen, id.Kind, "a broken admin lookup must not grant or block the base account")
}

func TestIdentityService_MasterWinsOverAdminRecord(t *testing.T) {
	svc, _, _ := newTestIdentityService("roads@city.example")

	id, err := svc.Resolve(context.Background(), "u-dept")
	require.NoError(t, err)
	assert.Equal(t, models.IdentityMasterAdmin, id.Kind, "configured master email takes precedence over an admin record")
}
