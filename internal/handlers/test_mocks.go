package handlers

import (
	"context"

	"civiccare/internal/models"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"
)

// Mock services shared by handler unit tests. Integration tests use the real
// services against TEST_DATABASE_URL instead.

type mockUserService struct {
	users        map[string]*models.User // keyed by email
	createErr    error
	authenticate func(email, password string) (*models.User, error)
}

var _ serviceinterfaces.UserServiceInterface = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(_ context.Context, email, fullName, _ string) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	u := &models.User{ID: "u-" + email, Email: email, FullName: fullName}
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	m.users[email] = u
	return u, nil
}

func (m *mockUserService) AuthenticateUser(_ context.Context, email, password string) (*models.User, error) {
	if m.authenticate != nil {
		return m.authenticate(email, password)
	}
	return nil, contextutils.ErrInvalidCredentials
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, contextutils.ErrRecordNotFound
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, contextutils.ErrRecordNotFound
}

type mockComplaintService struct {
	complaints map[string]*models.Complaint
	lastKind   models.TransitionKind
	trackFn    func(trackingID, email string) (*models.Complaint, error)
	updateErr  error
}

var _ serviceinterfaces.ComplaintServiceInterface = (*mockComplaintService)(nil)

func (m *mockComplaintService) CreateComplaint(_ context.Context, caller models.Identity, input serviceinterfaces.CreateComplaintInput) (*models.Complaint, error) {
	if !caller.IsAuthenticated() {
		return nil, contextutils.ErrUnauthorized
	}
	c := &models.Complaint{
		ID:          "c-new",
		UserID:      caller.UserID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Status:      models.StatusSubmitted,
		Severity:    models.SeverityMedium,
	}
	if input.Severity != "" {
		if !input.Severity.IsValid() {
			return nil, contextutils.ErrInvalidSeverity
		}
		c.Severity = input.Severity
	}
	return c, nil
}

func (m *mockComplaintService) GetComplaintByID(_ context.Context, _ models.Identity, id string) (*models.Complaint, error) {
	if c, ok := m.complaints[id]; ok {
		return c, nil
	}
	return nil, contextutils.ErrRecordNotFound
}

func (m *mockComplaintService) ListComplaints(_ context.Context, caller models.Identity, _ serviceinterfaces.ComplaintListFilter) ([]models.Complaint, int, error) {
	if !caller.IsAuthenticated() {
		return nil, 0, contextutils.ErrUnauthorized
	}
	out := []models.Complaint{}
	for _, c := range m.complaints {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockComplaintService) UpdateComplaintStatus(_ context.Context, caller models.Identity, id string, input serviceinterfaces.UpdateStatusInput) (*models.Complaint, models.TransitionKind, error) {
	if m.updateErr != nil {
		return nil, "", m.updateErr
	}
	c, ok := m.complaints[id]
	if !ok {
		return nil, "", contextutils.ErrRecordNotFound
	}
	if !caller.IsAdmin() {
		return nil, "", contextutils.ErrForbidden
	}
	kind := models.TransitionStatusChanged
	if c.Status == input.Status {
		kind = models.TransitionNotesOnly
	}
	c.Status = input.Status
	m.lastKind = kind
	return c, kind, nil
}

func (m *mockComplaintService) TrackComplaint(_ context.Context, trackingID, email string) (*models.Complaint, error) {
	if m.trackFn != nil {
		return m.trackFn(trackingID, email)
	}
	return nil, contextutils.ErrRecordNotFound
}

type mockIdentityService struct {
	identities map[string]models.Identity
}

var _ serviceinterfaces.IdentityServiceInterface = (*mockIdentityService)(nil)

func (m *mockIdentityService) Resolve(_ context.Context, userID string) (models.Identity, error) {
	if identity, ok := m.identities[userID]; ok {
		return identity, nil
	}
	return models.Anonymous(), nil
}
