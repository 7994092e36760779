package user

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	"github.com/orgconsole/admin-api/pkg/logger"
)

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (noopAuditRepo) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (noopAuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error { return nil }

func newTestAuditor() *audit.AuditLogger {
	return audit.NewAuditLogger(audit.NewService(noopAuditRepo{}), logger.NewLogger(nil))
}

type fakeUserRepo struct {
	repository.UserRepository
	existing map[string]bool
	created  []*model.User
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error) {
	return f.existing[email], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.created = append(f.created, user)
	return nil
}

type fakeRoleRepo struct {
	repository.RoleRepository
	assignments []*model.RoleAssignment
}

func (f *fakeRoleRepo) CreateAssignment(ctx context.Context, a *model.RoleAssignment) error {
	f.assignments = append(f.assignments, a)
	return nil
}

type fakeEmailSvc struct {
	welcomed []string
}

func (f *fakeEmailSvc) SendWelcome(ctx context.Context, email, name, tempPassword string) error {
	f.welcomed = append(f.welcomed, email)
	return nil
}

func (f *fakeEmailSvc) SendCustom(ctx context.Context, to, subject, content string) error {
	return nil
}

func buildSheet(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func bulkFixtures() (*Service, *fakeUserRepo, *fakeRoleRepo, *fakeEmailSvc) {
	userRepo := &fakeUserRepo{existing: map[string]bool{}}
	roleRepo := &fakeRoleRepo{}
	emailSvc := &fakeEmailSvc{}
	svc := NewService(userRepo, nil, roleRepo, emailSvc, newTestAuditor(), logger.NewLogger(nil))
	return svc, userRepo, roleRepo, emailSvc
}

func TestBulkProvisionMixedRows(t *testing.T) {
	svc, userRepo, roleRepo, emailSvc := bulkFixtures()

	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
		{"Alice@Example.com", "Alice", "Anders", "555-0100", ""},
		{"not-an-email", "Bob", "Brown", "", ""},
		{"carol@example.com", "", "Clark", "", ""},
	})

	workspaceID := uuid.New()
	facilityID := uuid.New()
	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
		WorkspaceID:    &workspaceID,
		FacilityID:     &facilityID,
		DefaultRole:    model.RoleStaff,
	}, sheet)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "not-an-email", result.Errors[0].Email)
	assert.Equal(t, 4, result.Errors[1].Row)

	require.Len(t, userRepo.created, 1)
	created := userRepo.created[0]
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, model.UserStatusPending, created.Status)
	assert.NotEmpty(t, created.PasswordHash)

	require.Len(t, roleRepo.assignments, 1)
	assert.Equal(t, model.RoleStaff, roleRepo.assignments[0].Role)
	assert.Equal(t, created.ID, roleRepo.assignments[0].UserID)

	assert.Equal(t, []string{"alice@example.com"}, emailSvc.welcomed)
}

func TestBulkProvisionDuplicateEmail(t *testing.T) {
	svc, userRepo, _, _ := bulkFixtures()
	userRepo.existing["taken@example.com"] = true

	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
		{"taken@example.com", "Dana", "Diaz", "", ""},
	})

	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
	}, sheet)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors[0].Message, "already exists")
	assert.Empty(t, userRepo.created)
}

func TestBulkProvisionDuplicateEmailWithinFile(t *testing.T) {
	svc, userRepo, _, _ := bulkFixtures()

	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
		{"gina@example.com", "Gina", "Gray", "", ""},
		{"Gina@Example.com", "Gina", "Gray", "", ""},
	})

	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
	}, sheet)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors[0].Message, "duplicate email in file")
	require.Len(t, userRepo.created, 1)
}

func TestBulkProvisionRowRoleOverridesDefault(t *testing.T) {
	svc, _, roleRepo, _ := bulkFixtures()

	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
		{"eve@example.com", "Eve", "Evans", "", "Organization_Admin"},
	})

	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
	}, sheet)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)

	require.Len(t, roleRepo.assignments, 1)
	assert.Equal(t, model.RoleOrganizationAdmin, roleRepo.assignments[0].Role)
}

func TestBulkProvisionInvalidRoleScope(t *testing.T) {
	svc, userRepo, _, _ := bulkFixtures()

	// staff needs a workspace and a facility, neither provided
	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
		{"frank@example.com", "Frank", "Field", "", "staff"},
	})

	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
	}, sheet)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors[0].Message, "requires a workspace")
	assert.Empty(t, userRepo.created)
}

func TestBulkProvisionHeaderOnly(t *testing.T) {
	svc, userRepo, _, _ := bulkFixtures()

	sheet := buildSheet(t, [][]string{
		{"Email", "First Name", "Last Name", "Phone", "Role"},
	})

	result, err := svc.BulkProvision(context.Background(), BulkProvisionOptions{
		OrganizationID: uuid.New(),
	}, sheet)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, userRepo.created)
}

func TestGenerateBulkTemplateHeaders(t *testing.T) {
	data, err := GenerateBulkTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Email", "First Name", "Last Name", "Phone", "Role"}, rows[0])
}
