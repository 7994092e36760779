package user

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/orgconsole/admin-api/internal/access"
	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/service/audit"
)

// bulkHeader is the expected first row of the upload sheet. Role is optional
// per row and falls back to the request default.
var bulkHeader = []string{"Email", "First Name", "Last Name", "Phone", "Role"}

type BulkProvisionOptions struct {
	OrganizationID uuid.UUID
	WorkspaceID    *uuid.UUID
	FacilityID     *uuid.UUID
	DefaultRole    model.RoleType
}

// BulkProvision creates one user per spreadsheet row. Rows fail
// independently: a bad row is reported in the result and the rest commit.
func (s *Service) BulkProvision(ctx context.Context, opts BulkProvisionOptions, fileBytes []byte) (*model.BulkUploadResult, error) {
	rows, err := parseBulkSheet(fileBytes)
	if err != nil {
		return nil, err
	}

	result := &model.BulkUploadResult{Errors: []model.BulkRowError{}}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		email := strings.ToLower(row.Email)
		if email != "" && seen[email] {
			result.Failed++
			result.Errors = append(result.Errors, model.BulkRowError{
				Row:     row.Row,
				Email:   row.Email,
				Message: "duplicate email in file",
			})
			continue
		}
		seen[email] = true
		if err := s.provisionRow(ctx, opts, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, model.BulkRowError{
				Row:     row.Row,
				Email:   row.Email,
				Message: err.Error(),
			})
			continue
		}
		result.Success++
	}

	s.auditor.Log(ctx, uuid.Nil, opts.OrganizationID, model.AuditActionCreate, model.AuditEntityUser, uuid.Nil, &audit.LogOptions{
		Metadata: result,
	})
	return result, nil
}

// GenerateBulkTemplate builds an empty upload sheet with the expected header
// row for clients to download.
func GenerateBulkTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for col, header := range bulkHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func parseBulkSheet(fileBytes []byte) ([]model.BulkUploadRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headerMap := make(map[string]int)
	for i, h := range rows[0] {
		headerMap[strings.TrimSpace(h)] = i
	}

	cell := func(row []string, header string) string {
		idx, ok := headerMap[header]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	parsed := make([]model.BulkUploadRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}
		parsed = append(parsed, model.BulkUploadRow{
			Row:       i + 1,
			Email:     cell(row, "Email"),
			FirstName: cell(row, "First Name"),
			LastName:  cell(row, "Last Name"),
			Phone:     cell(row, "Phone"),
			Role:      cell(row, "Role"),
		})
	}
	return parsed, nil
}

func (s *Service) provisionRow(ctx context.Context, opts BulkProvisionOptions, row model.BulkUploadRow) error {
	email := strings.ToLower(row.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", row.Email)
	}
	if row.FirstName == "" || row.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, opts.OrganizationID, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("email already exists")
	}

	role := opts.DefaultRole
	if row.Role != "" {
		role = model.RoleType(strings.ToLower(row.Role))
	}
	var assignment *model.RoleAssignment
	if role != "" {
		orgID := opts.OrganizationID
		assignment = &model.RoleAssignment{
			Role:           role,
			OrganizationID: &orgID,
			WorkspaceID:    opts.WorkspaceID,
			FacilityID:     opts.FacilityID,
		}
		if err := access.ValidateAssignment(assignment); err != nil {
			return err
		}
	}

	tempPassword, err := generatePassword()
	if err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var phone *string
	if row.Phone != "" {
		p := row.Phone
		phone = &p
	}

	user := &model.User{
		OrganizationID: opts.OrganizationID,
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Phone:          phone,
		Status:         model.UserStatusPending,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if assignment != nil {
		assignment.UserID = user.ID
		if err := s.roleRepo.CreateAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.FirstName, tempPassword); err != nil {
		s.logger.Warn("failed to send welcome email", "email", user.Email, "error", err.Error())
	}
	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
