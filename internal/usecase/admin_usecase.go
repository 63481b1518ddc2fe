package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const (
	profileHistoryLimit = 50
	auditExportLimit    = 5000
)

type adminUsecase struct {
	candidateRepo domain.CandidateRepository
	auditRepo     domain.AuditLogRepository
}

func NewAdminUsecase(candidateRepo domain.CandidateRepository, auditRepo domain.AuditLogRepository) domain.AdminUsecase {
	return &adminUsecase{
		candidateRepo: candidateRepo,
		auditRepo:     auditRepo,
	}
}

// ListProfiles returns the review queue. An empty status means SUBMITTED.
func (u *adminUsecase) ListProfiles(ctx context.Context, status domain.ProfileStatus, page, pageSize int) (*domain.PaginatedResult[domain.CandidateProfile], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if status == "" {
		status = domain.ProfileStatusSubmitted
	}
	if !isValidProfileStatus(status) {
		return nil, apperror.BadRequest("Invalid status filter").WithDetail("status", status)
	}

	page, pageSize = domain.NormalizePage(page, pageSize, 10, 100)
	profiles, total, err := u.candidateRepo.ListByStatus(ctx, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(profiles, total, page, pageSize), nil
}

func (u *adminUsecase) GetProfile(ctx context.Context, profileID int64) (*domain.AdminProfileDetail, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	profile, err := u.candidateRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.ProfileNotFound(profileID)
	}

	readiness := ScoreProfile(profile)
	readiness.LastValidatedAt = profile.LastValidatedAt

	events := []domain.ProfileEvent{}
	for _, e := range domain.EventsFrom(profile.Status) {
		if role, _ := domain.EventActor(e); role.CanReviewProfiles() {
			events = append(events, e)
		}
	}

	history, _, err := u.auditRepo.List(ctx, domain.AuditFilter{
		TargetType: domain.AuditTargetCandidateProfile,
		TargetID:   strconv.FormatInt(profileID, 10),
	}, profileHistoryLimit, 0)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.AuditEntry{}
	}

	return &domain.AdminProfileDetail{
		Profile:   profile,
		Readiness: &readiness,
		Events:    events,
		History:   history,
	}, nil
}

func (u *adminUsecase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) (*domain.PaginatedResult[domain.AuditEntry], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	page, pageSize := domain.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	entries, total, err := u.auditRepo.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(entries, total, page, pageSize), nil
}

// ExportAuditLogs writes the filtered audit log (newest first, capped) to an
// XLSX workbook.
func (u *adminUsecase) ExportAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]byte, string, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, "", err
	}

	entries, _, err := u.auditRepo.List(ctx, filter, auditExportLimit, 0)
	if err != nil {
		return nil, "", err
	}
	return exportAuditExcel(entries, time.Now())
}

var auditExportColumns = []string{"ID", "CREATED AT", "ACTOR ID", "ACTION", "TARGET TYPE", "TARGET ID", "DETAILS"}

func exportAuditExcel(entries []domain.AuditEntry, now time.Time) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Audit Log"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range auditExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(auditExportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, e := range entries {
		details := ""
		if len(e.Details) > 0 {
			raw, err := json.Marshal(e.Details)
			if err != nil {
				return nil, "", fmt.Errorf("failed to encode audit details: %w", err)
			}
			details = string(raw)
		}

		row := []interface{}{
			e.ID,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ActorID,
			e.Action,
			e.TargetType,
			e.TargetID,
			details,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write audit row: %w", err)
		}
	}

	for i := range auditExportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("audit_log_%s.xlsx", now.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func isValidProfileStatus(s domain.ProfileStatus) bool {
	for _, v := range domain.ValidProfileStatuses {
		if v == s {
			return true
		}
	}
	return false
}
