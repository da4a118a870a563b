package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/mission-backend-go/internal/service/file"
)

type ImportServiceImpl struct {
	tx            postgresql.Transactor
	keyResultRepo mission.KeyResultRepository
	fileService   file.FileService
}

func NewImportService(tx postgresql.Transactor, keyResultRepo mission.KeyResultRepository, fileService file.FileService) importer.ImportService {
	return &ImportServiceImpl{
		tx:            tx,
		keyResultRepo: keyResultRepo,
		fileService:   fileService,
	}
}

// ImportKeyResults implements importer.ImportService.
func (s *ImportServiceImpl) ImportKeyResults(ctx context.Context, f io.Reader, filename string) (importer.KeyResultImportResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return importer.KeyResultImportResponse{}, err
	}
	if !claims.Can(user.PermissionImportRun) {
		return importer.KeyResultImportResponse{}, user.ErrInsufficientPermissions
	}
	if err := s.fileService.CheckImportFile(file.ImportKeyResults, filename); err != nil {
		return importer.KeyResultImportResponse{}, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return importer.KeyResultImportResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}

	resp, err := s.ImportKeyResultsForOrganization(ctx, claims.OrganizationID, bytes.NewReader(data))
	if err != nil {
		return importer.KeyResultImportResponse{}, err
	}

	archivePath, err := s.fileService.ArchiveImport(ctx, claims.OrganizationID, file.ImportKeyResults, bytes.NewReader(data), filename)
	if err != nil {
		slog.Warn("Failed to archive key result import", "organization_id", claims.OrganizationID, "error", err)
	} else {
		resp.ArchivePath = archivePath
	}

	slog.Info("Key result import finished",
		"organization_id", claims.OrganizationID,
		"user_id", claims.UserID,
		"total", resp.Total,
		"failed", resp.Failed,
	)
	return resp, nil
}

// ImportKeyResultsForOrganization implements importer.ImportService.
// Rows are applied in one transaction; a row error is reported, not fatal.
func (s *ImportServiceImpl) ImportKeyResultsForOrganization(ctx context.Context, organizationID string, f io.Reader) (importer.KeyResultImportResponse, error) {
	rows, err := spreadsheet.ReadNameValueRows(f)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmptyWorksheet) || errors.Is(err, spreadsheet.ErrNoWorksheet) {
			return importer.KeyResultImportResponse{}, importer.ErrNoRows
		}
		return importer.KeyResultImportResponse{}, fmt.Errorf("%w: %v", importer.ErrInvalidWorkbook, err)
	}
	if len(rows) == 0 {
		return importer.KeyResultImportResponse{}, importer.ErrNoRows
	}

	resp := importer.KeyResultImportResponse{Rows: make([]importer.RowResult, 0, len(rows))}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			if err := s.applyRow(ctx, organizationID, row, &resp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return importer.KeyResultImportResponse{}, err
	}
	return resp, nil
}

// applyRow returns an error only for storage failures.
func (s *ImportServiceImpl) applyRow(ctx context.Context, organizationID string, row spreadsheet.Row, resp *importer.KeyResultImportResponse) error {
	if row.ParseErr != nil {
		resp.Failure(row.Line, row.Name, row.RawValue, row.ParseErr.Error())
		return nil
	}

	req := mission.UpdateKeyResultProgressRequest{CurrentValue: &row.Value}
	if err := req.Validate(); err != nil {
		resp.Failure(row.Line, row.Name, row.RawValue, err.Error())
		return nil
	}

	matches, err := s.keyResultRepo.ListByTitle(ctx, organizationID, row.Name)
	if err != nil {
		return fmt.Errorf("failed to look up key result %q: %w", row.Name, err)
	}
	if len(matches) == 0 {
		resp.Failure(row.Line, row.Name, row.RawValue, mission.ErrKeyResultNotFound.Error())
		return nil
	}

	kr := req.Apply(matches[0])
	if err := s.keyResultRepo.UpdateProgress(ctx, kr); err != nil {
		return fmt.Errorf("failed to update key result %q: %w", row.Name, err)
	}

	message := "updated to " + strconv.FormatFloat(row.Value, 'f', -1, 64)
	if kr.Unit != nil && *kr.Unit != "" {
		message += " " + *kr.Unit
	}
	if len(matches) > 1 {
		message += fmt.Sprintf(" (%d key results share this title, first one updated)", len(matches))
	}
	resp.Success(row.Line, row.Name, row.RawValue, kr.ID, strings.TrimSpace(message))
	return nil
}
