package importer

import (
	"context"
	"io"
)

type ImportService interface {
	// ImportKeyResults applies an uploaded workbook to the caller's organization.
	ImportKeyResults(ctx context.Context, file io.Reader, filename string) (KeyResultImportResponse, error)
	// ImportKeyResultsForOrganization skips claim checks, for the CLI.
	ImportKeyResultsForOrganization(ctx context.Context, organizationID string, file io.Reader) (KeyResultImportResponse, error)
}
