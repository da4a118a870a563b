package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const orgID = "9a3e2c1b-0d4f-4e5a-8b6c-7d8e9f0a1b2c"

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeKeyResultRepo struct {
	mission.KeyResultRepository
	byTitle map[string][]mission.KeyResult
	updated []mission.KeyResult
}

func (f *fakeKeyResultRepo) ListByTitle(_ context.Context, org, title string) ([]mission.KeyResult, error) {
	if org != orgID {
		return nil, nil
	}
	return f.byTitle[title], nil
}

func (f *fakeKeyResultRepo) UpdateProgress(_ context.Context, kr mission.KeyResult) error {
	f.updated = append(f.updated, kr)
	return nil
}

type fakeFileService struct {
	archived   []byte
	archiveErr error
}

func (f *fakeFileService) ArchiveImport(_ context.Context, _ string, kind file.ImportKind, r io.Reader, filename string) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	data, _ := io.ReadAll(r)
	f.archived = data
	return "imports/" + string(kind) + "/" + filename, nil
}

func (f *fakeFileService) CheckImportFile(kind file.ImportKind, filename string) error {
	if !strings.HasSuffix(filename, ".xlsx") {
		return file.ErrInvalidFileType
	}
	return nil
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func as(role user.Role) context.Context {
	return user.WithClaims(context.Background(), user.Claims{UserID: "u1", OrganizationID: orgID, Role: role})
}

func newService(repo *fakeKeyResultRepo, files *fakeFileService) *ImportServiceImpl {
	return &ImportServiceImpl{tx: passthroughTx{}, keyResultRepo: repo, fileService: files}
}

func target(v float64) *float64 { return &v }

func TestImportKeyResults(t *testing.T) {
	unit := "deals"
	repo := &fakeKeyResultRepo{byTitle: map[string][]mission.KeyResult{
		"New deals": {{ID: "kr-1", Type: mission.KeyResultQuantitative, TargetValue: target(20), Unit: &unit, Status: mission.KeyResultNotStarted}},
		"NPS":       {{ID: "kr-2", Type: mission.KeyResultQuantitative, TargetValue: target(50)}, {ID: "kr-3"}},
	}}
	files := &fakeFileService{}
	data := workbook(t, [][]any{
		{"Key result", "Value"},
		{"New deals", 12},
		{"Unknown KR", 3},
		{"NPS", "soon"},
		{"NPS", 50},
		{"Negative", -1},
	})

	resp, err := newService(repo, files).ImportKeyResults(as(user.RoleManager), bytes.NewReader(data), "q2.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 3, resp.Failed)
	assert.Equal(t, "imports/key-results/q2.xlsx", resp.ArchivePath)
	assert.Equal(t, data, files.archived)

	require.Len(t, resp.Rows, 5)
	assert.Equal(t, importer.RowSuccess, resp.Rows[0].Status)
	assert.Equal(t, "updated to 12 deals", resp.Rows[0].Message)
	assert.Equal(t, 2, resp.Rows[0].Line)
	assert.Equal(t, mission.ErrKeyResultNotFound.Error(), resp.Rows[1].Message)
	assert.Equal(t, importer.RowError, resp.Rows[2].Status)
	assert.Contains(t, resp.Rows[3].Message, "first one updated")
	assert.Equal(t, importer.RowError, resp.Rows[4].Status)

	require.Len(t, repo.updated, 2)
	assert.Equal(t, 12.0, *repo.updated[0].CurrentValue)
	assert.Equal(t, mission.KeyResultInProgress, repo.updated[0].Status)
	assert.Equal(t, "kr-2", repo.updated[1].ID)
}

func TestImportKeyResults_ArchiveFailureIsNotFatal(t *testing.T) {
	repo := &fakeKeyResultRepo{byTitle: map[string][]mission.KeyResult{"A": {{ID: "kr-1"}}}}
	files := &fakeFileService{archiveErr: errors.New("disk full")}

	resp, err := newService(repo, files).ImportKeyResults(as(user.RoleExecutive), bytes.NewReader(workbook(t, [][]any{{"k", "v"}, {"A", 1}})), "a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Empty(t, resp.ArchivePath)
}

func TestImportKeyResults_Rejections(t *testing.T) {
	svc := newService(&fakeKeyResultRepo{}, &fakeFileService{})

	_, err := svc.ImportKeyResults(as(user.RoleMember), strings.NewReader(""), "a.xlsx")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.ImportKeyResults(as(user.RoleManager), strings.NewReader(""), "a.csv")
	assert.ErrorIs(t, err, file.ErrInvalidFileType)

	_, err = svc.ImportKeyResults(as(user.RoleManager), strings.NewReader("not a zip"), "a.xlsx")
	assert.ErrorIs(t, err, importer.ErrInvalidWorkbook)

	_, err = svc.ImportKeyResults(as(user.RoleManager), bytes.NewReader(workbook(t, [][]any{{"k", "v"}})), "a.xlsx")
	assert.ErrorIs(t, err, importer.ErrNoRows)
}
