package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyResultImportResponse_Counts(t *testing.T) {
	var resp KeyResultImportResponse
	resp.Success(2, "Signups", "40", "kr-1", "updated")
	resp.Failure(3, "Churn", "x", "value is not a number")
	resp.Success(4, "NPS", "55", "kr-2", "updated")

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, RowError, resp.Rows[1].Status)
	assert.Nil(t, resp.Rows[1].KeyResultID)
	require.NotNil(t, resp.Rows[2].KeyResultID)
	assert.Equal(t, "kr-2", *resp.Rows[2].KeyResultID)
}
