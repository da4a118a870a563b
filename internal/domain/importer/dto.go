package importer

type RowStatus string

const (
	RowSuccess RowStatus = "success"
	RowError   RowStatus = "error"
)

// RowResult reports one spreadsheet row. Line is the 1-based worksheet row.
type RowResult struct {
	Line        int       `json:"line"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
	Status      RowStatus `json:"status"`
	Message     string    `json:"message"`
	KeyResultID *string   `json:"key_result_id,omitempty"`
}

type KeyResultImportResponse struct {
	Total       int         `json:"total"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	ArchivePath string      `json:"archive_path,omitempty"`
	Rows        []RowResult `json:"rows"`
}

func (r *KeyResultImportResponse) add(row RowResult) {
	r.Rows = append(r.Rows, row)
	r.Total++
	if row.Status == RowSuccess {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// Success records an updated key result.
func (r *KeyResultImportResponse) Success(line int, name, value, keyResultID, message string) {
	r.add(RowResult{Line: line, Name: name, Value: value, Status: RowSuccess, Message: message, KeyResultID: &keyResultID})
}

// Failure records a row that could not be applied.
func (r *KeyResultImportResponse) Failure(line int, name, value, message string) {
	r.add(RowResult{Line: line, Name: name, Value: value, Status: RowError, Message: message})
}
