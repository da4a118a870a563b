package importer

import "errors"

var (
	ErrInvalidWorkbook = errors.New("file is not a readable xlsx workbook")
	ErrNoRows          = errors.New("workbook has no data rows")
)
