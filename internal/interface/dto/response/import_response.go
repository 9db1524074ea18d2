package response

import (
	treecmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/command"
)

// ImportResultResponse はCSVインポート結果レスポンスを定義します
type ImportResultResponse struct {
	Success            bool                     `json:"success"`
	ImportedCategories int                      `json:"imported_categories"`
	ImportedTopics     int                      `json:"imported_topics"`
	Errors             []ImportRowErrorResponse `json:"errors"`
}

// ImportRowErrorResponse は取り込めなかった行の情報を定義します
type ImportRowErrorResponse struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ToImportResultResponse はインポート結果をレスポンスに変換します
func ToImportResultResponse(output *treecmd.ImportTreeCSVOutput) ImportResultResponse {
	errors := make([]ImportRowErrorResponse, 0, len(output.Errors))
	for _, rowErr := range output.Errors {
		errors = append(errors, ImportRowErrorResponse{
			Line:    rowErr.Line,
			Message: rowErr.Message,
		})
	}
	return ImportResultResponse{
		Success:            output.Success,
		ImportedCategories: output.ImportedCategories,
		ImportedTopics:     output.ImportedTopics,
		Errors:             errors,
	}
}
