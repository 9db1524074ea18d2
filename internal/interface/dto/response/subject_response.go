package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// SubjectResponse は科目レスポンスを定義します
type SubjectResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToSubjectResponse はentity.Subjectをレスポンスに変換します
func ToSubjectResponse(subject *entity.Subject) SubjectResponse {
	return SubjectResponse{
		ID:           subject.ID,
		Name:         subject.Name.String(),
		Description:  subject.Description,
		DisplayOrder: subject.DisplayOrder,
		CreatedAt:    subject.CreatedAt,
		UpdatedAt:    subject.UpdatedAt,
	}
}

// ToSubjectListResponse は科目一覧をレスポンスに変換します
func ToSubjectListResponse(subjects []*entity.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, ToSubjectResponse(subject))
	}
	return responses
}
