package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// ProgressResponse は進捗レスポンスを定義します
type ProgressResponse struct {
	TopicID   uuid.UUID `json:"topic_id"`
	Level     int       `json:"level"`
	Note      *string   `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubjectProgressResponse は科目進捗レスポンスを定義します
type SubjectProgressResponse struct {
	TotalTopics  int                `json:"total_topics"`
	MasteredRate float64            `json:"mastered_rate"`
	Progresses   []ProgressResponse `json:"progresses"`
}

// ToProgressResponse はentity.TopicProgressをレスポンスに変換します
func ToProgressResponse(progress *entity.TopicProgress) ProgressResponse {
	return ProgressResponse{
		TopicID:   progress.TopicID,
		Level:     progress.Level.Int(),
		Note:      progress.Note,
		UpdatedAt: progress.UpdatedAt,
	}
}

// ToSubjectProgressResponse は科目進捗をレスポンスに変換します
func ToSubjectProgressResponse(progresses []*entity.TopicProgress, totalTopics int, masteredRate float64) SubjectProgressResponse {
	responses := make([]ProgressResponse, 0, len(progresses))
	for _, progress := range progresses {
		responses = append(responses, ToProgressResponse(progress))
	}
	return SubjectProgressResponse{
		TotalTopics:  totalTopics,
		MasteredRate: masteredRate,
		Progresses:   responses,
	}
}
