package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// RecordProgressInput は進捗記録の入力を定義します
type RecordProgressInput struct {
	TopicID uuid.UUID
	UserID  uuid.UUID
	Level   int
	Note    *string
}

// RecordProgressOutput は進捗記録の出力を定義します
type RecordProgressOutput struct {
	Progress *entity.TopicProgress
}

// RecordProgressCommand は論点の理解度を記録するコマンドです
// 同一論点への記録は上書きになります。
type RecordProgressCommand struct {
	topicRepo    repository.TopicRepository
	progressRepo repository.TopicProgressRepository
}

// NewRecordProgressCommand は新しいRecordProgressCommandを作成します
func NewRecordProgressCommand(
	topicRepo repository.TopicRepository,
	progressRepo repository.TopicProgressRepository,
) *RecordProgressCommand {
	return &RecordProgressCommand{
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
	}
}

// Execute は進捗を記録します
func (c *RecordProgressCommand) Execute(ctx context.Context, input RecordProgressInput) (*RecordProgressOutput, error) {
	topic, err := c.topicRepo.FindByID(ctx, input.TopicID)
	if err != nil {
		return nil, err
	}
	if !topic.IsOwnedBy(input.UserID) {
		return nil, apperror.NewNotFoundError("topic")
	}

	level, err := valueobject.NewUnderstandingLevel(input.Level)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "level", Message: err.Error()},
		})
	}

	progress := entity.NewTopicProgress(input.UserID, topic.ID, level, input.Note)
	if err := c.progressRepo.Upsert(ctx, progress); err != nil {
		return nil, err
	}

	return &RecordProgressOutput{Progress: progress}, nil
}
