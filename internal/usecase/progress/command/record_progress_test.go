package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/internal/usecase/progress/command"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/tests/testutil/mocks"
)

type recordProgressTestDeps struct {
	topicRepo    *mocks.MockTopicRepository
	progressRepo *mocks.MockTopicProgressRepository
}

func newRecordProgressTestDeps(t *testing.T) *recordProgressTestDeps {
	t.Helper()
	return &recordProgressTestDeps{
		topicRepo:    mocks.NewMockTopicRepository(t),
		progressRepo: mocks.NewMockTopicProgressRepository(t),
	}
}

func (d *recordProgressTestDeps) newCommand() *command.RecordProgressCommand {
	return command.NewRecordProgressCommand(d.topicRepo, d.progressRepo)
}

func newOwnedTopic(t *testing.T, ownerID uuid.UUID) *entity.Topic {
	t.Helper()
	name, err := valueobject.NewNodeName("リース会計")
	require.NoError(t, err)
	now := time.Now()
	return entity.ReconstructTopic(
		uuid.New(), ownerID, uuid.New(), name, nil, valueobject.DifficultyNormal, 1, now, now, nil,
	)
}

func TestRecordProgressCommand_Execute_ValidLevel_ProgressUpserted(t *testing.T) {
	ctx := context.Background()
	deps := newRecordProgressTestDeps(t)

	ownerID := uuid.New()
	topic := newOwnedTopic(t, ownerID)

	deps.topicRepo.On("FindByID", ctx, topic.ID).Return(topic, nil)
	deps.progressRepo.On("Upsert", ctx, mock.AnythingOfType("*entity.TopicProgress")).Return(nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.RecordProgressInput{
		TopicID: topic.ID,
		UserID:  ownerID,
		Level:   2,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	require.NotNil(t, output.Progress)
	assert.Equal(t, topic.ID, output.Progress.TopicID)
	assert.Equal(t, ownerID, output.Progress.OwnerID)
	assert.Equal(t, 2, output.Progress.Level.Int())
}

func TestRecordProgressCommand_Execute_ForeignTopic_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newRecordProgressTestDeps(t)

	topic := newOwnedTopic(t, uuid.New())
	deps.topicRepo.On("FindByID", ctx, topic.ID).Return(topic, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.RecordProgressInput{
		TopicID: topic.ID,
		UserID:  uuid.New(),
		Level:   1,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestRecordProgressCommand_Execute_LevelOutOfRange_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newRecordProgressTestDeps(t)

	ownerID := uuid.New()
	topic := newOwnedTopic(t, ownerID)
	deps.topicRepo.On("FindByID", ctx, topic.ID).Return(topic, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.RecordProgressInput{
		TopicID: topic.ID,
		UserID:  ownerID,
		Level:   4,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}
