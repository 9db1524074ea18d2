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
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/command"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/tests/testutil/mocks"
)

type syncTreeTestDeps struct {
	subjectRepo  *mocks.MockSubjectRepository
	categoryRepo *mocks.MockCategoryRepository
	topicRepo    *mocks.MockTopicRepository
	treeCache    *mocks.MockTreeSnapshotCache
	txManager    *mocks.MockTransactionManager
}

func newSyncTreeTestDeps(t *testing.T) *syncTreeTestDeps {
	t.Helper()
	return &syncTreeTestDeps{
		subjectRepo:  mocks.NewMockSubjectRepository(t),
		categoryRepo: mocks.NewMockCategoryRepository(t),
		topicRepo:    mocks.NewMockTopicRepository(t),
		treeCache:    mocks.NewMockTreeSnapshotCache(t),
		txManager:    mocks.NewMockTransactionManager(t),
	}
}

func (d *syncTreeTestDeps) newCommand() *command.SyncTreeCommand {
	return command.NewSyncTreeCommand(
		d.subjectRepo, d.categoryRepo, d.topicRepo,
		service.NewTreePlanner(service.NewIdentityResolver()),
		d.treeCache, d.txManager,
	)
}

func mustNodeName(t *testing.T, value string) valueobject.NodeName {
	t.Helper()
	name, err := valueobject.NewNodeName(value)
	require.NoError(t, err)
	return name
}

func newOwnedSubject(t *testing.T, ownerID uuid.UUID) *entity.Subject {
	t.Helper()
	now := time.Now()
	return entity.ReconstructSubject(
		uuid.New(), ownerID, mustNodeName(t, "財務会計論"), nil, 1, now, now, nil,
	)
}

func newActiveCategory(t *testing.T, subjectID, ownerID uuid.UUID, name string) *entity.Category {
	t.Helper()
	now := time.Now()
	return entity.ReconstructCategory(
		uuid.New(), ownerID, subjectID, mustNodeName(t, name), 0, nil, 1, now, now, nil,
	)
}

func newActiveTopic(t *testing.T, categoryID, ownerID uuid.UUID, name string) *entity.Topic {
	t.Helper()
	now := time.Now()
	return entity.ReconstructTopic(
		uuid.New(), ownerID, categoryID, mustNodeName(t, name), nil, valueobject.DifficultyNormal, 1, now, now, nil,
	)
}

func TestSyncTreeCommand_Execute_NewNodes_CreatedInOneTransaction(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)

	var createdCategory *entity.Category
	var createdTopic *entity.Topic
	deps.categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).
		Run(func(args mock.Arguments) {
			createdCategory = args.Get(1).(*entity.Category)
		}).
		Return(nil)
	deps.topicRepo.On("Create", ctx, mock.AnythingOfType("*entity.Topic")).
		Run(func(args mock.Arguments) {
			createdTopic = args.Get(1).(*entity.Topic)
		}).
		Return(nil)
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)

	reloadedCategory := newActiveCategory(t, subject.ID, ownerID, "簿記")
	reloadedTopic := newActiveTopic(t, reloadedCategory.ID, ownerID, "仕訳の基礎")
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{reloadedCategory}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{reloadedTopic}, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Tree: &service.SubmittedTree{
			Categories: []service.SubmittedCategory{
				{
					Name: "簿記",
					Topics: []service.SubmittedTopic{
						{Name: "仕訳の基礎"},
					},
				},
			},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	require.NotNil(t, createdCategory)
	require.NotNil(t, createdTopic)
	assert.Equal(t, subject.ID, createdCategory.SubjectID)
	assert.Equal(t, 0, createdCategory.Depth)
	assert.Equal(t, createdCategory.ID, createdTopic.CategoryID)

	require.Len(t, output.Tree.Branches, 1)
	assert.Equal(t, "簿記", output.Tree.Branches[0].Category.Name.String())
	require.Len(t, output.Tree.Branches[0].Topics, 1)
	assert.Equal(t, "仕訳の基礎", output.Tree.Branches[0].Topics[0].Name.String())
}

func TestSyncTreeCommand_Execute_OmittedActiveNodes_SoftDeleted(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	category := newActiveCategory(t, subject.ID, ownerID, "管理会計")
	topic := newActiveTopic(t, category.ID, ownerID, "原価計算")

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{category}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{topic}, nil)

	deps.topicRepo.On("BulkSoftDelete", ctx, []uuid.UUID{topic.ID}).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, []uuid.UUID{category.ID}).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Tree:      &service.SubmittedTree{},
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Empty(t, output.Tree.Branches)
}

func TestSyncTreeCommand_Execute_ForeignSubject_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	subject := newOwnedSubject(t, uuid.New())
	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    uuid.New(),
		Tree:      &service.SubmittedTree{},
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestSyncTreeCommand_Execute_UnknownCategoryID_ReturnsInvalidID(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	unknownID := uuid.New()

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Tree: &service.SubmittedTree{
			Categories: []service.SubmittedCategory{
				{ID: &unknownID, Name: "監査論"},
			},
		},
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidID, appErr.Code)
}

func TestSyncTreeCommand_Execute_WriteFailure_ReturnsTransactionFailed(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).
		Return(errors.New("connection reset"))

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Tree: &service.SubmittedTree{
			Categories: []service.SubmittedCategory{
				{Name: "企業法"},
			},
		},
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeTransactionFailed, appErr.Code)
}

func TestSyncTreeCommand_Execute_CacheInvalidateFailure_StillSucceeds(t *testing.T) {
	ctx := context.Background()
	deps := newSyncTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(errors.New("redis down"))
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SyncTreeInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Tree:      &service.SubmittedTree{},
	})

	require.NoError(t, err)
	require.NotNil(t, output)
}
