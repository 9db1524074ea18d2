package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/command"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/tests/testutil/mocks"
)

type importTreeCSVTestDeps struct {
	subjectRepo  *mocks.MockSubjectRepository
	categoryRepo *mocks.MockCategoryRepository
	topicRepo    *mocks.MockTopicRepository
	treeCache    *mocks.MockTreeSnapshotCache
	txManager    *mocks.MockTransactionManager
}

func newImportTreeCSVTestDeps(t *testing.T) *importTreeCSVTestDeps {
	t.Helper()
	return &importTreeCSVTestDeps{
		subjectRepo:  mocks.NewMockSubjectRepository(t),
		categoryRepo: mocks.NewMockCategoryRepository(t),
		topicRepo:    mocks.NewMockTopicRepository(t),
		treeCache:    mocks.NewMockTreeSnapshotCache(t),
		txManager:    mocks.NewMockTransactionManager(t),
	}
}

func (d *importTreeCSVTestDeps) newCommand() *command.ImportTreeCSVCommand {
	return command.NewImportTreeCSVCommand(
		d.subjectRepo, d.categoryRepo, d.topicRepo,
		service.NewCSVTreeImporter(),
		service.NewTreePlanner(service.NewIdentityResolver()),
		d.treeCache, d.txManager,
	)
}

func TestImportTreeCSVCommand_Execute_EmptyTree_CreatesGroupedNodes(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	// loadSubjectTree と buildTreePlan の両方で既存行を読む
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)

	deps.categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Times(2)
	deps.topicRepo.On("Create", ctx, mock.AnythingOfType("*entity.Topic")).Return(nil).Times(3)
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)

	csv := strings.Join([]string{
		"category,topic",
		"簿記,仕訳",
		"簿記,決算整理",
		"原価計算,標準原価",
	}, "\n")

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader(csv),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, 2, output.ImportedCategories)
	assert.Equal(t, 3, output.ImportedTopics)
	assert.Empty(t, output.Errors)
}

func TestImportTreeCSVCommand_Execute_ExistingCategoryName_ReusedWithoutDeletion(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	existingCategory := newActiveCategory(t, subject.ID, ownerID, "簿記")
	existingTopic := newActiveTopic(t, existingCategory.ID, ownerID, "仕訳")

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{existingCategory}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{existingTopic}, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{existingCategory}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{existingTopic}, nil)

	// 既存分類は更新され、新しい分類は作られない
	deps.categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	deps.topicRepo.On("Update", ctx, mock.AnythingOfType("*entity.Topic")).Return(nil)
	deps.topicRepo.On("Create", ctx, mock.AnythingOfType("*entity.Topic")).Return(nil).Once()

	// インポートで既存ノードが削除されないこと
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)

	csv := strings.Join([]string{
		"category,topic",
		"簿記,決算整理",
	}, "\n")

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader(csv),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.ImportedCategories)
	assert.Equal(t, 2, output.ImportedTopics)
}

func TestImportTreeCSVCommand_Execute_ExistingPair_CountedAsImported(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	existingCategory := newActiveCategory(t, subject.ID, ownerID, "簿記")
	existingTopic := newActiveTopic(t, existingCategory.ID, ownerID, "仕訳")

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{existingCategory}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{existingTopic}, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{existingCategory}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{existingTopic}, nil)

	deps.categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Once()
	deps.topicRepo.On("Update", ctx, mock.AnythingOfType("*entity.Topic")).Return(nil).Once()
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)

	csv := strings.Join([]string{
		"category,topic",
		"簿記,仕訳",
	}, "\n")

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader(csv),
	})

	// 既存の組でも更新として書き込まれ、件数に数えられる
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.ImportedCategories)
	assert.Equal(t, 1, output.ImportedTopics)
	assert.Empty(t, output.Errors)
}

func TestImportTreeCSVCommand_Execute_InvalidHeader_ReturnsInvalidRequest(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader("name,title\n簿記,仕訳\n"),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidRequest, appErr.Code)
}

func TestImportTreeCSVCommand_Execute_NoValidRows_ReportsFailureWithoutWrite(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)

	csv := strings.Join([]string{
		"category,topic",
		",仕訳",
		"簿記,",
	}, "\n")

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader(csv),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Success)
	assert.Len(t, output.Errors, 2)
}

func TestImportTreeCSVCommand_Execute_HeaderOnly_ReportsNoImportableData(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)
	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader("category,topic\n"),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Success)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, "no importable data", output.Errors[0].Message)
}

func TestImportTreeCSVCommand_Execute_PartialRowErrors_ImportsValidRows(t *testing.T) {
	ctx := context.Background()
	deps := newImportTreeCSVTestDeps(t)

	ownerID := uuid.New()
	subject := newOwnedSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.categoryRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubjectIncludingDeleted", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Once()
	deps.topicRepo.On("Create", ctx, mock.AnythingOfType("*entity.Topic")).Return(nil).Once()
	deps.topicRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.categoryRepo.On("BulkSoftDelete", ctx, mock.Anything).Return(nil)
	deps.treeCache.On("Invalidate", ctx, subject.ID).Return(nil)

	csv := strings.Join([]string{
		"category,topic",
		"簿記,仕訳",
		",欠損行",
	}, "\n")

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.ImportTreeCSVInput{
		SubjectID: subject.ID,
		UserID:    ownerID,
		Reader:    strings.NewReader(csv),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.ImportedCategories)
	assert.Equal(t, 1, output.ImportedTopics)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, 3, output.Errors[0].Line)
}
