package query_test

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
	"github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/query"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/tests/testutil/mocks"
)

type getTreeTestDeps struct {
	subjectRepo  *mocks.MockSubjectRepository
	categoryRepo *mocks.MockCategoryRepository
	topicRepo    *mocks.MockTopicRepository
	treeCache    *mocks.MockTreeSnapshotCache
}

func newGetTreeTestDeps(t *testing.T) *getTreeTestDeps {
	t.Helper()
	return &getTreeTestDeps{
		subjectRepo:  mocks.NewMockSubjectRepository(t),
		categoryRepo: mocks.NewMockCategoryRepository(t),
		topicRepo:    mocks.NewMockTopicRepository(t),
		treeCache:    mocks.NewMockTreeSnapshotCache(t),
	}
}

func (d *getTreeTestDeps) newQuery() *query.GetTreeQuery {
	return query.NewGetTreeQuery(d.subjectRepo, d.categoryRepo, d.topicRepo, d.treeCache)
}

func mustNodeName(t *testing.T, value string) valueobject.NodeName {
	t.Helper()
	name, err := valueobject.NewNodeName(value)
	require.NoError(t, err)
	return name
}

func newSubject(t *testing.T, ownerID uuid.UUID) *entity.Subject {
	t.Helper()
	now := time.Now()
	return entity.ReconstructSubject(
		uuid.New(), ownerID, mustNodeName(t, "租税法"), nil, 1, now, now, nil,
	)
}

func newCategory(t *testing.T, subjectID, ownerID uuid.UUID, name string) *entity.Category {
	t.Helper()
	now := time.Now()
	return entity.ReconstructCategory(
		uuid.New(), ownerID, subjectID, mustNodeName(t, name), 0, nil, 1, now, now, nil,
	)
}

func TestGetTreeQuery_Execute_CacheHit_ReturnsCachedTree(t *testing.T) {
	ctx := context.Background()
	deps := newGetTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newSubject(t, ownerID)
	category := newCategory(t, subject.ID, ownerID, "法人税法")
	cached := entity.AssembleSubjectTree(subject, []*entity.Category{category}, nil)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.treeCache.On("Get", ctx, subject.ID).Return(cached, nil)

	q := deps.newQuery()
	output, err := q.Execute(ctx, query.GetTreeInput{SubjectID: subject.ID, UserID: ownerID})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Same(t, cached, output.Tree)
	deps.categoryRepo.AssertNotCalled(t, "FindBySubject", ctx, subject.ID)
}

func TestGetTreeQuery_Execute_CacheMiss_AssemblesAndCaches(t *testing.T) {
	ctx := context.Background()
	deps := newGetTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newSubject(t, ownerID)
	category := newCategory(t, subject.ID, ownerID, "所得税法")

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.treeCache.On("Get", ctx, subject.ID).Return(nil, nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{category}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.treeCache.On("Set", ctx, mock.AnythingOfType("*entity.SubjectTree")).Return(nil)

	q := deps.newQuery()
	output, err := q.Execute(ctx, query.GetTreeInput{SubjectID: subject.ID, UserID: ownerID})

	require.NoError(t, err)
	require.NotNil(t, output)
	require.Len(t, output.Tree.Branches, 1)
	assert.Equal(t, category.ID, output.Tree.Branches[0].Category.ID)
}

func TestGetTreeQuery_Execute_EmptyTree_Succeeds(t *testing.T) {
	ctx := context.Background()
	deps := newGetTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.treeCache.On("Get", ctx, subject.ID).Return(nil, nil)
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.treeCache.On("Set", ctx, mock.AnythingOfType("*entity.SubjectTree")).Return(nil)

	q := deps.newQuery()
	output, err := q.Execute(ctx, query.GetTreeInput{SubjectID: subject.ID, UserID: ownerID})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Empty(t, output.Tree.Branches)
}

func TestGetTreeQuery_Execute_ForeignSubject_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newGetTreeTestDeps(t)

	subject := newSubject(t, uuid.New())
	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)

	q := deps.newQuery()
	output, err := q.Execute(ctx, query.GetTreeInput{SubjectID: subject.ID, UserID: uuid.New()})

	require.Error(t, err)
	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestGetTreeQuery_Execute_CacheReadFailure_FallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	deps := newGetTreeTestDeps(t)

	ownerID := uuid.New()
	subject := newSubject(t, ownerID)

	deps.subjectRepo.On("FindByID", ctx, subject.ID).Return(subject, nil)
	deps.treeCache.On("Get", ctx, subject.ID).Return(nil, errors.New("redis down"))
	deps.categoryRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Category{}, nil)
	deps.topicRepo.On("FindBySubject", ctx, subject.ID).Return([]*entity.Topic{}, nil)
	deps.treeCache.On("Set", ctx, mock.AnythingOfType("*entity.SubjectTree")).Return(nil)

	q := deps.newQuery()
	output, err := q.Execute(ctx, query.GetTreeInput{SubjectID: subject.ID, UserID: ownerID})

	require.NoError(t, err)
	require.NotNil(t, output)
}
