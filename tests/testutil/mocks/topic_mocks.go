package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// MockTopicRepository is a mock of repository.TopicRepository
type MockTopicRepository struct {
	mock.Mock
}

func NewMockTopicRepository(t *testing.T) *MockTopicRepository {
	m := &MockTopicRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Topic), args.Error(1)
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *entity.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Topic), args.Error(1)
}

func (m *MockTopicRepository) FindBySubjectIncludingDeleted(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Topic), args.Error(1)
}

func (m *MockTopicRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockTopicRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
