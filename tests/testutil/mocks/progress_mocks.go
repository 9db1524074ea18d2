package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// MockTopicProgressRepository is a mock of repository.TopicProgressRepository
type MockTopicProgressRepository struct {
	mock.Mock
}

func NewMockTopicProgressRepository(t *testing.T) *MockTopicProgressRepository {
	m := &MockTopicProgressRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTopicProgressRepository) Upsert(ctx context.Context, progress *entity.TopicProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockTopicProgressRepository) FindByTopic(ctx context.Context, ownerID, topicID uuid.UUID) (*entity.TopicProgress, error) {
	args := m.Called(ctx, ownerID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopicProgress), args.Error(1)
}

func (m *MockTopicProgressRepository) FindBySubject(ctx context.Context, ownerID, subjectID uuid.UUID) ([]*entity.TopicProgress, error) {
	args := m.Called(ctx, ownerID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TopicProgress), args.Error(1)
}
