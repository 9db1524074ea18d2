package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// MockTreeSnapshotCache is a mock of repository.TreeSnapshotCache
type MockTreeSnapshotCache struct {
	mock.Mock
}

func NewMockTreeSnapshotCache(t *testing.T) *MockTreeSnapshotCache {
	m := &MockTreeSnapshotCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTreeSnapshotCache) Get(ctx context.Context, subjectID uuid.UUID) (*entity.SubjectTree, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubjectTree), args.Error(1)
}

func (m *MockTreeSnapshotCache) Set(ctx context.Context, tree *entity.SubjectTree) error {
	args := m.Called(ctx, tree)
	return args.Error(0)
}

func (m *MockTreeSnapshotCache) Invalidate(ctx context.Context, subjectID uuid.UUID) error {
	args := m.Called(ctx, subjectID)
	return args.Error(0)
}
