package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

func mustNodeName(t *testing.T, s string) valueobject.NodeName {
	t.Helper()
	name, err := valueobject.NewNodeName(s)
	require.NoError(t, err)
	return name
}

func TestAssembleSubjectTree_NestedOrdering(t *testing.T) {
	ownerID := uuid.New()
	subject := entity.NewSubject(ownerID, mustNodeName(t, "財務会計論"), nil, 0)

	rootB, err := entity.NewCategory(ownerID, subject.ID, mustNodeName(t, "連結会計"), 0, nil, 2)
	require.NoError(t, err)
	rootA, err := entity.NewCategory(ownerID, subject.ID, mustNodeName(t, "簿記"), 0, nil, 1)
	require.NoError(t, err)
	childA2, err := entity.NewCategory(ownerID, subject.ID, mustNodeName(t, "特殊商品売買"), 1, &rootA.ID, 2)
	require.NoError(t, err)
	childA1, err := entity.NewCategory(ownerID, subject.ID, mustNodeName(t, "一般商品売買"), 1, &rootA.ID, 1)
	require.NoError(t, err)

	topic2 := entity.NewTopic(ownerID, childA1.ID, mustNodeName(t, "割賦販売"), nil, valueobject.DifficultyHard, 2)
	topic1 := entity.NewTopic(ownerID, childA1.ID, mustNodeName(t, "三分法"), nil, valueobject.DifficultyNormal, 1)

	tree := entity.AssembleSubjectTree(
		subject,
		[]*entity.Category{rootB, rootA, childA2, childA1},
		[]*entity.Topic{topic2, topic1},
	)

	require.Len(t, tree.Branches, 2)
	assert.Equal(t, rootA.ID, tree.Branches[0].Category.ID)
	assert.Equal(t, rootB.ID, tree.Branches[1].Category.ID)

	require.Len(t, tree.Branches[0].Children, 2)
	assert.Equal(t, childA1.ID, tree.Branches[0].Children[0].Category.ID)
	assert.Equal(t, childA2.ID, tree.Branches[0].Children[1].Category.ID)

	require.Len(t, tree.Branches[0].Children[0].Topics, 2)
	assert.Equal(t, topic1.ID, tree.Branches[0].Children[0].Topics[0].ID)
	assert.Equal(t, topic2.ID, tree.Branches[0].Children[0].Topics[1].ID)

	assert.Equal(t, 4, tree.CountCategories())
	assert.Equal(t, 2, tree.CountTopics())
}

func TestAssembleSubjectTree_Empty(t *testing.T) {
	ownerID := uuid.New()
	subject := entity.NewSubject(ownerID, mustNodeName(t, "租税法"), nil, 0)

	tree := entity.AssembleSubjectTree(subject, nil, nil)

	assert.Empty(t, tree.Branches)
	assert.Equal(t, 0, tree.CountCategories())
	assert.Equal(t, 0, tree.CountTopics())
}

func TestAssembleSubjectTree_SkipsDanglingRows(t *testing.T) {
	ownerID := uuid.New()
	subject := entity.NewSubject(ownerID, mustNodeName(t, "管理会計論"), nil, 0)

	missingParent := uuid.New()
	orphanCategory, err := entity.NewCategory(ownerID, subject.ID, mustNodeName(t, "迷子の分類"), 1, &missingParent, 1)
	require.NoError(t, err)
	orphanTopic := entity.NewTopic(ownerID, uuid.New(), mustNodeName(t, "迷子の論点"), nil, valueobject.DifficultyNormal, 1)

	tree := entity.AssembleSubjectTree(subject, []*entity.Category{orphanCategory}, []*entity.Topic{orphanTopic})

	assert.Empty(t, tree.Branches)
	assert.Equal(t, 0, tree.CountTopics())
}

func TestNewCategory_DepthValidation(t *testing.T) {
	ownerID := uuid.New()
	subjectID := uuid.New()
	parentID := uuid.New()

	_, err := entity.NewCategory(ownerID, subjectID, mustNodeName(t, "深すぎる分類"), 2, &parentID, 0)
	assert.ErrorIs(t, err, entity.ErrCategoryMaxDepthExceeded)

	_, err = entity.NewCategory(ownerID, subjectID, mustNodeName(t, "親なし小分類"), 1, nil, 0)
	assert.ErrorIs(t, err, entity.ErrCategoryParentRequired)
}

func TestCategory_OverwriteRevivesSoftDeletedRow(t *testing.T) {
	ownerID := uuid.New()
	subjectID := uuid.New()

	category, err := entity.NewCategory(ownerID, subjectID, mustNodeName(t, "旧名称"), 0, nil, 5)
	require.NoError(t, err)

	deletedAt := time.Now().Add(-time.Hour)
	category.SoftDelete(deletedAt)
	require.True(t, category.IsDeleted())

	now := time.Now()
	category.Overwrite(mustNodeName(t, "新名称"), 0, nil, 1, now)

	assert.False(t, category.IsDeleted())
	assert.Equal(t, "新名称", category.Name.String())
	assert.Equal(t, 1, category.DisplayOrder)
	assert.Equal(t, now, category.UpdatedAt)
}
