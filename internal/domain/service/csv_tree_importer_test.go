package service_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

func emptyTree(t *testing.T) *entity.SubjectTree {
	t.Helper()
	ownerID := uuid.New()
	name, err := valueobject.NewNodeName("財務会計論")
	require.NoError(t, err)
	return entity.AssembleSubjectTree(entity.NewSubject(ownerID, name, nil, 0), nil, nil)
}

func TestParseTopicCSV_GroupsByFirstAppearance(t *testing.T) {
	input := strings.Join([]string{
		"category,topic",
		"簿記,三分法",
		"連結会計,資本連結",
		"簿記,割賦販売",
	}, "\n")

	result, err := service.NewCSVTreeImporter().ParseTopicCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Groups, 2)
	assert.Equal(t, "簿記", result.Groups[0].CategoryName)
	assert.Equal(t, []string{"三分法", "割賦販売"}, result.Groups[0].TopicNames)
	assert.Equal(t, "連結会計", result.Groups[1].CategoryName)
	assert.Equal(t, []string{"資本連結"}, result.Groups[1].TopicNames)
}

func TestParseTopicCSV_InvalidHeader(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"別のラベル", "name,value\nA,B"},
		{"列が多い", "category,topic,extra\nA,B,C"},
		{"空入力", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.NewCSVTreeImporter().ParseTopicCSV(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, service.ErrCSVInvalidHeader)
		})
	}
}

func TestParseTopicCSV_RowErrorsDoNotStopParsing(t *testing.T) {
	input := strings.Join([]string{
		"category,topic",
		"簿記,三分法",
		",論点だけ",
		"分類だけ,",
		"列,が,多い",
		"簿記,分記法",
	}, "\n")

	result, err := service.NewCSVTreeImporter().ParseTopicCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Equal(t, 4, result.Errors[1].Line)
	assert.Equal(t, 5, result.Errors[2].Line)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"三分法", "分記法"}, result.Groups[0].TopicNames)
}

func TestParseTopicCSV_DuplicatePairsAreCollapsed(t *testing.T) {
	input := strings.Join([]string{
		"category,topic",
		"簿記,三分法",
		"簿記,三分法",
	}, "\n")

	result, err := service.NewCSVTreeImporter().ParseTopicCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"三分法"}, result.Groups[0].TopicNames)
}

func TestMerge_ReusesExistingCategoryByExactName(t *testing.T) {
	ownerID := uuid.New()
	subjectName, err := valueobject.NewNodeName("財務会計論")
	require.NoError(t, err)
	subject := entity.NewSubject(ownerID, subjectName, nil, 0)

	root := buildCategory(t, ownerID, subject.ID, "簿記", 0, nil, 1)
	existingTopic := buildTopic(t, ownerID, root.ID, "三分法", 1)
	tree := entity.AssembleSubjectTree(subject, []*entity.Category{root}, []*entity.Topic{existingTopic})

	groups := []service.CSVGroup{
		{CategoryName: "簿記", TopicNames: []string{"三分法", "割賦販売"}},
		{CategoryName: "連結会計", TopicNames: []string{"資本連結"}},
	}

	submitted := service.NewCSVTreeImporter().Merge(groups, tree)

	require.Len(t, submitted.Categories, 2)

	reused := submitted.Categories[0]
	require.NotNil(t, reused.ID)
	assert.Equal(t, root.ID, *reused.ID)
	// 既存の「三分法」は保持され、同名の追加行は重複しない
	require.Len(t, reused.Topics, 2)
	assert.Equal(t, existingTopic.ID, *reused.Topics[0].ID)
	assert.Nil(t, reused.Topics[1].ID)
	assert.Equal(t, "割賦販売", reused.Topics[1].Name)

	added := submitted.Categories[1]
	assert.Nil(t, added.ID)
	assert.Equal(t, "連結会計", added.Name)
	require.Len(t, added.Topics, 1)
	assert.Equal(t, "資本連結", added.Topics[0].Name)
}

func TestMerge_NameMatchingIsCaseSensitive(t *testing.T) {
	ownerID := uuid.New()
	subjectName, err := valueobject.NewNodeName("経営学")
	require.NoError(t, err)
	subject := entity.NewSubject(ownerID, subjectName, nil, 0)

	root := buildCategory(t, ownerID, subject.ID, "Finance", 0, nil, 1)
	tree := entity.AssembleSubjectTree(subject, []*entity.Category{root}, nil)

	submitted := service.NewCSVTreeImporter().Merge(
		[]service.CSVGroup{{CategoryName: "finance", TopicNames: []string{"CAPM"}}}, tree)

	require.Len(t, submitted.Categories, 2)
	assert.Nil(t, submitted.Categories[1].ID)
	assert.Equal(t, "finance", submitted.Categories[1].Name)
}

func TestMerge_PreservesExistingSubtree(t *testing.T) {
	ownerID := uuid.New()
	subjectName, err := valueobject.NewNodeName("管理会計論")
	require.NoError(t, err)
	subject := entity.NewSubject(ownerID, subjectName, nil, 0)

	root := buildCategory(t, ownerID, subject.ID, "原価計算", 0, nil, 1)
	child := buildCategory(t, ownerID, subject.ID, "個別原価計算", 1, &root.ID, 1)
	childTopic := buildTopic(t, ownerID, child.ID, "製造間接費の配賦", 1)
	tree := entity.AssembleSubjectTree(subject, []*entity.Category{root, child}, []*entity.Topic{childTopic})

	submitted := service.NewCSVTreeImporter().Merge(
		[]service.CSVGroup{{CategoryName: "標準原価計算", TopicNames: []string{"原価差異分析"}}}, tree)

	// 既存ツリーは小分類・論点まで丸ごと送信に含まれる
	require.Len(t, submitted.Categories, 2)
	existing := submitted.Categories[0]
	require.Len(t, existing.Children, 1)
	assert.Equal(t, child.ID, *existing.Children[0].ID)
	require.Len(t, existing.Children[0].Topics, 1)
	assert.Equal(t, childTopic.ID, *existing.Children[0].Topics[0].ID)
}

func TestMerge_IntoEmptyTree(t *testing.T) {
	submitted := service.NewCSVTreeImporter().Merge(
		[]service.CSVGroup{{CategoryName: "簿記", TopicNames: []string{"三分法"}}}, emptyTree(t))

	require.Len(t, submitted.Categories, 1)
	assert.Nil(t, submitted.Categories[0].ID)
	require.Len(t, submitted.Categories[0].Topics, 1)
}
