package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// CategoryUpsert は書き込み予定の分類1件
type CategoryUpsert struct {
	Category *entity.Category
	IsNew    bool
}

// TopicUpsert は書き込み予定の論点1件
type TopicUpsert struct {
	Topic *entity.Topic
	IsNew bool
}

// TreePlan は同期1回分の書き込み計画
// CategoryUpsertsは親が子より先に並ぶため、外部キー制約の下で
// 先頭から順に適用できます。
type TreePlan struct {
	CategoryUpserts   []CategoryUpsert
	TopicUpserts      []TopicUpsert
	CategoryDeleteIDs []uuid.UUID
	TopicDeleteIDs    []uuid.UUID
}

// CategoryUpsertCount は書き込まれる分類数（新規と更新の合計）を返します
func (p *TreePlan) CategoryUpsertCount() int {
	return len(p.CategoryUpserts)
}

// TopicUpsertCount は書き込まれる論点数（新規と更新の合計）を返します
func (p *TreePlan) TopicUpsertCount() int {
	return len(p.TopicUpserts)
}

// TreePlanner は送信ツリーと既存行から書き込み計画を作るドメインサービス
// 計画の作成は純粋な計算で、リポジトリには触れません。
type TreePlanner interface {
	// Plan は書き込み計画を作成します
	// existingCategories / existingTopics には論理削除済みの行も含めてください。
	Plan(
		subjectID uuid.UUID,
		ownerID uuid.UUID,
		flattened *FlattenedSubmission,
		existingCategories []*entity.Category,
		existingTopics []*entity.Topic,
		now time.Time,
	) (*TreePlan, error)
}

// treePlannerImpl はTreePlannerの実装
type treePlannerImpl struct {
	resolver IdentityResolver
}

// NewTreePlanner は新しいTreePlannerを作成します
func NewTreePlanner(resolver IdentityResolver) TreePlanner {
	return &treePlannerImpl{resolver: resolver}
}

// Plan は書き込み計画を作成します
func (s *treePlannerImpl) Plan(
	subjectID uuid.UUID,
	ownerID uuid.UUID,
	flattened *FlattenedSubmission,
	existingCategories []*entity.Category,
	existingTopics []*entity.Topic,
	now time.Time,
) (*TreePlan, error) {
	categoryByID := make(map[uuid.UUID]*entity.Category, len(existingCategories))
	for _, c := range existingCategories {
		categoryByID[c.ID] = c
	}
	topicByID := make(map[uuid.UUID]*entity.Topic, len(existingTopics))
	for _, t := range existingTopics {
		topicByID[t.ID] = t
	}

	sets := buildIdentitySets(existingCategories, existingTopics)
	if err := s.resolver.Resolve(sets, flattened); err != nil {
		return nil, err
	}
	if err := validateReferences(flattened); err != nil {
		return nil, err
	}

	plan := &TreePlan{}
	resolvedCategoryIDs := make(map[string]uuid.UUID, len(flattened.Categories))

	for _, fc := range flattened.Categories {
		name, err := valueobject.NewNodeName(fc.Name)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", fc.Name, err)
		}

		var parentID *uuid.UUID
		if fc.ParentKey != nil {
			resolved := resolvedCategoryIDs[*fc.ParentKey]
			parentID = &resolved
		}

		switch s.resolver.ClassifyCategory(sets, fc.ID) {
		case NodeClassNew:
			category, err := entity.NewCategory(ownerID, subjectID, name, fc.Depth, parentID, fc.DisplayOrder)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", fc.Name, err)
			}
			resolvedCategoryIDs[fc.NodeKey] = category.ID
			plan.CategoryUpserts = append(plan.CategoryUpserts, CategoryUpsert{Category: category, IsNew: true})

		default:
			if fc.Depth > entity.MaxCategoryDepth {
				return nil, fmt.Errorf("category %q: %w", fc.Name, entity.ErrCategoryMaxDepthExceeded)
			}
			category := categoryByID[*fc.ID]
			category.Overwrite(name, fc.Depth, parentID, fc.DisplayOrder, now)
			resolvedCategoryIDs[fc.NodeKey] = category.ID
			plan.CategoryUpserts = append(plan.CategoryUpserts, CategoryUpsert{Category: category})
		}
	}

	for _, ft := range flattened.Topics {
		name, err := valueobject.NewNodeName(ft.Name)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", ft.Name, err)
		}
		difficulty, err := valueobject.NewDifficulty(ft.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", ft.Name, err)
		}
		categoryID := resolvedCategoryIDs[ft.CategoryKey]

		switch s.resolver.ClassifyTopic(sets, ft.ID) {
		case NodeClassNew:
			topic := entity.NewTopic(ownerID, categoryID, name, ft.Description, difficulty, ft.DisplayOrder)
			plan.TopicUpserts = append(plan.TopicUpserts, TopicUpsert{Topic: topic, IsNew: true})

		default:
			topic := topicByID[*ft.ID]
			topic.Overwrite(categoryID, name, ft.Description, difficulty, ft.DisplayOrder, now)
			plan.TopicUpserts = append(plan.TopicUpserts, TopicUpsert{Topic: topic})
		}
	}

	// 送信に含まれないアクティブな行を論理削除対象にする
	// 削除済みの行は言及がなければ何も書きません。
	submittedCategoryIDs := make(map[uuid.UUID]struct{}, len(flattened.Categories))
	for _, fc := range flattened.Categories {
		if fc.ID != nil {
			submittedCategoryIDs[*fc.ID] = struct{}{}
		}
	}
	for _, c := range existingCategories {
		if c.IsDeleted() {
			continue
		}
		if _, ok := submittedCategoryIDs[c.ID]; !ok {
			plan.CategoryDeleteIDs = append(plan.CategoryDeleteIDs, c.ID)
		}
	}

	submittedTopicIDs := make(map[uuid.UUID]struct{}, len(flattened.Topics))
	for _, ft := range flattened.Topics {
		if ft.ID != nil {
			submittedTopicIDs[*ft.ID] = struct{}{}
		}
	}
	for _, t := range existingTopics {
		if t.IsDeleted() {
			continue
		}
		if _, ok := submittedTopicIDs[t.ID]; !ok {
			plan.TopicDeleteIDs = append(plan.TopicDeleteIDs, t.ID)
		}
	}

	return plan, nil
}

// buildIdentitySets は既存行からID集合を構築します
func buildIdentitySets(categories []*entity.Category, topics []*entity.Topic) *IdentitySets {
	sets := &IdentitySets{
		ActiveCategories:  make(map[uuid.UUID]struct{}),
		DeletedCategories: make(map[uuid.UUID]struct{}),
		ActiveTopics:      make(map[uuid.UUID]struct{}),
		DeletedTopics:     make(map[uuid.UUID]struct{}),
	}
	for _, c := range categories {
		if c.IsDeleted() {
			sets.DeletedCategories[c.ID] = struct{}{}
		} else {
			sets.ActiveCategories[c.ID] = struct{}{}
		}
	}
	for _, t := range topics {
		if t.IsDeleted() {
			sets.DeletedTopics[t.ID] = struct{}{}
		} else {
			sets.ActiveTopics[t.ID] = struct{}{}
		}
	}
	return sets
}

// validateReferences は送信内の参照整合性を検証します
// 送信に含まれないキーを親・所属先として参照するノードは不正です。
func validateReferences(flattened *FlattenedSubmission) error {
	keys := flattened.CategoryKeySet()
	var dangling []string

	for _, c := range flattened.Categories {
		if c.ParentKey == nil {
			continue
		}
		if _, ok := keys[*c.ParentKey]; !ok {
			dangling = append(dangling, *c.ParentKey)
		}
	}
	for _, t := range flattened.Topics {
		if _, ok := keys[t.CategoryKey]; !ok {
			dangling = append(dangling, t.CategoryKey)
		}
	}

	if len(dangling) == 0 {
		return nil
	}
	return &InvalidNodeIDError{Refs: dedupRefs(dangling)}
}

func dedupRefs(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	var out []string
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}
