package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// treeCacheKey はツリーキャッシュのRedisキーを返します
func treeCacheKey(subjectID uuid.UUID) string {
	return fmt.Sprintf("tree:subject:%s", subjectID)
}

// subjectSnapshot はRedisに保存するツリーデータを表します（内部用）
type subjectSnapshot struct {
	ID           uuid.UUID        `json:"id"`
	OwnerID      uuid.UUID        `json:"owner_id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	DisplayOrder int              `json:"display_order"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Branches     []branchSnapshot `json:"branches,omitempty"`
}

type branchSnapshot struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Depth        int              `json:"depth"`
	ParentID     *uuid.UUID       `json:"parent_id,omitempty"`
	DisplayOrder int              `json:"display_order"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Children     []branchSnapshot `json:"children,omitempty"`
	Topics       []topicSnapshot  `json:"topics,omitempty"`
}

type topicSnapshot struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Difficulty   string    `json:"difficulty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TreeCache はツリー読み取りモデルのRedisキャッシュです
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repository.TreeSnapshotCache = (*TreeCache)(nil)

// NewTreeCache は新しいTreeCacheを作成します
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	return &TreeCache{
		client: client,
		ttl:    ttl,
	}
}

// Get はキャッシュ済みツリーを返します（未キャッシュならnil, nil）
func (c *TreeCache) Get(ctx context.Context, subjectID uuid.UUID) (*entity.SubjectTree, error) {
	data, err := c.client.Get(ctx, treeCacheKey(subjectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tree cache: %w", err)
	}

	var snapshot subjectSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree cache: %w", err)
	}

	tree, err := snapshot.toEntity()
	if err != nil {
		// 壊れたキャッシュはミス扱いにして破棄する
		_ = c.client.Del(ctx, treeCacheKey(subjectID)).Err()
		return nil, nil
	}

	return tree, nil
}

// Set はツリーをキャッシュします
func (c *TreeCache) Set(ctx context.Context, tree *entity.SubjectTree) error {
	data, err := json.Marshal(toSubjectSnapshot(tree))
	if err != nil {
		return fmt.Errorf("failed to marshal tree cache: %w", err)
	}

	if err := c.client.Set(ctx, treeCacheKey(tree.Subject.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set tree cache: %w", err)
	}

	return nil
}

// Invalidate は科目のキャッシュを破棄します
func (c *TreeCache) Invalidate(ctx context.Context, subjectID uuid.UUID) error {
	if err := c.client.Del(ctx, treeCacheKey(subjectID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tree cache: %w", err)
	}
	return nil
}

// toSubjectSnapshot はentity.SubjectTreeをスナップショットに変換します
func toSubjectSnapshot(tree *entity.SubjectTree) *subjectSnapshot {
	snapshot := &subjectSnapshot{
		ID:           tree.Subject.ID,
		OwnerID:      tree.Subject.OwnerID,
		Name:         tree.Subject.Name.String(),
		Description:  tree.Subject.Description,
		DisplayOrder: tree.Subject.DisplayOrder,
		CreatedAt:    tree.Subject.CreatedAt,
		UpdatedAt:    tree.Subject.UpdatedAt,
	}
	for _, branch := range tree.Branches {
		snapshot.Branches = append(snapshot.Branches, toBranchSnapshot(branch))
	}
	return snapshot
}

func toBranchSnapshot(branch *entity.CategoryBranch) branchSnapshot {
	s := branchSnapshot{
		ID:           branch.Category.ID,
		Name:         branch.Category.Name.String(),
		Depth:        branch.Category.Depth,
		ParentID:     branch.Category.ParentID,
		DisplayOrder: branch.Category.DisplayOrder,
		CreatedAt:    branch.Category.CreatedAt,
		UpdatedAt:    branch.Category.UpdatedAt,
	}
	for _, child := range branch.Children {
		s.Children = append(s.Children, toBranchSnapshot(child))
	}
	for _, topic := range branch.Topics {
		s.Topics = append(s.Topics, topicSnapshot{
			ID:           topic.ID,
			Name:         topic.Name.String(),
			Description:  topic.Description,
			Difficulty:   topic.Difficulty.String(),
			DisplayOrder: topic.DisplayOrder,
			CreatedAt:    topic.CreatedAt,
			UpdatedAt:    topic.UpdatedAt,
		})
	}
	return s
}

// toEntity はスナップショットからentity.SubjectTreeを復元します
func (s *subjectSnapshot) toEntity() (*entity.SubjectTree, error) {
	name, err := valueobject.NewNodeName(s.Name)
	if err != nil {
		return nil, err
	}
	subject := entity.ReconstructSubject(
		s.ID, s.OwnerID, name, s.Description, s.DisplayOrder, s.CreatedAt, s.UpdatedAt, nil,
	)

	tree := &entity.SubjectTree{Subject: subject}
	for _, branch := range s.Branches {
		b, err := branch.toEntity(s.OwnerID, s.ID)
		if err != nil {
			return nil, err
		}
		tree.Branches = append(tree.Branches, b)
	}
	return tree, nil
}

func (s *branchSnapshot) toEntity(ownerID, subjectID uuid.UUID) (*entity.CategoryBranch, error) {
	name, err := valueobject.NewNodeName(s.Name)
	if err != nil {
		return nil, err
	}
	branch := &entity.CategoryBranch{
		Category: entity.ReconstructCategory(
			s.ID, ownerID, subjectID, name, s.Depth, s.ParentID, s.DisplayOrder, s.CreatedAt, s.UpdatedAt, nil,
		),
	}

	for _, child := range s.Children {
		b, err := child.toEntity(ownerID, subjectID)
		if err != nil {
			return nil, err
		}
		branch.Children = append(branch.Children, b)
	}

	for _, topic := range s.Topics {
		topicName, err := valueobject.NewNodeName(topic.Name)
		if err != nil {
			return nil, err
		}
		difficulty, err := valueobject.NewDifficulty(topic.Difficulty)
		if err != nil {
			return nil, err
		}
		branch.Topics = append(branch.Topics, entity.ReconstructTopic(
			topic.ID, ownerID, s.ID, topicName, topic.Description,
			difficulty, topic.DisplayOrder, topic.CreatedAt, topic.UpdatedAt, nil,
		))
	}

	return branch, nil
}
