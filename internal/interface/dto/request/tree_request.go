package request

import (
	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
)

// SyncTreeRequest はツリー同期リクエストを定義します
// IDのないノードは新規作成、IDのあるノードは既存行の上書きです。
type SyncTreeRequest struct {
	Categories []SyncCategoryNode `json:"categories" validate:"dive"`
}

// SyncCategoryNode は送信される分類ノードを定義します
// displayOrderを省略した場合は配列内の位置から採番されます。
type SyncCategoryNode struct {
	ID           *string            `json:"id,omitempty" validate:"omitempty,uuid"`
	Name         string             `json:"name" validate:"required,nodename"`
	DisplayOrder *int               `json:"displayOrder,omitempty" validate:"omitempty,gte=0"`
	Children     []SyncCategoryNode `json:"subcategories,omitempty" validate:"dive"`
	Topics       []SyncTopicNode    `json:"topics,omitempty" validate:"dive"`
}

// SyncTopicNode は送信される論点ノードを定義します
type SyncTopicNode struct {
	ID           *string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"required,nodename"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Difficulty   string  `json:"difficulty,omitempty" validate:"omitempty,oneof=easy normal hard"`
	DisplayOrder *int    `json:"displayOrder,omitempty" validate:"omitempty,gte=0"`
}

// ToSubmittedTree はリクエストをドメインの送信ツリーに変換します
// IDのUUID形式はバリデーション済みの前提です。
func (r *SyncTreeRequest) ToSubmittedTree() (*service.SubmittedTree, error) {
	categories, err := toSubmittedCategories(r.Categories)
	if err != nil {
		return nil, err
	}
	return &service.SubmittedTree{Categories: categories}, nil
}

func toSubmittedCategories(nodes []SyncCategoryNode) ([]service.SubmittedCategory, error) {
	var categories []service.SubmittedCategory
	for _, node := range nodes {
		id, err := parseOptionalUUID(node.ID)
		if err != nil {
			return nil, err
		}
		children, err := toSubmittedCategories(node.Children)
		if err != nil {
			return nil, err
		}

		var topics []service.SubmittedTopic
		for _, topicNode := range node.Topics {
			topicID, err := parseOptionalUUID(topicNode.ID)
			if err != nil {
				return nil, err
			}
			topics = append(topics, service.SubmittedTopic{
				ID:           topicID,
				Name:         topicNode.Name,
				Description:  topicNode.Description,
				Difficulty:   topicNode.Difficulty,
				DisplayOrder: topicNode.DisplayOrder,
			})
		}

		categories = append(categories, service.SubmittedCategory{
			ID:           id,
			Name:         node.Name,
			DisplayOrder: node.DisplayOrder,
			Children:     children,
			Topics:       topics,
		})
	}
	return categories, nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
