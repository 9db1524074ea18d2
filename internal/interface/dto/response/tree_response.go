package response

import (
	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// TreeResponse はツリーレスポンスを定義します
type TreeResponse struct {
	Subject    SubjectResponse    `json:"subject"`
	Categories []CategoryResponse `json:"categories"`
}

// CategoryResponse は分類ノードレスポンスを定義します
type CategoryResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Depth        int                `json:"depth"`
	DisplayOrder int                `json:"display_order"`
	Children     []CategoryResponse `json:"subcategories"`
	Topics       []TopicResponse    `json:"topics"`
}

// TopicResponse は論点ノードレスポンスを定義します
type TopicResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Difficulty   string    `json:"difficulty"`
	DisplayOrder int       `json:"display_order"`
}

// ToTreeResponse はentity.SubjectTreeをレスポンスに変換します
func ToTreeResponse(tree *entity.SubjectTree) TreeResponse {
	categories := make([]CategoryResponse, 0, len(tree.Branches))
	for _, branch := range tree.Branches {
		categories = append(categories, toCategoryResponse(branch))
	}
	return TreeResponse{
		Subject:    ToSubjectResponse(tree.Subject),
		Categories: categories,
	}
}

func toCategoryResponse(branch *entity.CategoryBranch) CategoryResponse {
	children := make([]CategoryResponse, 0, len(branch.Children))
	for _, child := range branch.Children {
		children = append(children, toCategoryResponse(child))
	}

	topics := make([]TopicResponse, 0, len(branch.Topics))
	for _, topic := range branch.Topics {
		topics = append(topics, TopicResponse{
			ID:           topic.ID,
			Name:         topic.Name.String(),
			Description:  topic.Description,
			Difficulty:   topic.Difficulty.String(),
			DisplayOrder: topic.DisplayOrder,
		})
	}

	return CategoryResponse{
		ID:           branch.Category.ID,
		Name:         branch.Category.Name.String(),
		Depth:        branch.Category.Depth,
		DisplayOrder: branch.Category.DisplayOrder,
		Children:     children,
		Topics:       topics,
	}
}
