package service

import (
	"fmt"

	"github.com/google/uuid"
)

// SubmittedTree は同期リクエストで送信されるツリー全体
// 既存ノードはIDを持ち、新規ノードはIDがnilです。
type SubmittedTree struct {
	Categories []SubmittedCategory
}

// SubmittedCategory は送信された分類ノード
// DisplayOrderがnilなら配列内の出現位置から採番します。
type SubmittedCategory struct {
	ID           *uuid.UUID
	Name         string
	DisplayOrder *int
	Children     []SubmittedCategory
	Topics       []SubmittedTopic
}

// SubmittedTopic は送信された論点ノード
type SubmittedTopic struct {
	ID           *uuid.UUID
	Name         string
	Description  *string
	Difficulty   string
	DisplayOrder *int
}

// FlatCategory はフラット化された分類
// NodeKeyは既存ノードならUUID文字列、新規ノードなら出現順の
// プレースホルダ（"#0", "#1", ...）です。
type FlatCategory struct {
	NodeKey      string
	ID           *uuid.UUID
	Name         string
	Depth        int
	ParentKey    *string
	DisplayOrder int
}

// FlatTopic はフラット化された論点
type FlatTopic struct {
	NodeKey      string
	ID           *uuid.UUID
	Name         string
	Description  *string
	Difficulty   string
	CategoryKey  string
	DisplayOrder int
}

// FlattenedSubmission は送信ツリーのフラット表現
// 分類は親が子より先に現れる順（行きがけ順）で並びます。
type FlattenedSubmission struct {
	Categories []FlatCategory
	Topics     []FlatTopic
}

// CategoryKeySet は送信に含まれる分類キーの集合を返します
func (f *FlattenedSubmission) CategoryKeySet() map[string]struct{} {
	keys := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		keys[c.NodeKey] = struct{}{}
	}
	return keys
}

// Flatten は入れ子のSubmittedTreeをフラット表現に変換します
// 表示順は明示指定があればその値、なければ各階層内の出現順から採番します。
func Flatten(tree *SubmittedTree) *FlattenedSubmission {
	flattened := &FlattenedSubmission{}
	placeholderSeq := 0

	nodeKey := func(id *uuid.UUID) string {
		if id != nil {
			return id.String()
		}
		key := fmt.Sprintf("#%d", placeholderSeq)
		placeholderSeq++
		return key
	}

	displayOrder := func(explicit *int, position int) int {
		if explicit != nil {
			return *explicit
		}
		return position + 1
	}

	var walk func(categories []SubmittedCategory, depth int, parentKey *string)
	walk = func(categories []SubmittedCategory, depth int, parentKey *string) {
		for order, c := range categories {
			key := nodeKey(c.ID)
			flattened.Categories = append(flattened.Categories, FlatCategory{
				NodeKey:      key,
				ID:           c.ID,
				Name:         c.Name,
				Depth:        depth,
				ParentKey:    parentKey,
				DisplayOrder: displayOrder(c.DisplayOrder, order),
			})

			for topicOrder, t := range c.Topics {
				flattened.Topics = append(flattened.Topics, FlatTopic{
					NodeKey:      nodeKey(t.ID),
					ID:           t.ID,
					Name:         t.Name,
					Description:  t.Description,
					Difficulty:   t.Difficulty,
					CategoryKey:  key,
					DisplayOrder: displayOrder(t.DisplayOrder, topicOrder),
				})
			}

			walk(c.Children, depth+1, &key)
		}
	}
	walk(tree.Categories, 0, nil)

	return flattened
}
