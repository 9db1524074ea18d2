package entity

import (
	"sort"

	"github.com/google/uuid"
)

// SubjectTree は科目配下の分類・論点ツリーの読み取りモデル
// アクティブな行のみを含み、表示順でソート済みです。
type SubjectTree struct {
	Subject  *Subject
	Branches []*CategoryBranch
}

// CategoryBranch はツリー上の分類ノード
type CategoryBranch struct {
	Category *Category
	Children []*CategoryBranch
	Topics   []*Topic
}

// AssembleSubjectTree はフラットな行の集合からツリーを組み立てます
// 入力には論理削除済みの行を含めないでください。親が存在しない分類、
// 分類が存在しない論点は結果から除外されます（DB上の不整合に対する防御）。
func AssembleSubjectTree(subject *Subject, categories []*Category, topics []*Topic) *SubjectTree {
	branches := make(map[uuid.UUID]*CategoryBranch, len(categories))
	for _, c := range categories {
		branches[c.ID] = &CategoryBranch{Category: c}
	}

	var roots []*CategoryBranch
	for _, c := range categories {
		branch := branches[c.ID]
		if c.IsRoot() {
			roots = append(roots, branch)
			continue
		}
		if c.ParentID == nil {
			continue
		}
		parent, ok := branches[*c.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, branch)
	}

	for _, t := range topics {
		branch, ok := branches[t.CategoryID]
		if !ok {
			continue
		}
		branch.Topics = append(branch.Topics, t)
	}

	sortBranches(roots)
	for _, b := range branches {
		sortBranches(b.Children)
		sort.SliceStable(b.Topics, func(i, j int) bool {
			return b.Topics[i].DisplayOrder < b.Topics[j].DisplayOrder
		})
	}

	return &SubjectTree{
		Subject:  subject,
		Branches: roots,
	}
}

func sortBranches(branches []*CategoryBranch) {
	sort.SliceStable(branches, func(i, j int) bool {
		return branches[i].Category.DisplayOrder < branches[j].Category.DisplayOrder
	})
}

// CountCategories はツリー内の分類数を返します
func (t *SubjectTree) CountCategories() int {
	count := 0
	var walk func([]*CategoryBranch)
	walk = func(branches []*CategoryBranch) {
		for _, b := range branches {
			count++
			walk(b.Children)
		}
	}
	walk(t.Branches)
	return count
}

// CountTopics はツリー内の論点数を返します
func (t *SubjectTree) CountTopics() int {
	count := 0
	var walk func([]*CategoryBranch)
	walk = func(branches []*CategoryBranch) {
		for _, b := range branches {
			count += len(b.Topics)
			walk(b.Children)
		}
	}
	walk(t.Branches)
	return count
}
