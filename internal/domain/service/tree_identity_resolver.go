package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NodeClass は送信ノードの識別子分類
type NodeClass int

const (
	// NodeClassNew はIDを持たない新規ノード
	NodeClassNew NodeClass = iota
	// NodeClassExistingActive はアクティブな既存行に一致
	NodeClassExistingActive
	// NodeClassExistingDeleted は論理削除済みの既存行に一致（復活対象）
	NodeClassExistingDeleted
	// NodeClassInvalid はどの行にも一致しない不正なID
	NodeClassInvalid
)

// InvalidNodeIDError は科目内に存在しないIDを参照した送信を表します
// 1リクエスト内の不正IDを全て集約して返します。
type InvalidNodeIDError struct {
	Refs []string
}

func (e *InvalidNodeIDError) Error() string {
	return fmt.Sprintf("submitted node ids not found in subject: %s", strings.Join(e.Refs, ", "))
}

// IdentitySets は識別子解決に使うID集合（アクティブ・削除済み別、種類別）
type IdentitySets struct {
	ActiveCategories  map[uuid.UUID]struct{}
	DeletedCategories map[uuid.UUID]struct{}
	ActiveTopics      map[uuid.UUID]struct{}
	DeletedTopics     map[uuid.UUID]struct{}
}

// IdentityResolver は送信ノードの識別子を既存行と突き合わせるドメインサービス
// IDの照合は種類単位で行います。分類のIDを論点が名乗った場合は不正です。
type IdentityResolver interface {
	// ClassifyCategory は分類ノードのIDを分類します
	ClassifyCategory(sets *IdentitySets, id *uuid.UUID) NodeClass

	// ClassifyTopic は論点ノードのIDを分類します
	ClassifyTopic(sets *IdentitySets, id *uuid.UUID) NodeClass

	// Resolve は送信全体の識別子を解決し、不正IDがあれば集約エラーを返します
	Resolve(sets *IdentitySets, flattened *FlattenedSubmission) error
}

// identityResolverImpl はIdentityResolverの実装
type identityResolverImpl struct{}

// NewIdentityResolver は新しいIdentityResolverを作成します
func NewIdentityResolver() IdentityResolver {
	return &identityResolverImpl{}
}

// ClassifyCategory は分類ノードのIDを分類します
func (r *identityResolverImpl) ClassifyCategory(sets *IdentitySets, id *uuid.UUID) NodeClass {
	return classify(sets.ActiveCategories, sets.DeletedCategories, id)
}

// ClassifyTopic は論点ノードのIDを分類します
func (r *identityResolverImpl) ClassifyTopic(sets *IdentitySets, id *uuid.UUID) NodeClass {
	return classify(sets.ActiveTopics, sets.DeletedTopics, id)
}

func classify(active, deleted map[uuid.UUID]struct{}, id *uuid.UUID) NodeClass {
	if id == nil {
		return NodeClassNew
	}
	if _, ok := active[*id]; ok {
		return NodeClassExistingActive
	}
	if _, ok := deleted[*id]; ok {
		return NodeClassExistingDeleted
	}
	return NodeClassInvalid
}

// Resolve は送信全体の識別子を解決し、不正IDがあれば集約エラーを返します
func (r *identityResolverImpl) Resolve(sets *IdentitySets, flattened *FlattenedSubmission) error {
	invalid := make(map[string]struct{})

	for _, c := range flattened.Categories {
		if r.ClassifyCategory(sets, c.ID) == NodeClassInvalid {
			invalid[c.ID.String()] = struct{}{}
		}
	}
	for _, t := range flattened.Topics {
		if r.ClassifyTopic(sets, t.ID) == NodeClassInvalid {
			invalid[t.ID.String()] = struct{}{}
		}
	}

	if len(invalid) == 0 {
		return nil
	}

	refs := make([]string, 0, len(invalid))
	for ref := range invalid {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return &InvalidNodeIDError{Refs: refs}
}
