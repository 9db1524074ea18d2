package valueobject

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ノード名関連の定数
const (
	MaxNodeNameLength = 255
)

// ノード名関連エラー
var (
	ErrNodeNameEmpty   = errors.New("node name must not be empty")
	ErrNodeNameTooLong = errors.New("node name must be 255 characters or less")
)

// NodeName は科目・分類・論点の名称を表す値オブジェクトです
// CSVインポートの名前照合は大文字小文字を区別した完全一致で行うため、
// 値の正規化（トリム等）は行いません。
type NodeName struct {
	value string
}

// NewNodeName は新しいNodeNameを作成します
func NewNodeName(value string) (NodeName, error) {
	if strings.TrimSpace(value) == "" {
		return NodeName{}, ErrNodeNameEmpty
	}
	if utf8.RuneCountInString(value) > MaxNodeNameLength {
		return NodeName{}, ErrNodeNameTooLong
	}
	return NodeName{value: value}, nil
}

// String は名称の文字列表現を返します
func (n NodeName) String() string {
	return n.value
}

// Equals は名称が完全一致するかどうかを判定します
func (n NodeName) Equals(other NodeName) bool {
	return n.value == other.value
}
