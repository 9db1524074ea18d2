package valueobject

import "errors"

// UnderstandingLevel は論点の理解度を表す値オブジェクトです
type UnderstandingLevel int

const (
	UnderstandingNotStarted UnderstandingLevel = 0
	UnderstandingLearning   UnderstandingLevel = 1
	UnderstandingReviewing  UnderstandingLevel = 2
	UnderstandingMastered   UnderstandingLevel = 3
)

// ErrInvalidUnderstandingLevel は不正な理解度エラーを表します
var ErrInvalidUnderstandingLevel = errors.New("understanding level must be between 0 and 3")

// NewUnderstandingLevel は整数からUnderstandingLevelを作成します
func NewUnderstandingLevel(value int) (UnderstandingLevel, error) {
	if value < int(UnderstandingNotStarted) || value > int(UnderstandingMastered) {
		return 0, ErrInvalidUnderstandingLevel
	}
	return UnderstandingLevel(value), nil
}

// Int は理解度の整数表現を返します
func (l UnderstandingLevel) Int() int {
	return int(l)
}

// IsMastered は習得済みかどうかを判定します
func (l UnderstandingLevel) IsMastered() bool {
	return l == UnderstandingMastered
}
