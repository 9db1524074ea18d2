package valueobject

import "errors"

// Difficulty は論点の難易度を表す値オブジェクトです
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ErrInvalidDifficulty は不正な難易度エラーを表します
var ErrInvalidDifficulty = errors.New("difficulty must be one of: easy, normal, hard")

// NewDifficulty は文字列からDifficultyを作成します
// 空文字列はデフォルト値（normal）として扱います
func NewDifficulty(value string) (Difficulty, error) {
	switch value {
	case "":
		return DifficultyNormal, nil
	case string(DifficultyEasy), string(DifficultyNormal), string(DifficultyHard):
		return Difficulty(value), nil
	default:
		return "", ErrInvalidDifficulty
	}
}

// String は難易度の文字列表現を返します
func (d Difficulty) String() string {
	return string(d)
}
