package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// CSVインポート関連エラー
var (
	ErrCSVInvalidHeader = errors.New("csv header must be exactly: category,topic")
)

// RowError はCSVの1行で発生したエラー
type RowError struct {
	Line    int
	Message string
}

// CSVGroup は分類名でまとめたインポート行
// 分類名の初出順、論点名の出現順を保持します。
type CSVGroup struct {
	CategoryName string
	TopicNames   []string
}

// CSVParseResult はCSV解析の結果
// 行単位のエラーは解析を止めず、Errorsに集約します。
type CSVParseResult struct {
	Groups []CSVGroup
	Errors []RowError
}

// CSVTreeImporter はCSVを同期用の送信ツリーに変換するドメインサービス
type CSVTreeImporter interface {
	// ParseTopicCSV はCSVを解析して分類ごとのグループにまとめます
	// ヘッダ不正と読み取り不能のみをエラーとして返します。
	ParseTopicCSV(r io.Reader) (*CSVParseResult, error)

	// Merge は解析結果を既存のアクティブツリーに重ねて送信ツリーを作ります
	// 既存ノードは全て保持されるため、同期経路に流しても削除は発生しません。
	Merge(groups []CSVGroup, tree *entity.SubjectTree) *SubmittedTree
}

// csvTreeImporterImpl はCSVTreeImporterの実装
type csvTreeImporterImpl struct{}

// NewCSVTreeImporter は新しいCSVTreeImporterを作成します
func NewCSVTreeImporter() CSVTreeImporter {
	return &csvTreeImporterImpl{}
}

// ParseTopicCSV はCSVを解析して分類ごとのグループにまとめます
func (s *csvTreeImporterImpl) ParseTopicCSV(r io.Reader) (*CSVParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrCSVInvalidHeader
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) != 2 || header[0] != "category" || header[1] != "topic" {
		return nil, ErrCSVInvalidHeader
	}

	result := &CSVParseResult{}
	groupIndex := make(map[string]int)
	seenPairs := make(map[string]struct{})

	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}
		if len(record) != 2 {
			result.Errors = append(result.Errors, RowError{
				Line:    line,
				Message: fmt.Sprintf("expected 2 columns, got %d", len(record)),
			})
			continue
		}

		categoryName, topicName := record[0], record[1]
		if categoryName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Message: "category name must not be empty"})
			continue
		}
		if topicName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Message: "topic name must not be empty"})
			continue
		}

		// 同一の分類・論点ペアの重複行は初出のみ採用する
		pair := categoryName + "\x00" + topicName
		if _, ok := seenPairs[pair]; ok {
			continue
		}
		seenPairs[pair] = struct{}{}

		idx, ok := groupIndex[categoryName]
		if !ok {
			idx = len(result.Groups)
			groupIndex[categoryName] = idx
			result.Groups = append(result.Groups, CSVGroup{CategoryName: categoryName})
		}
		result.Groups[idx].TopicNames = append(result.Groups[idx].TopicNames, topicName)
	}

	return result, nil
}

// Merge は解析結果を既存のアクティブツリーに重ねて送信ツリーを作ります
// 分類名・論点名の照合は大文字小文字を区別した完全一致です。
func (s *csvTreeImporterImpl) Merge(groups []CSVGroup, tree *entity.SubjectTree) *SubmittedTree {
	submitted := &SubmittedTree{}

	rootIndex := make(map[string]int)
	existingTopicNames := make(map[int]map[string]struct{})

	for _, branch := range tree.Branches {
		idx := len(submitted.Categories)
		submitted.Categories = append(submitted.Categories, submittedCategoryFromBranch(branch))

		// 初出の名前のみ照合対象（同名の大分類が複数ある場合は先勝ち）
		name := branch.Category.Name.String()
		if _, ok := rootIndex[name]; !ok {
			rootIndex[name] = idx
			names := make(map[string]struct{}, len(branch.Topics))
			for _, topic := range branch.Topics {
				names[topic.Name.String()] = struct{}{}
			}
			existingTopicNames[idx] = names
		}
	}

	for _, group := range groups {
		idx, ok := rootIndex[group.CategoryName]
		if !ok {
			idx = len(submitted.Categories)
			rootIndex[group.CategoryName] = idx
			submitted.Categories = append(submitted.Categories, SubmittedCategory{Name: group.CategoryName})
			existingTopicNames[idx] = make(map[string]struct{})
		}

		names := existingTopicNames[idx]
		for _, topicName := range group.TopicNames {
			if _, ok := names[topicName]; ok {
				continue
			}
			names[topicName] = struct{}{}
			submitted.Categories[idx].Topics = append(submitted.Categories[idx].Topics, SubmittedTopic{Name: topicName})
		}
	}

	return submitted
}

// submittedCategoryFromBranch はアクティブな分類ノードを送信形式に変換します
func submittedCategoryFromBranch(branch *entity.CategoryBranch) SubmittedCategory {
	id := branch.Category.ID
	c := SubmittedCategory{
		ID:   &id,
		Name: branch.Category.Name.String(),
	}
	for _, child := range branch.Children {
		c.Children = append(c.Children, submittedCategoryFromBranch(child))
	}
	for _, topic := range branch.Topics {
		topicID := topic.ID
		var description *string
		if topic.Description != nil {
			d := *topic.Description
			description = &d
		}
		c.Topics = append(c.Topics, SubmittedTopic{
			ID:          &topicID,
			Name:        topic.Name.String(),
			Description: description,
			Difficulty:  topic.Difficulty.String(),
		})
	}
	return c
}
