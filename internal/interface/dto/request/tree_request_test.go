package request_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/request"
)

func TestSyncTreeRequest_UnmarshalJSON_NestedSubcategories(t *testing.T) {
	categoryID := uuid.New()
	body := `{
		"categories": [
			{
				"id": "` + categoryID.String() + `",
				"name": "簿記",
				"subcategories": [
					{
						"name": "一般商品売買",
						"topics": [{"name": "三分法", "difficulty": "normal"}]
					}
				]
			}
		]
	}`

	var req request.SyncTreeRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.Len(t, req.Categories, 1)
	require.Len(t, req.Categories[0].Children, 1)
	assert.Equal(t, "一般商品売買", req.Categories[0].Children[0].Name)

	tree, err := req.ToSubmittedTree()
	require.NoError(t, err)
	require.Len(t, tree.Categories, 1)
	require.NotNil(t, tree.Categories[0].ID)
	assert.Equal(t, categoryID, *tree.Categories[0].ID)
	require.Len(t, tree.Categories[0].Children, 1)
	require.Len(t, tree.Categories[0].Children[0].Topics, 1)
	assert.Equal(t, "三分法", tree.Categories[0].Children[0].Topics[0].Name)
}
