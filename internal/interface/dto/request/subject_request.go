package request

// CreateSubjectRequest は科目作成リクエストを定義します
type CreateSubjectRequest struct {
	Name         string  `json:"name" validate:"required,nodename"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

// UpdateSubjectRequest は科目更新リクエストを定義します
type UpdateSubjectRequest struct {
	Name        string  `json:"name" validate:"required,nodename"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
