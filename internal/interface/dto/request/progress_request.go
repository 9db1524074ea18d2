package request

// RecordProgressRequest は進捗記録リクエストを定義します
type RecordProgressRequest struct {
	Level int     `json:"level" validate:"gte=0,lte=3"`
	Note  *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}
