// AngelaMos | 2026
// dto.go

package messaging

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid4"`
	Content     string `json:"content"      validate:"required,min=1,max=5000"`
}
