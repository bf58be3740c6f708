// AngelaMos | 2026
// dto.go

package topic

type CreateTopicRequest struct {
	Title      string `json:"title"       validate:"required,min=3,max=200"`
	Content    string `json:"content"     validate:"required,min=1,max=20000"`
	CategoryID string `json:"category_id" validate:"required,uuid4"`
}

type UpdateTopicRequest struct {
	Title      *string `json:"title,omitempty"       validate:"omitempty,min=3,max=200"`
	Content    *string `json:"content,omitempty"     validate:"omitempty,min=1,max=20000"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
}

type LockTopicRequest struct {
	Locked bool `json:"locked"`
}

type BestReplyRequest struct {
	ReplyID string `json:"reply_id" validate:"required,uuid4"`
}

type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=20000"`
}

type UpdateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=20000"`
}

type ReactionRequest struct {
	Value string `json:"value" validate:"required,oneof=up down"`
}

// ReactionResponse reports the state after a toggle. Removed is true when
// the toggle deleted an existing vote; Value is empty in that case.
type ReactionResponse struct {
	ReplyID string `json:"reply_id"`
	Value   string `json:"value,omitempty"`
	Removed bool   `json:"removed"`
}

type ListTopicsParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *ListTopicsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListTopicsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
