// AngelaMos | 2026
// dto.go

package category

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPrivate   bool   `json:"is_private"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}

type LockRequest struct {
	Locked bool `json:"locked"`
}

type PrivacyRequest struct {
	Private bool `json:"private"`
}

type GrantRequest struct {
	UserID      string `json:"user_id"      validate:"required,uuid4"`
	AccessLevel string `json:"access_level" validate:"required,oneof=read write"`
}
