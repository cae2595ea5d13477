package dto

// CreatePageRequest represents the request to create a wiki page
type CreatePageRequest struct {
	Title    string  `json:"title" binding:"required,max=500" example:"Architecture"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

// UpdatePageRequest represents the request to update a wiki page
// @Description parentId may be null to move the page to the top level
type UpdatePageRequest struct {
	Title    *string          `json:"title" binding:"omitempty,max=500"`
	Content  *string          `json:"content"`
	ParentID Nullable[string] `json:"parentId" swaggertype:"string"`
}
