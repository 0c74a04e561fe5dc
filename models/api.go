package models

// API responses are flat JSON objects: the payload fields plus
// "success": true on the happy path, or {"error": "..."} with a
// 4xx/5xx status on failure.

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body for operations with no payload
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Pagination carries offset-style paging metadata. Page/pageSize are
// accepted on list endpoints but paging is applied over the already
// fetched page, not via store cursors.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}
