package dto

// Envelope is the success response shape shared by every resource endpoint.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	// Code is a stable machine-readable classification, e.g. "invalid_transition".
	Code string `json:"code,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// ListParams are the query parameters accepted by list endpoints.
type ListParams struct {
	Status    string `form:"status"`
	Limit     int    `form:"limit,default=50" binding:"min=0,max=200"`
	NextToken string `form:"nextToken"`
	// Match holds equality filters on reference fields, e.g. customer_id.
	Match map[string]string `form:"-"`
}

// ListResponse is one page of a listing.
type ListResponse[T any] struct {
	Items     []T    `json:"items"`
	NextToken string `json:"nextToken,omitempty"`
}
