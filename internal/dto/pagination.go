package dto

// Page is the paginated list envelope used across list endpoints.
type Page struct {
	Data        interface{} `json:"data"`
	TotalItems  int64       `json:"totalItems"`
	TotalPages  int64       `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

func NewPage(data interface{}, total int64, page, limit int) *Page {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &Page{
		Data:        data,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
