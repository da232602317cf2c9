package models

// RecordFilter represents filter parameters for listing records
type RecordFilter struct {
	Tag      string `form:"tag"`      // element tag or ALL
	Since    int64  `form:"since"`    // Unix timestamp
	Until    int64  `form:"until"`    // Unix timestamp
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// RecordsResponse represents a paginated response of records
type RecordsResponse struct {
	Data       []Record `json:"data"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}
