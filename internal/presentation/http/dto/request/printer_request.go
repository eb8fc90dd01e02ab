package request

// ReprintRequest names a stored sale record to print again.
type ReprintRequest struct {
	Name string `json:"name" binding:"required"`
}
