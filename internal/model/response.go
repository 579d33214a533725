package model

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type DeleteResult struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

type ClearResult struct {
	Deleted bool `json:"deleted"`
	Count   int  `json:"count"`
}
