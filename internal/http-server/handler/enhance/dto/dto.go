package dto

type EnhanceRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
