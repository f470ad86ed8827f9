package dto

type ImageUploadDTO struct {
	URL string `json:"url"`
}
