package dto

// ProfileResponseDTO is returned by the profile endpoint.
type ProfileResponseDTO struct {
	Plan      string `json:"plan"`
	BlogCount int    `json:"blogCount"`
	MaxBlogs  int    `json:"maxBlogs"`
}
