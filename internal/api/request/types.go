package request

// UpdateProfileRequest is the request body for upserting a player profile
type UpdateProfileRequest struct {
	Username string `json:"username"`
}
