package dto

type BlockTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
