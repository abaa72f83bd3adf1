package request

// StaffLoginRequest represents a register operator login request
type StaffLoginRequest struct {
	StaffCode string `json:"staff_code" binding:"required,len=6"`
	Password  string `json:"password" binding:"required,min=6"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
