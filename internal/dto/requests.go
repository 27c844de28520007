package dto

// SignupRequest описывает тело POST /api/auth/signup.
// Телефон принимается как в поле phone, так и в устаревшем поле number.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required_without=Number"`
	Number   string `json:"number" binding:"required_without=Phone"`
	Password string `json:"password" binding:"required"`
}

// PhoneNumber возвращает phone, а при его отсутствии number.
func (r SignupRequest) PhoneNumber() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.Number
}

// VerifyOTPRequest описывает тело POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginRequest описывает тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
