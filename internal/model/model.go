package model

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	PastorID int    `json:"pastor_id"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type SessionUser struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

type CompletionRequest struct {
	ContentUnitID  int    `json:"content_unit_id" binding:"required"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Reflection     string `json:"reflection"`
	Application    string `json:"application"`
}

type SendMessageRequest struct {
	ToUserID int    `json:"to_user_id" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

type ValidateRequest struct {
	OriginalText string `json:"original_text" binding:"required"`
	UserText     string `json:"user_text" binding:"required"`
	Reference    string `json:"reference"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}
