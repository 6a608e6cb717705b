package model

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateTaskRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateTaskRequest carries optional fields; nil means "leave unchanged".
type UpdateTaskRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
