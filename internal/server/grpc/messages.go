package grpc

import "time"

type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type RegisterResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type StatsRequest struct{}

type StatsResponse struct {
	TotalRegularUsers int64  `json:"total_regular_users"`
	UsersLast24h      int64  `json:"users_last_24h"`
	UsersLastWeek     int64  `json:"users_last_week"`
	Status            string `json:"status"`
}
