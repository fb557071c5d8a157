package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterRequest describes account creation payload.
type RegisterRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileResponse is the signed in user's account and XP standing.
type ProfileResponse struct {
	ID                  int64  `json:"id"`
	Login               string `json:"login"`
	Email               string `json:"email,omitempty"`
	Role                string `json:"role"`
	XP                  int64  `json:"xp"`
	Level               int64  `json:"level"`
	NextLevelAt         int64  `json:"next_level_at"`
	UnreadNotifications int64  `json:"unread_notifications"`
}
