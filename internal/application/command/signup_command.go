package command

import "board-service/internal/application/common"

type SignupCommand struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	SignupToken string `json:"signup_token"`
}

// AuthResult is returned by both signup and login.
type AuthResult struct {
	Token string             `json:"token"`
	User  *common.UserResult `json:"user"`
}
