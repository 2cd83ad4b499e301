package user

import (
	"fmt"
	"time"

	"github.com/yaoapp/kun/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/nirman-app/nirman/model"
)

// Accounts the account lookup the sign-in flows need
type Accounts interface {
	FindUserByEmail(email string) (model.User, error)
	FindOrCreateOAuthUser(email string, name string) (model.User, error)
	TouchLastLogin(userID string) error
}

// LoginResponse the payload both sign-in flows return on success
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt int64      `json:"expires_at"`
	Redirect  string     `json:"redirect"`
	User      model.User `json:"user"`
}

// PasswordSignIn authenticate an email and password pair. The error
// message is forwarded to the client as-is.
func PasswordSignIn(accounts Accounts, email string, password string) (*LoginResponse, error) {

	account, err := accounts.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if account.Password == "" {
		return nil, fmt.Errorf("account %s has no password, use the provider sign-in", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return login(accounts, account)
}

func login(accounts Accounts, account model.User) (*LoginResponse, error) {
	token, err := MakeToken(account.UserID, account.Name, account.Email, time.Hour)
	if err != nil {
		return nil, err
	}

	if err := accounts.TouchLastLogin(account.UserID); err != nil {
		log.Warn("Failed to update last login: %s", err.Error())
	}

	return &LoginResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Redirect:  "/dashboard",
		User:      account,
	}, nil
}
