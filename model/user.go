package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/yaoapp/xun/dbal/schema"
	"golang.org/x/crypto/bcrypt"
)

// User a dashboard account
type User struct {
	UserID   string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
	Status   string `json:"status"`
}

func (store *Store) initUserTable() error {
	table := store.userTable()
	has, err := store.schema.HasTable(table)
	if err != nil {
		return err
	}

	if !has {
		err = store.schema.CreateTable(table, func(table schema.Blueprint) {
			table.ID("id")
			table.String("user_id", 200).Unique().Index()
			table.String("name", 200)
			table.String("email", 320).Unique().Index()
			table.String("password", 256).Null()
			table.String("status", 50).Index()
			table.TimestampTz("created_at").Null()
			table.TimestampTz("last_login_at").Null()
		})
		if err != nil {
			return err
		}
	}

	return store.validateColumns(table, []string{"id", "user_id", "name", "email", "password", "status"})
}

// FindUserByEmail look up an enabled user by email
func (store *Store) FindUserByEmail(email string) (User, error) {
	row, err := store.newQuery(store.userTable()).
		Select("user_id", "name", "email", "password", "status").
		Where("email", email).
		Where("status", "enabled").
		First()
	if err != nil {
		return User{}, err
	}

	if row.Get("user_id") == nil {
		return User{}, fmt.Errorf("user %s does not exist", email)
	}

	return User{
		UserID:   cast.ToString(row.Get("user_id")),
		Name:     cast.ToString(row.Get("name")),
		Email:    cast.ToString(row.Get("email")),
		Password: cast.ToString(row.Get("password")),
		Status:   cast.ToString(row.Get("status")),
	}, nil
}

// CreateUser register an account with a bcrypt-hashed password
func (store *Store) CreateUser(name string, email string, password string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("user email is required")
	}

	hash := ""
	if password != "" {
		bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		hash = string(bytes)
	}

	userID := uuid.New().String()
	err := store.newQuery(store.userTable()).Insert(map[string]interface{}{
		"user_id":    userID,
		"name":       name,
		"email":      email,
		"password":   hash,
		"status":     "enabled",
		"created_at": time.Now(),
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

// FindOrCreateOAuthUser the auto-register path of the OAuth sign-in.
// Accounts created this way carry no password and can only sign in
// through the provider.
func (store *Store) FindOrCreateOAuthUser(email string, name string) (User, error) {
	user, err := store.FindUserByEmail(email)
	if err == nil {
		return user, nil
	}

	if _, err := store.CreateUser(name, email, ""); err != nil {
		return User{}, err
	}
	return store.FindUserByEmail(email)
}

// TouchLastLogin record the last successful sign-in time
func (store *Store) TouchLastLogin(userID string) error {
	_, err := store.newQuery(store.userTable()).
		Where("user_id", userID).
		Update(map[string]interface{}{"last_login_at": time.Now()})
	return err
}
