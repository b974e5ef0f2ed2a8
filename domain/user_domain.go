package domain

import (
	"errors"
	"fmt"
)

var (
	MessageSuccessRegister        = "user registered successfully"
	MessageSuccessLogin           = "login successful"
	MessageSuccessGetUsers        = "success get users"
	MessageSuccessGetUser         = "success get user"
	MessageSuccessUpdateAvatar    = "avatar updated successfully"
	MessageSuccessDeleteAvatar    = "avatar deleted successfully"
	MessageSuccessSubscribe       = "subscribed successfully"
	MessageSuccessUnsubscribe     = "unsubscribed successfully"
	MessageSuccessGetSubscription = "success get subscriptions"

	MessageFailedRegister        = "failed to register user"
	MessageFailedLogin           = "failed to login"
	MessageFailedGetUsers        = "failed to get users"
	MessageFailedGetUser         = "failed to get user"
	MessageFailedUpdateAvatar    = "failed to update avatar"
	MessageFailedDeleteAvatar    = "failed to delete avatar"
	MessageFailedSubscribe       = "failed to subscribe"
	MessageFailedUnsubscribe     = "failed to unsubscribe"
	MessageFailedGetSubscription = "failed to get subscriptions"

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	AvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	AvatarResponse struct {
		Avatar string `json:"avatar"`
	}

	User struct {
		ID           uint   `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Avatar       string `json:"avatar"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	Subscription struct {
		User
		Recipes      []ShortRecipe `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}

	SubscriptionListResponse struct {
		Subscriptions []Subscription `json:"subscriptions"`
		Pagination    Pagination     `json:"pagination"`
	}

	UserListResponse struct {
		Users      []User     `json:"users"`
		Pagination Pagination `json:"pagination"`
	}
)
