package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/p10-paddock/internal/models"
)

// Login exchanges credentials for a token and the user's profile. The token is not
// stored; the caller hands it to the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	var payload models.AuthPayload
	err := c.Do(ctx, opLoginUser, map[string]interface{}{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := c.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var user models.User
	err := c.Do(ctx, opCreateUser, map[string]interface{}{
		"email":     input.Email,
		"firstname": input.Firstname,
		"lastname":  input.Lastname,
		"password":  input.Password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the authenticated user's profile
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user *models.User
	if err := c.Do(ctx, opGetMe, nil, &user); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("getMe: %w", models.ErrNotFound)
	}
	return user, nil
}

// UpdateProfile changes the non-empty fields of update
func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if update.Password != "" && len(update.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	vars := map[string]interface{}{}
	if update.Firstname != "" {
		vars["firstname"] = update.Firstname
	}
	if update.Lastname != "" {
		vars["lastname"] = update.Lastname
	}
	if update.Password != "" {
		vars["password"] = update.Password
	}

	var user models.User
	if err := c.Do(ctx, opUpdateUser, vars, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount deletes the authenticated user's account
func (c *Client) DeleteAccount(ctx context.Context) error {
	var deleted interface{}
	return c.Do(ctx, opDeleteUser, nil, &deleted)
}
