package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// Authentication failures. The messages users see match the app's wording;
// verification itself runs against bcrypt hashes, never plaintext.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func normalizeUsername(username string) string {
	return "@" + strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// Login verifies the submitted credentials against the cached user record
// and persists the session on success.
func (c *Coordinator) Login(ctx context.Context, req dto.LoginRequest) (models.User, error) {
	if err := c.validate.Struct(req); err != nil {
		return models.User{}, err
	}

	user, ok := c.store.FindUserByUsername(normalizeUsername(req.Username))
	if !ok {
		c.toasts.Error("User not found. Please sign up.")
		return models.User{}, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.toasts.Error("Incorrect password.")
		return models.User{}, ErrInvalidCredentials
	}

	settings := models.DefaultSettings()
	settings.DarkMode = user.DarkMode
	c.persistSession(ctx, user, settings)

	c.toasts.Success(fmt.Sprintf("Welcome back, %s!", user.Name))
	return user, nil
}

// Signup creates a new account with the app's defaults and persists the
// session. The password is hashed before it leaves the client.
func (c *Coordinator) Signup(ctx context.Context, req dto.SignupRequest) (models.User, error) {
	if err := c.validate.Struct(req); err != nil {
		c.toasts.Error("Please fill in Name, Username, and Password")
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     c.clean(req.Name),
		Username: normalizeUsername(req.Username),
		Password: string(hash),
		Avatar:   "😊",
		Bio:      "Excited to be here!",
		Badges:   "Warehouse Associate",
	}

	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceUsers, user, "")
	if err != nil {
		c.toasts.Error("Failed to create account.")
		return models.User{}, err
	}

	user.ID = result.ID
	c.store.UpsertUser(user)
	c.persistSession(ctx, user, models.DefaultSettings())

	c.toasts.Success("Account created! Welcome to Edge! 🎉")
	return user, nil
}

// Logout tears the persisted session down.
func (c *Coordinator) Logout(ctx context.Context) {
	if c.session != nil {
		if err := c.session.Clear(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("failed to clear persisted session")
		}
	}
	c.toasts.Success("Logged out successfully")
}

// SaveProfile submits profile edits and mirrors them into the cache and the
// persisted session after the server confirms.
func (c *Coordinator) SaveProfile(ctx context.Context, actor models.User, update dto.ProfileUpdate) (models.User, error) {
	if err := c.validate.Struct(update); err != nil {
		return models.User{}, err
	}

	updated := actor
	updated.Name = c.clean(update.Name)
	updated.Bio = c.clean(update.Bio)
	updated.Avatar = update.Avatar
	updated.Email = strings.TrimSpace(update.Email)

	if _, err := c.rc.Call(ctx, remote.MethodPut, remote.ResourceUsers, updated, actor.ID); err != nil {
		c.toasts.Error("Failed to update profile.")
		return models.User{}, err
	}

	c.store.UpsertUser(updated)
	if c.session != nil {
		if err := c.session.SaveUser(ctx, updated); err != nil {
			c.logger.Warn().Err(err).Msg("failed to persist updated profile")
		}
	}

	c.toasts.Success("Profile updated! ✨")
	return updated, nil
}

type darkModePayload struct {
	DarkMode bool `json:"darkMode"`
}

// SetDarkMode applies the preference locally, pushes it to the user record
// and rolls back on failure, mirroring the settings page behavior.
func (c *Coordinator) SetDarkMode(ctx context.Context, actor models.User, settings models.Settings, enabled bool) (models.Settings, error) {
	previous := settings
	settings.DarkMode = enabled
	c.persistSettings(ctx, settings)

	if _, err := c.rc.Call(ctx, remote.MethodPut, remote.ResourceUsers, darkModePayload{DarkMode: enabled}, actor.ID); err != nil {
		c.persistSettings(ctx, previous)
		c.toasts.Error("Failed to save preference.")
		return previous, err
	}

	actor.DarkMode = enabled
	c.store.UpsertUser(actor)
	if c.session != nil {
		if err := c.session.SaveUser(ctx, actor); err != nil {
			c.logger.Warn().Err(err).Msg("failed to persist dark mode preference")
		}
	}

	if enabled {
		c.toasts.Success("Dark mode enabled")
	} else {
		c.toasts.Success("Dark mode disabled")
	}

	return settings, nil
}

func (c *Coordinator) persistSession(ctx context.Context, user models.User, settings models.Settings) {
	if c.session == nil {
		return
	}
	if err := c.session.SaveUser(ctx, user); err != nil {
		c.logger.Warn().Err(err).Msg("failed to persist session user")
	}
	c.persistSettings(ctx, settings)
}

func (c *Coordinator) persistSettings(ctx context.Context, settings models.Settings) {
	if c.session == nil {
		return
	}
	if err := c.session.SaveSettings(ctx, settings); err != nil {
		c.logger.Warn().Err(err).Msg("failed to persist settings")
	}
}
