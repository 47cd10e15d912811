package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Login exchanges credentials for a session. On success the token and role
// are saved together before returning.
func (g *Gateway) Login(ctx context.Context, email, password string) (models.AuthData, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.AuthData{}, errors.New("email and password are required")
	}

	resp, err := g.api.JSON(ctx, http.MethodPost, "login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return models.AuthData{}, err
	}

	env, err := api.DecodeEnvelope[models.AuthData](resp)
	if err != nil {
		return models.AuthData{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.AuthData{}, &api.AppError{Message: env.Msg()}
	}

	data := *env.Data
	if data.Token == "" {
		return models.AuthData{}, errors.New("login response carried no token")
	}

	if err := g.sessions.Save(ctx, session.Record{Token: data.Token, Role: data.User.Role}); err != nil {
		return models.AuthData{}, fmt.Errorf("persist session: %w", err)
	}

	g.log.Info("logged in", "role", data.User.Role, "userId", data.User.ID)
	return data, nil
}

// Register creates an account and saves the returned session.
func (g *Gateway) Register(ctx context.Context, name, email, password, confirmation string) (models.AuthData, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return models.AuthData{}, errors.New("name, email and password are required")
	}
	if password != confirmation {
		return models.AuthData{}, errors.New("passwords do not match")
	}

	resp, err := g.api.JSON(ctx, http.MethodPost, "register", "", registerRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return models.AuthData{}, err
	}

	env, err := api.DecodeEnvelope[models.AuthData](resp)
	if err != nil {
		return models.AuthData{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.AuthData{}, &api.AppError{Message: env.Msg()}
	}

	data := *env.Data
	if err := g.sessions.Save(ctx, session.Record{Token: data.Token, Role: data.User.Role}); err != nil {
		return models.AuthData{}, fmt.Errorf("persist session: %w", err)
	}

	g.log.Info("registered", "role", data.User.Role, "userId", data.User.ID)
	return data, nil
}

// Logout revokes the session server-side when possible and always clears
// the local store. A failed revocation is logged, not returned; the local
// session is gone either way.
func (g *Gateway) Logout(ctx context.Context) error {
	token, err := g.token(ctx)
	if errors.Is(err, api.ErrNotAuthenticated) {
		return nil
	}
	if err != nil {
		return err
	}

	if resp, err := g.api.Post(ctx, "logout", token); err != nil {
		g.log.Warn("server-side logout failed", "error", err)
	} else {
		resp.Body.Close()
	}

	g.channelCache.invalidate()
	g.statsCache.invalidate()

	if err := g.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	g.log.Info("logged out")
	return nil
}
