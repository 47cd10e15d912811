package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/models"
)

// AdminUsers fetches one page of the admin user listing.
func (g *Gateway) AdminUsers(ctx context.Context, req PageRequest) ([]models.AdminUser, PageInfo, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, PageInfo{}, err
	}
	req = req.normalize(DefaultUserPageSize)

	resp, err := g.api.Get(ctx, "admin/users", req.query(), token)
	if err != nil {
		return nil, PageInfo{}, err
	}

	env, err := api.DecodeList[models.AdminUser](resp)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !env.Ok() {
		return nil, PageInfo{}, &api.AppError{Message: env.Msg()}
	}
	return env.Data, pageInfoFrom(req, env), nil
}

// AllAdminUsers accumulates every page of the admin user listing.
func (g *Gateway) AllAdminUsers(ctx context.Context) ([]models.AdminUser, error) {
	var all []models.AdminUser
	req := PageRequest{Page: 1, PerPage: DefaultUserPageSize}

	for page := 0; page < maxPages; page++ {
		users, info, err := g.AdminUsers(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, users...)
		if info.IsLast() {
			return all, nil
		}
		req.Page = info.Page + 1
	}
	return nil, fmt.Errorf("user listing exceeded %d pages", maxPages)
}

// ToggleUserStatus flips an account between active and inactive, returning
// the server's updated record.
func (g *Gateway) ToggleUserStatus(ctx context.Context, id int64) (models.AdminUser, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.AdminUser{}, err
	}
	if err := g.allow("status:" + strconv.FormatInt(id, 10)); err != nil {
		return models.AdminUser{}, err
	}

	resp, err := g.api.Post(ctx, "admin/users/"+strconv.FormatInt(id, 10)+"/toggle-status", token)
	if err != nil {
		return models.AdminUser{}, err
	}

	env, err := api.DecodeEnvelope[models.AdminUser](resp)
	if err != nil {
		return models.AdminUser{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.AdminUser{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns a new role to an account.
func (g *Gateway) UpdateUserRole(ctx context.Context, id int64, role string) (models.AdminUser, error) {
	if !models.ValidRole(role) {
		return models.AdminUser{}, fmt.Errorf("unknown role %q", role)
	}

	token, err := g.token(ctx)
	if err != nil {
		return models.AdminUser{}, err
	}
	if err := g.allow("role:" + strconv.FormatInt(id, 10)); err != nil {
		return models.AdminUser{}, err
	}

	resp, err := g.api.JSON(ctx, http.MethodPost, "admin/users/"+strconv.FormatInt(id, 10)+"/role", token, roleUpdateRequest{Role: role})
	if err != nil {
		return models.AdminUser{}, err
	}

	env, err := api.DecodeEnvelope[models.AdminUser](resp)
	if err != nil {
		return models.AdminUser{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.AdminUser{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

// DeleteUser removes an account.
func (g *Gateway) DeleteUser(ctx context.Context, id int64) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}
	if err := g.allow("delete-user:" + strconv.FormatInt(id, 10)); err != nil {
		return err
	}

	resp, err := g.api.Delete(ctx, "admin/users/"+strconv.FormatInt(id, 10), token)
	if err != nil {
		return err
	}

	env, err := api.DecodeEnvelope[struct{}](resp)
	if err != nil {
		return err
	}
	// A bare 2xx with no envelope counts as success for deletions.
	if env.Success != nil && !*env.Success {
		return &api.AppError{Message: env.Msg()}
	}
	return nil
}

// Stats fetches the admin dashboard summary, served from the short-lived
// cache when fresh.
func (g *Gateway) Stats(ctx context.Context) (models.AdminStats, error) {
	if cached, ok := g.statsCache.get(); ok {
		return cached, nil
	}

	token, err := g.token(ctx)
	if err != nil {
		return models.AdminStats{}, err
	}

	resp, err := g.api.Get(ctx, "admin/stats", nil, token)
	if err != nil {
		return models.AdminStats{}, err
	}

	env, err := api.DecodeEnvelope[models.AdminStats](resp)
	if err != nil {
		return models.AdminStats{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.AdminStats{}, &api.AppError{Message: env.Msg()}
	}

	g.statsCache.set(*env.Data)
	return *env.Data, nil
}
