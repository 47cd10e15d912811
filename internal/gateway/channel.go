package gateway

import (
	"context"
	"net/http"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/upload"
)

// Channel fetches the authenticated creator's channel profile, served from
// the short-lived cache when fresh.
func (g *Gateway) Channel(ctx context.Context) (models.Channel, error) {
	if cached, ok := g.channelCache.get(); ok {
		return cached, nil
	}

	token, err := g.token(ctx)
	if err != nil {
		return models.Channel{}, err
	}

	resp, err := g.api.Get(ctx, "creator/channel", nil, token)
	if err != nil {
		return models.Channel{}, err
	}

	env, err := api.DecodeEnvelope[models.Channel](resp)
	if err != nil {
		return models.Channel{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.Channel{}, &api.AppError{Message: env.Msg()}
	}

	g.channelCache.set(*env.Data)
	return *env.Data, nil
}

// ChannelUpdate carries the editable channel profile. Avatar is optional.
type ChannelUpdate struct {
	Name        string
	Description string
	Avatar      upload.Source
}

// UpdateChannel replaces the channel profile via multipart PUT and returns
// the server's new profile. The cache is refreshed with the result.
func (g *Gateway) UpdateChannel(ctx context.Context, update ChannelUpdate) (models.Channel, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.Channel{}, err
	}

	if update.Name == "" {
		return models.Channel{}, &upload.ValidationError{Reason: "channel name is required"}
	}
	if update.Avatar != nil {
		if err := upload.Validate(update.Avatar, upload.ImageLimits); err != nil {
			return models.Channel{}, err
		}
	}

	form := &upload.Form{}
	form.Field("name", update.Name)
	form.Field("description", update.Description)
	if update.Avatar != nil {
		form.File("avatar", update.Avatar)
	}

	contentType, body := form.Encode()
	resp, err := g.api.Multipart(ctx, http.MethodPut, "creator/channel", token, contentType, body)
	if err != nil {
		return models.Channel{}, err
	}

	env, err := api.DecodeEnvelope[models.Channel](resp)
	if err != nil {
		return models.Channel{}, err
	}
	if !env.Ok() || env.Data == nil {
		g.channelCache.invalidate()
		return models.Channel{}, &api.AppError{Message: env.Msg()}
	}

	g.channelCache.set(*env.Data)
	return *env.Data, nil
}
