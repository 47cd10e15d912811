package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/upload"
)

// Videos fetches one page of the public video listing. A session token is
// attached when present so the backend can mark is_liked, but none is
// required.
func (g *Gateway) Videos(ctx context.Context, req PageRequest) ([]models.Video, PageInfo, error) {
	req = req.normalize(DefaultVideoPageSize)

	resp, err := g.api.Get(ctx, "videos", req.query(), g.optionalToken(ctx))
	if err != nil {
		return nil, PageInfo{}, err
	}

	env, err := api.DecodeList[models.Video](resp)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !env.Ok() {
		return nil, PageInfo{}, &api.AppError{Message: env.Msg()}
	}
	return env.Data, pageInfoFrom(req, env), nil
}

// AllVideos accumulates every page of the public listing.
func (g *Gateway) AllVideos(ctx context.Context) ([]models.Video, error) {
	var all []models.Video
	req := PageRequest{Page: 1, PerPage: DefaultVideoPageSize}

	for page := 0; page < maxPages; page++ {
		videos, info, err := g.Videos(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, videos...)
		if info.IsLast() {
			return all, nil
		}
		req.Page = info.Page + 1
	}
	return nil, fmt.Errorf("video listing exceeded %d pages", maxPages)
}

// Video fetches a single video by id.
func (g *Gateway) Video(ctx context.Context, id int64) (models.Video, error) {
	resp, err := g.api.Get(ctx, "videos/"+strconv.FormatInt(id, 10), nil, g.optionalToken(ctx))
	if err != nil {
		return models.Video{}, err
	}

	env, err := api.DecodeEnvelope[models.Video](resp)
	if err != nil {
		return models.Video{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.Video{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

// Like toggles the current user's like on a video and returns the
// authoritative server state.
func (g *Gateway) Like(ctx context.Context, id int64) (models.LikeResult, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.LikeResult{}, err
	}
	if err := g.allow("like:" + strconv.FormatInt(id, 10)); err != nil {
		return models.LikeResult{}, err
	}

	resp, err := g.api.Post(ctx, "videos/"+strconv.FormatInt(id, 10)+"/like", token)
	if err != nil {
		return models.LikeResult{}, err
	}

	env, err := api.DecodeEnvelope[models.LikeResult](resp)
	if err != nil {
		return models.LikeResult{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.LikeResult{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

// MyVideos fetches the authenticated creator's uploads in one shot.
func (g *Gateway) MyVideos(ctx context.Context) ([]models.Video, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.api.Get(ctx, "my-videos", nil, token)
	if err != nil {
		return nil, err
	}

	env, err := api.DecodeList[models.Video](resp)
	if err != nil {
		return nil, err
	}
	if !env.Ok() {
		return nil, &api.AppError{Message: env.Msg()}
	}
	return env.Data, nil
}

// MyVideosPage fetches one page of the authenticated creator's uploads.
func (g *Gateway) MyVideosPage(ctx context.Context, req PageRequest) ([]models.Video, PageInfo, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, PageInfo{}, err
	}
	req = req.normalize(DefaultVideoPageSize)

	resp, err := g.api.Get(ctx, "my-videos", req.query(), token)
	if err != nil {
		return nil, PageInfo{}, err
	}

	env, err := api.DecodeList[models.Video](resp)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !env.Ok() {
		return nil, PageInfo{}, &api.AppError{Message: env.Msg()}
	}
	return env.Data, pageInfoFrom(req, env), nil
}

// VideoDraft is the material for a new upload. Thumbnail and Visibility
// are optional.
type VideoDraft struct {
	Title       string
	Description string
	CategoryID  int64
	Visibility  string
	Video       upload.Source
	Thumbnail   upload.Source
}

// Upload validates the draft client-side, then streams it as a multipart
// request. Every validation failure returns before any bytes go out.
func (g *Gateway) Upload(ctx context.Context, draft VideoDraft) (models.Video, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.Video{}, err
	}

	if draft.Title == "" {
		return models.Video{}, &upload.ValidationError{Reason: "title is required"}
	}
	if draft.Video == nil {
		return models.Video{}, &upload.ValidationError{Reason: "a video file is required"}
	}
	if err := upload.Validate(draft.Video, upload.VideoLimits); err != nil {
		return models.Video{}, err
	}
	if draft.Thumbnail != nil {
		if err := upload.Validate(draft.Thumbnail, upload.ImageLimits); err != nil {
			return models.Video{}, err
		}
	}

	form := &upload.Form{}
	form.Field("title", draft.Title)
	form.Field("description", draft.Description)
	form.Field("category_id", strconv.FormatInt(draft.CategoryID, 10))
	if draft.Visibility != "" {
		form.Field("visibility", draft.Visibility)
	}
	form.File("video", draft.Video)
	if draft.Thumbnail != nil {
		form.File("thumbnail", draft.Thumbnail)
	}

	contentType, body := form.Encode()
	g.log.Info("uploading video",
		"title", draft.Title,
		"file", draft.Video.Name(),
		"size", upload.FormatBytes(draft.Video.Size()))

	resp, err := g.api.Multipart(ctx, http.MethodPost, "videos", token, contentType, body)
	if err != nil {
		return models.Video{}, err
	}

	env, err := api.DecodeEnvelope[models.Video](resp)
	if err != nil {
		return models.Video{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.Video{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

// VideoUpdate carries the editable metadata of an existing video.
type VideoUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

// UpdateVideo replaces a video's metadata.
func (g *Gateway) UpdateVideo(ctx context.Context, id int64, update VideoUpdate) (models.Video, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.Video{}, err
	}
	if update.Title == "" {
		return models.Video{}, errors.New("title is required")
	}

	resp, err := g.api.JSON(ctx, http.MethodPut, "videos/"+strconv.FormatInt(id, 10), token, update)
	if err != nil {
		return models.Video{}, err
	}

	env, err := api.DecodeEnvelope[models.Video](resp)
	if err != nil {
		return models.Video{}, err
	}
	if !env.Ok() || env.Data == nil {
		return models.Video{}, &api.AppError{Message: env.Msg()}
	}
	return *env.Data, nil
}

// DeleteVideo removes one of the creator's videos.
func (g *Gateway) DeleteVideo(ctx context.Context, id int64) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}
	if err := g.allow("delete-video:" + strconv.FormatInt(id, 10)); err != nil {
		return err
	}

	resp, err := g.api.Delete(ctx, "videos/"+strconv.FormatInt(id, 10), token)
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
