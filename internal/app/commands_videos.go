package app

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/Poper173/Kilamix/internal/gateway"
	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/upload"
)

func (d *dependencies) listVideos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos", flag.ContinueOnError)
	fs.SetOutput(d.out)
	page := fs.Int("page", 0, "fetch a single page instead of the full listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var videos []models.Video
	var err error
	if *page > 0 {
		videos, _, err = d.gw.Videos(ctx, gateway.PageRequest{Page: *page})
	} else {
		videos, err = d.gw.AllVideos(ctx)
	}
	if err != nil {
		return err
	}
	d.printVideos(videos)
	return nil
}

func (d *dependencies) showVideo(ctx context.Context, args []string) error {
	id, err := parseID(args, "video")
	if err != nil {
		return err
	}

	video, err := d.gw.Video(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.out, "#%d %s\n", video.ID, video.Title)
	if video.Description != nil && *video.Description != "" {
		fmt.Fprintln(d.out, *video.Description)
	}
	if video.User != nil {
		fmt.Fprintf(d.out, "by %s\n", video.User.Name)
	}
	fmt.Fprintf(d.out, "%d likes, %d views\n", video.LikesCount, video.ViewsCount)
	if addr := d.rules.Resolve(video); addr != "" {
		fmt.Fprintf(d.out, "play: %s\n", addr)
	}
	return nil
}

func (d *dependencies) like(ctx context.Context, args []string) error {
	id, err := parseID(args, "video")
	if err != nil {
		return err
	}

	result, err := d.gw.Like(ctx, id)
	if err != nil {
		return err
	}
	if result.Liked {
		fmt.Fprintf(d.out, "liked (%d likes)\n", result.LikesCount)
	} else {
		fmt.Fprintf(d.out, "like removed (%d likes)\n", result.LikesCount)
	}
	return nil
}

func (d *dependencies) myVideos(ctx context.Context) error {
	if err := d.requireRole(ctx, models.RoleCreator, models.RoleAdmin); err != nil {
		return err
	}
	videos, err := d.gw.MyVideos(ctx)
	if err != nil {
		return err
	}
	d.printVideos(videos)
	return nil
}

func (d *dependencies) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(d.out)
	title := fs.String("title", "", "video title")
	description := fs.String("description", "", "video description")
	category := fs.Int64("category", 0, "category id")
	visibility := fs.String("visibility", "", "public or private")
	file := fs.String("file", "", "path to the video file")
	thumbnail := fs.String("thumbnail", "", "path to an optional thumbnail image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := d.requireRole(ctx, models.RoleCreator, models.RoleAdmin); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("upload: -file is required")
	}

	draft := gateway.VideoDraft{
		Title:       *title,
		Description: *description,
		CategoryID:  *category,
		Visibility:  *visibility,
	}

	source, err := upload.NewFileSource(*file)
	if err != nil {
		return err
	}
	draft.Video = source

	if *thumbnail != "" {
		thumb, err := upload.NewFileSource(*thumbnail)
		if err != nil {
			return err
		}
		draft.Thumbnail = thumb
	}

	video, err := d.gw.Upload(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "uploaded #%d %s\n", video.ID, video.Title)
	return nil
}

func (d *dependencies) editVideo(ctx context.Context, args []string) error {
	if err := d.requireRole(ctx, models.RoleCreator, models.RoleAdmin); err != nil {
		return err
	}
	id, err := parseID(args, "video")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(d.out)
	title := fs.String("title", "", "new title")
	description := fs.String("description", "", "new description")
	category := fs.Int64("category", 0, "new category id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	video, err := d.gw.UpdateVideo(ctx, id, gateway.VideoUpdate{
		Title:       *title,
		Description: *description,
		CategoryID:  *category,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "updated #%d %s\n", video.ID, video.Title)
	return nil
}

func (d *dependencies) deleteVideo(ctx context.Context, args []string) error {
	if err := d.requireRole(ctx, models.RoleCreator, models.RoleAdmin); err != nil {
		return err
	}
	id, err := parseID(args, "video")
	if err != nil {
		return err
	}
	if err := d.gw.DeleteVideo(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "deleted #%d\n", id)
	return nil
}

func (d *dependencies) channel(ctx context.Context, args []string) error {
	if err := d.requireRole(ctx, models.RoleCreator, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "update" {
		return d.updateChannel(ctx, args[1:])
	}

	channel, err := d.gw.Channel(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "%s\n", channel.Name)
	if channel.Description != nil && *channel.Description != "" {
		fmt.Fprintln(d.out, *channel.Description)
	}
	fmt.Fprintf(d.out, "%d videos, %d subscribers, %d views\n",
		channel.VideosCount, channel.TotalSubscribers, channel.TotalViews)
	return nil
}

func (d *dependencies) updateChannel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("channel update", flag.ContinueOnError)
	fs.SetOutput(d.out)
	name := fs.String("name", "", "channel name")
	description := fs.String("description", "", "channel description")
	avatar := fs.String("avatar", "", "path to an optional avatar image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update := gateway.ChannelUpdate{Name: *name, Description: *description}
	if *avatar != "" {
		source, err := upload.NewFileSource(*avatar)
		if err != nil {
			return err
		}
		update.Avatar = source
	}

	channel, err := d.gw.UpdateChannel(ctx, update)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "channel updated: %s\n", channel.Name)
	return nil
}

func (d *dependencies) printVideos(videos []models.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(d.out, "no videos")
		return
	}
	w := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLIKES\tVIEWS")
	for _, v := range videos {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", v.ID, v.Title, v.LikesCount, v.ViewsCount)
	}
	w.Flush()
}
