// Package app hosts the Kilamix command line client: configuration loading,
// dependency wiring, and one function per subcommand.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/config"
	"github.com/Poper173/Kilamix/internal/logging"
)

const usage = `usage: kilamix <command> [arguments]

account:
  login          sign in and store the session
  register       create an account
  logout         revoke and clear the session
  whoami         show the stored session

videos:
  videos         list published videos
  video <id>     show one video with its playback address
  like <id>      toggle your like on a video

creator:
  my-videos      list your uploads
  upload         publish a new video
  edit <id>      update a video's metadata
  delete <id>    remove one of your videos
  channel        show or update your channel profile

admin:
  admin users               list accounts
  admin toggle <id>         activate or deactivate an account
  admin role <id> <role>    assign a role
  admin delete <id>         remove an account
  admin stats               show the dashboard summary`

// Run bootstraps the Kilamix client and dispatches the subcommand.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	deps, cleanup, err := buildDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(context.Background()); err != nil {
			logger.Warn("cleanup failed", "error", err)
		}
	}()

	return dispatch(ctx, deps, args)
}

func dispatch(ctx context.Context, deps *dependencies, args []string) error {
	// One request id per command invocation, so every HTTP request a command
	// makes can be correlated server-side.
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithLogger(ctx, deps.log.With("requestId", requestID))

	switch args[0] {
	case "login":
		return deps.login(ctx, args[1:])
	case "register":
		return deps.register(ctx, args[1:])
	case "logout":
		return deps.logout(ctx)
	case "whoami":
		return deps.whoami(ctx)
	case "videos":
		return deps.listVideos(ctx, args[1:])
	case "video":
		return deps.showVideo(ctx, args[1:])
	case "like":
		return deps.like(ctx, args[1:])
	case "my-videos":
		return deps.myVideos(ctx)
	case "upload":
		return deps.upload(ctx, args[1:])
	case "edit":
		return deps.editVideo(ctx, args[1:])
	case "delete":
		return deps.deleteVideo(ctx, args[1:])
	case "channel":
		return deps.channel(ctx, args[1:])
	case "admin":
		return deps.admin(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprintln(deps.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// requireRole checks the stored session's role before a command spends a
// round trip on an endpoint that will refuse it.
func (d *dependencies) requireRole(ctx context.Context, roles ...string) error {
	rec, ok, err := d.gw.Session(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return api.ErrNotAuthenticated
	}
	for _, role := range roles {
		if rec.Role == role {
			return nil
		}
	}
	return fmt.Errorf("requires %s role, signed in as %s", strings.Join(roles, " or "), rec.Role)
}

// parseID converts the id argument every entity command takes.
func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("expected %s id", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, args[0])
	}
	return id, nil
}
