package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Poper173/Kilamix/internal/models"
)

func (d *dependencies) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected admin subcommand: users, toggle, role, delete, or stats")
	}
	if err := d.requireRole(ctx, models.RoleAdmin); err != nil {
		return err
	}

	switch args[0] {
	case "users":
		return d.adminUsers(ctx)
	case "toggle":
		return d.adminToggle(ctx, args[1:])
	case "role":
		return d.adminRole(ctx, args[1:])
	case "delete":
		return d.adminDelete(ctx, args[1:])
	case "stats":
		return d.adminStats(ctx)
	default:
		return fmt.Errorf("unknown admin subcommand %q", args[0])
	}
}

func (d *dependencies) adminUsers(ctx context.Context) error {
	users, err := d.gw.AllAdminUsers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role, u.IsActive)
	}
	return w.Flush()
}

func (d *dependencies) adminToggle(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}

	user, err := d.gw.ToggleUserStatus(ctx, id)
	if err != nil {
		return err
	}
	if user.IsActive {
		fmt.Fprintf(d.out, "activated %s\n", user.Name)
	} else {
		fmt.Fprintf(d.out, "deactivated %s\n", user.Name)
	}
	return nil
}

func (d *dependencies) adminRole(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("expected role: user, creator, or admin")
	}

	user, err := d.gw.UpdateUserRole(ctx, id, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "%s is now %s\n", user.Name, user.Role)
	return nil
}

func (d *dependencies) adminDelete(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}
	if err := d.gw.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "deleted user #%d\n", id)
	return nil
}

func (d *dependencies) adminStats(ctx context.Context) error {
	stats, err := d.gw.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "users: %d (%d active, %d inactive)\n",
		stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers)
	fmt.Fprintf(d.out, "videos: %d, views: %d\n", stats.TotalVideos, stats.TotalViews)
	return nil
}
