package app

import (
	"context"
	"flag"
	"fmt"
)

func (d *dependencies) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(d.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = d.promptLine("email: "); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = d.promptPassword("password: "); err != nil {
			return err
		}
	}

	data, err := d.gw.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "signed in as %s (%s)\n", data.User.Name, data.User.Role)
	return nil
}

func (d *dependencies) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(d.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *name == "" {
		if *name, err = d.promptLine("name: "); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = d.promptLine("email: "); err != nil {
			return err
		}
	}
	confirmation := *password
	if *password == "" {
		if *password, err = d.promptPassword("password: "); err != nil {
			return err
		}
		if confirmation, err = d.promptPassword("confirm password: "); err != nil {
			return err
		}
	}

	data, err := d.gw.Register(ctx, *name, *email, *password, confirmation)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "registered %s (%s)\n", data.User.Name, data.User.Role)
	return nil
}

func (d *dependencies) logout(ctx context.Context) error {
	if err := d.gw.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(d.out, "signed out")
	return nil
}

func (d *dependencies) whoami(ctx context.Context) error {
	rec, ok, err := d.gw.Session(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(d.out, "not signed in")
		return nil
	}
	fmt.Fprintf(d.out, "signed in with role %s\n", rec.Role)
	return nil
}
