package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/artefacto/internal/client/guard"
	"github.com/dmitrijs2005/artefacto/internal/client/services"
	"github.com/dmitrijs2005/artefacto/internal/common"
)

var errCancelled = errors.New("cancelled")

func (a *App) onboardingPage(ctx context.Context, _ guard.Params) error {
	a.title("Welcome to Artefacto")
	fmt.Fprintln(a.out, "Explore the temples of Indonesia, the stories of their artifacts,")
	fmt.Fprintln(a.out, "and buy entrance tickets for your visit.")
	a.hint("type 'login' to sign in or 'register' to create an account")
	return nil
}

func (a *App) loginPage(ctx context.Context, _ guard.Params) error {
	a.title("Login")

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Login successful")
	return a.Open(ctx, guard.AfterLogin(a.state.Snapshot(), a.takeReturnTo()))
}

func (a *App) registerPage(ctx context.Context, _ guard.Params) error {
	a.title("Create an account")

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password (at least 8 characters)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirmation, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	_, err = a.auth.Register(ctx, services.RegisterInput{
		Username:             username,
		Email:                email,
		Password:             string(password),
		PasswordConfirmation: string(confirmation),
	})
	if err != nil {
		return err
	}

	printlnFn("Account created")
	return a.Open(ctx, guard.AfterLogin(a.state.Snapshot(), a.takeReturnTo()))
}

func (a *App) homePage(ctx context.Context, _ guard.Params) error {
	snap := a.state.Snapshot()
	a.title("Hello, " + snap.Profile.Username)

	temples, err := a.catalog.Temples(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d temples to explore.\n", len(temples))
	a.hint("temples, artifacts, bookmarks, tickets, my-tickets, scan, profile")
	return nil
}

func (a *App) profilePage(ctx context.Context, _ guard.Params) error {
	snap := a.state.Snapshot()
	p := snap.Profile

	a.title("Profile")
	a.fields(
		"Username", p.Username,
		"Email", p.Email,
		"Role", snap.Role.String(),
		"Picture", p.ProfilePicture,
	)
	if exp, ok := a.auth.ExpiresAt(ctx); ok {
		a.fields("Session expires", exp.Local().Format("2006-01-02 15:04"))
	}
	a.hint("edit-profile, delete-account, logout")
	return nil
}

// EditProfile asks for the fields to change. Blank answers keep the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	return a.visit(ctx, "/profile", func(ctx context.Context, _ guard.Params) error {
		current := a.state.Snapshot().Profile

		a.title("Edit profile (leave blank to keep)")
		username, err := getSimpleText(a.reader, "Username ["+current.Username+"]", a.out)
		if err != nil {
			return err
		}
		email, err := getSimpleText(a.reader, "Email ["+current.Email+"]", a.out)
		if err != nil {
			return err
		}
		picture, err := getSimpleText(a.reader, "Profile picture file", a.out)
		if err != nil {
			return err
		}
		newPassword, err := getPassword(a.reader, "New password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(newPassword)

		in := services.ProfileUpdate{
			Username:    username,
			Email:       email,
			NewPassword: string(newPassword),
			PicturePath: picture,
		}

		if (email != "" && email != current.Email) || len(newPassword) > 0 {
			currentPassword, err := getPassword(a.reader, "Current password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(currentPassword)
			in.CurrentPassword = string(currentPassword)
		}

		if _, err := a.auth.UpdateProfile(ctx, in); err != nil {
			return err
		}

		printlnFn("Profile updated")
		return a.profilePage(ctx, nil)
	})
}

func (a *App) DeleteAccount(ctx context.Context) error {
	return a.visit(ctx, "/profile", func(ctx context.Context, _ guard.Params) error {
		if !confirm(a.reader, "Delete your account permanently?", a.out) {
			return errCancelled
		}
		if err := a.auth.DeleteAccount(ctx); err != nil {
			return err
		}
		printlnFn("Account deleted")
		return a.Open(ctx, guard.StartPath)
	})
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	printlnFn("Logged out")
	return a.Open(ctx, guard.StartPath)
}
