package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thromer/manage-google-one/internal/gauth"
)

// Service names accepted by login and logout.
const (
	serviceDrive  = "drive"
	servicePhotos = "photos"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "login <drive|photos>",
		Short:     "Authenticate with a Google service in the browser",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{serviceDrive, servicePhotos},
		RunE:      runLogin,
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "logout <drive|photos>",
		Short:     "Remove a saved authentication token",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{serviceDrive, servicePhotos},
		RunE:      runLogout,
	}
}

// serviceAuth maps a service name to its OAuth scope and token file path.
func serviceAuth(service string) (scope, tokenPath string, err error) {
	switch service {
	case serviceDrive:
		return gauth.ScopeDriveReadonly, cfg.DriveTokenPath(), nil
	case servicePhotos:
		return gauth.ScopePhotosReadonly, cfg.PhotosTokenPath(), nil
	default:
		return "", "", fmt.Errorf("unknown service %q (want %s or %s)", service, serviceDrive, servicePhotos)
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	service := args[0]

	scope, tokenPath, err := serviceAuth(service)
	if err != nil {
		return err
	}

	secret, err := gauth.LoadClientSecret(cfg.ClientSecretFile)
	if err != nil {
		return fmt.Errorf("client secret (set client_secret_file in config): %w", err)
	}

	ocfg := secret.OAuthConfig(scope)

	_, err = gauth.LoginWithBrowser(cmd.Context(), ocfg, tokenPath, openBrowser, logger)
	if err != nil {
		return err
	}

	statusf("Login successful for %s.\n", service)

	return nil
}

func runLogout(_ *cobra.Command, args []string) error {
	logger := buildLogger()
	service := args[0]

	_, tokenPath, err := serviceAuth(service)
	if err != nil {
		return err
	}

	if err := gauth.Logout(tokenPath, logger); err != nil {
		return err
	}

	statusf("Logged out of %s.\n", service)

	return nil
}

// openBrowser launches the default browser at the given URL. On a
// non-interactive terminal it declines, which makes the login flow print
// the URL instead.
func openBrowser(url string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("not an interactive terminal")
	}

	browser := "xdg-open"
	if runtime.GOOS == "darwin" {
		browser = "open"
	}

	return exec.Command(browser, url).Start()
}

// driveTokenSource loads the saved Drive token, refreshing and re-saving
// as needed.
func driveTokenSource(ctx context.Context) (gauth.TokenSource, error) {
	return tokenSourceFor(ctx, serviceDrive)
}

// photosTokenSource loads the saved Photos token, refreshing and re-saving
// as needed.
func photosTokenSource(ctx context.Context) (gauth.TokenSource, error) {
	return tokenSourceFor(ctx, servicePhotos)
}

func tokenSourceFor(ctx context.Context, service string) (gauth.TokenSource, error) {
	logger := buildLogger()

	scope, tokenPath, err := serviceAuth(service)
	if err != nil {
		return nil, err
	}

	secret, err := gauth.LoadClientSecret(cfg.ClientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("client secret (set client_secret_file in config): %w", err)
	}

	src, err := gauth.TokenSourceFromPath(ctx, secret.OAuthConfig(scope), tokenPath, logger)
	if err != nil {
		if errors.Is(err, gauth.ErrNotLoggedIn) {
			return nil, fmt.Errorf("not logged in — run 'manage-google-one login %s' first", service)
		}

		return nil, err
	}

	return src, nil
}
