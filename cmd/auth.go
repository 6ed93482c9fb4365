package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lysn-labs/lysn-cli/internal/server"
	"github.com/lysn-labs/lysn-cli/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// prompt reads one line from the Runner's input after printing label.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s: ", label)
	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", fmt.Errorf("%w: no input", shared.ErrMissingArgument)
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = r.prompt("Password"); err != nil {
			return err
		}
	}

	r.logger.Infof("signing in as %s", email)

	session, err := r.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.api.SaveSession(); err != nil {
		r.logger.Warnf("failed to persist session: %v", err)
	}

	return r.writePlain("✓ Signed in as %s\n", session.Email)
}

// AuthSignup creates an account through the one-time-code flow.
//
// Requests a code, prompts for it, verifies, and for a brand new account
// prompts for a password to finish setup.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	name := cmd.String("name")

	if err := r.api.RequestOTP(ctx, email, name); err != nil {
		return fmt.Errorf("failed to request code: %w", err)
	}

	r.writePlain("✓ Code sent to %s (valid for %s)\n", email, shared.FormatCountdown(300))

	code, err := r.prompt("Code")
	if err != nil {
		return err
	}

	if _, err := r.api.VerifyOTP(ctx, email, code, name); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidOTP, err)
	}

	if err := r.api.SaveSession(); err != nil {
		r.logger.Warnf("failed to persist session: %v", err)
	}

	// a failing profile fetch means the account has no password yet
	if _, err := r.api.Me(ctx); err != nil {
		r.writePlainln("Welcome! Set a password for your new account.")

		temp, err := r.prompt("Temporary password")
		if err != nil {
			return err
		}
		newPassword, err := r.prompt("New password")
		if err != nil {
			return err
		}

		if err := r.api.SetPassword(ctx, temp, newPassword); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}
		r.writePlain("✓ Password set\n")
	}

	return r.writePlain("✓ Signed in as %s\n", email)
}

// AuthReset walks the forgot-password flow: code request, verification,
// then the replacement password.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	if err := r.api.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("failed to request reset code: %w", err)
	}

	r.writePlain("✓ Reset code sent to %s\n", email)

	code, err := r.prompt("Code")
	if err != nil {
		return err
	}

	if err := r.api.VerifyPasswordReset(ctx, email, code, ""); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidOTP, err)
	}

	newPassword, err := r.prompt("New password")
	if err != nil {
		return err
	}

	if err := r.api.VerifyPasswordReset(ctx, email, code, newPassword); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return r.writePlain("✓ Password reset. Sign in with your new password.\n")
}

// AuthSetPassword changes the signed-in account's password.
func (r *Runner) AuthSetPassword(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	oldPassword, err := r.prompt("Current password")
	if err != nil {
		return err
	}
	newPassword, err := r.prompt("New password")
	if err != nil {
		return err
	}

	if err := r.api.SetPassword(ctx, oldPassword, newPassword); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	return r.writePlain("✓ Password updated\n")
}

// AuthWhoami shows the signed-in account profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	user, err := r.api.Me(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionExpired, err)
	}

	r.writePlain("Email: %s\n", user.Email)
	if user.Name != "" {
		r.writePlain("Name: %s\n", user.Name)
	}
	if user.AuthType != "" {
		r.writePlain("Sign-in method: %s\n", user.AuthType)
	}
	return nil
}

// AuthLogout invalidates the session and removes the saved session file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.api.Authenticated() {
		return r.writePlain("Not signed in\n")
	}

	if err := r.api.Logout(ctx); err != nil {
		r.logger.Warnf("server-side logout failed: %v", err)
	}

	if err := r.api.SaveSession(); err != nil {
		r.logger.Warnf("failed to remove session file: %v", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthGoogle runs the Google sign-in flow with a local callback server,
// then exchanges the Google token for a Lysn session.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	if config.Credentials.Google.ClientID == "" || config.Credentials.Google.ClientSecret == "" {
		return fmt.Errorf("%w: google client credentials not configured", shared.ErrMissingCredentials)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.Credentials.Google.ClientID,
		ClientSecret: config.Credentials.Google.ClientSecret,
		RedirectURL:  config.Credentials.Google.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	token, err := r.doOAuth(config, oauthConfig)
	if err != nil {
		return err
	}

	session, err := r.api.LoginWithGoogleToken(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.api.SaveSession(); err != nil {
		r.logger.Warnf("failed to persist session: %v", err)
	}

	return r.writePlain("✓ Signed in as %s\n", session.Email)
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting sign-in callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
