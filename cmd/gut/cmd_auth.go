package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gutcheck/internal/identity"
)

var (
	authEmail    string
	authPassword string
	authGoogle   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Gut Health Tracker",
	Long: `Sign in with email and password, or with --google to authenticate
through the browser. The session is persisted and reused by every
other command until you run 'gut logout'.`,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email (prompted when omitted)")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")
	}
	loginCmd.Flags().BoolVar(&authGoogle, "google", false, "sign in with Google through the browser")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if authGoogle {
		return runGoogleLogin(cmd.Context(), a)
	}

	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	if err := a.session.SignIn(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	fmt.Printf("Signed in as %s\n", a.session.Session().User.Email)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	err = a.session.SignUp(cmd.Context(), email, password)
	if errors.Is(err, identity.ErrAlreadyRegistered) {
		return fmt.Errorf("an account with this email already exists; run 'gut login' instead")
	}
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	fmt.Printf("Account created. Signed in as %s\n", email)
	return nil
}

func runGoogleLogin(ctx context.Context, a *app) error {
	flow, err := a.session.BeginGoogleSignIn(a.cfg.OAuthCallbackPort)
	if err != nil {
		return fmt.Errorf("failed to start Google sign in: %w", err)
	}

	fmt.Println("Opening browser for Google sign in...")
	fmt.Printf("If the browser does not open, visit:\n\n  %s\n\n", flow.AuthURL)
	if err := openBrowser(flow.AuthURL); err != nil {
		logger.Debug("browser launch failed; user must open the URL manually")
	}

	fmt.Println("Waiting for sign in to complete (5 minute timeout)...")
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := a.session.CompleteGoogleSignIn(ctx, flow); err != nil {
		return fmt.Errorf("Google sign in failed: %w", err)
	}

	fmt.Printf("Signed in as %s\n", a.session.Session().User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.session.Resolve(cmd.Context()) != identity.StatusAuthenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	// A provider failure keeps the session so a flaky network cannot
	// strand the user half signed out.
	if err := a.session.SignOut(cmd.Context()); err != nil {
		return fmt.Errorf("sign out failed, session kept: %w", err)
	}

	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.session.Resolve(cmd.Context()) != identity.StatusAuthenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	sess := a.session.Session()
	fmt.Printf("Signed in as %s\n", sess.User.Email)
	fmt.Printf("Session expires %s\n", sess.Expiry.Local().Format(time.RFC1123))
	return nil
}

// promptCredentials uses the flag values when given and prompts for the
// rest. The password prompt does not echo.
func promptCredentials() (email, password string, err error) {
	email = strings.TrimSpace(authEmail)
	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email must not be empty")
	}

	password = authPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return "", "", fmt.Errorf("password must not be empty")
	}

	return email, password, nil
}

// openBrowser launches the default browser for the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
