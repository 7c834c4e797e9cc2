package cli

import (
	"fmt"

	"github.com/samvad-hq/pawfinder/pkg/authapi"
	"github.com/samvad-hq/pawfinder/pkg/validate"
	"github.com/spf13/cobra"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var creds authapi.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.Validate(); err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			res, err := a.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return rt.render(cmd, map[string]any{
				"status": "logged in",
				"user":   res.User,
			})
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.client()
			if err != nil {
				return err
			}
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return rt.render(cmd, map[string]string{"status": "logged out"})
		},
	}
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var req authapi.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			if _, err := a.Auth.Register(cmd.Context(), req); err != nil {
				return err
			}
			tok, err := a.Session().Token()
			if err != nil {
				return fmt.Errorf("read session token: %w", err)
			}
			return rt.render(cmd, map[string]any{
				"status":    "registered",
				"logged_in": tok != "",
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Name, Cyrillic letters only")
	f.StringVar(&req.Phone, "phone", "", "Phone number")
	f.StringVar(&req.Email, "email", "", "Email address")
	f.StringVar(&req.Password, "password", "", "Password")
	f.StringVar(&req.PasswordConfirmation, "password-confirmation", "", "Password again")
	f.BoolVar(&req.Confirm, "confirm", false, "Agree to personal data processing")

	return cmd
}

func newUserCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show or change a user profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [id]",
		Short: "Show a profile; defaults to the logged-in user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.client()
			if err != nil {
				return err
			}
			id, err := rt.userID(args)
			if err != nil {
				return err
			}
			user, err := a.Auth.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(cmd, user)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "phone <id> <phone>",
		Short: "Change the phone number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !validate.Phone(args[1]) {
				return &validate.Error{Fields: map[string][]string{"phone": {"may contain only digits and a leading +"}}}
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			if _, err := a.Auth.UpdatePhone(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			return rt.render(cmd, map[string]any{"status": "updated", "phone": args[1]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "email <id> <email>",
		Short: "Change the email address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !validate.Email(args[1]) {
				return &validate.Error{Fields: map[string][]string{"email": {"must be a valid email address"}}}
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			if _, err := a.Auth.UpdateEmail(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			return rt.render(cmd, map[string]any{"status": "updated", "email": args[1]})
		},
	})

	return cmd
}

// userID takes the id from args or falls back to the user recorded at login.
func (rt *runtime) userID(args []string) (int, error) {
	if len(args) > 0 && args[0] != "" {
		return parseID(args[0])
	}
	a, err := rt.client()
	if err != nil {
		return 0, err
	}
	u, err := a.CurrentUser()
	if err != nil {
		return 0, err
	}
	if u == nil || u.ID == 0 {
		return 0, fmt.Errorf("no user recorded in the session; log in or pass an id")
	}
	return u.ID, nil
}
