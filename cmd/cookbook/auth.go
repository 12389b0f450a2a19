package cookbook

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the login to the recipe backend",
}

var (
	authToken     string
	authExpiresIn time.Duration
	authUser      string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token for the recipe backend",
	Example: "  cookbook auth login --token \"$COOKBOOK_TOKEN\" --expires-in 720h --user anna",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(authToken) == "" {
			return fmt.Errorf("--token is required")
		}
		if authExpiresIn < 0 {
			return fmt.Errorf("--expires-in must be >= 0")
		}
		session := service.Session{AccessToken: authToken, User: authUser}
		if authExpiresIn > 0 {
			session.Expiry = time.Now().Add(authExpiresIn)
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SaveSession(sqldb, session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
			return nil
		})
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored login",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			session, ok, err := service.LoadSession(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			user := session.User
			if user == "" {
				user = "-"
			}
			expiry := "never"
			if !session.Expiry.IsZero() {
				expiry = session.Expiry.Local().Format(time.RFC3339)
			}
			fmt.Fprintf(out, "User: %s\n", user)
			fmt.Fprintf(out, "Expires: %s\n", expiry)
			fmt.Fprintf(out, "Valid: %t\n", session.Valid())
			return nil
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ClearSession(sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authStatusCmd, authLogoutCmd)

	authLoginCmd.Flags().StringVar(&authToken, "token", "", "Access token issued by the backend")
	authLoginCmd.Flags().DurationVar(&authExpiresIn, "expires-in", 0, "Token lifetime (0 = no expiry)")
	authLoginCmd.Flags().StringVar(&authUser, "user", "", "User name to show in status")
}
