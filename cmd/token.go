package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/utils"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff token for the admin routes and the floor board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			if role != middlewares.RoleHost && role != middlewares.RoleManager {
				return fmt.Errorf("invalid --role %q (want %s or %s)", role, middlewares.RoleHost, middlewares.RoleManager)
			}
			if ttl <= 0 {
				ttl = cfg.StaffTokenTTL
			}

			token, err := utils.GenerateStaffToken([]byte(cfg.StaffTokenSecret), subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().StringVar(&subject, "subject", "", "staff member the token is issued to")
	c.Flags().StringVar(&role, "role", middlewares.RoleHost, "host or manager")
	c.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default STAFF_TOKEN_TTL)")
	return c
}
