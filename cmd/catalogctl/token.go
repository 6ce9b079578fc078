package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GTDGit/grocery_api/internal/utils"
)

const (
	subjectFlag = "subject"
	ttlFlag     = "ttl"
)

func newTokenCommand(v *viper.Viper) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		subjectFlag: &cobraflags.StringFlag{
			Name:  subjectFlag,
			Value: "",
			Usage: "Operator name recorded in the token (required)",
		},
		ttlFlag: &cobraflags.StringFlag{
			Name:  ttlFlag,
			Value: "24h",
			Usage: "Token lifetime",
		},
	}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin JWT signed with $JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject := flags[subjectFlag].GetString()
			if subject == "" {
				return errors.New("--subject is required")
			}
			ttl, err := time.ParseDuration(flags[ttlFlag].GetString())
			if err != nil || ttl <= 0 {
				return fmt.Errorf("invalid --ttl %q", flags[ttlFlag].GetString())
			}

			token, err := utils.GenerateJWT(v.GetString("JWT_SECRET"), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
