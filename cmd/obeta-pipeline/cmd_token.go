package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Appy-Anand/obeta-project/internal/application/auth"
	"github.com/Appy-Anand/obeta-project/pkg/config"
	"github.com/Appy-Anand/obeta-project/pkg/jwt"
)

var (
	tokenSubject string
	tokenRole    string
	tokenExpires int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an operator bearer token for scripting",
	Long: `Signs a JWT with the configured secret, bypassing the password
check. Useful for cron jobs and smoke tests that call the HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		subject := tokenSubject
		if subject == "" {
			subject = cfg.Auth.OperatorUser
		}
		expires := tokenExpires
		if expires <= 0 {
			expires = cfg.JWT.Expiration
		}

		token, err := jwt.Generate(cfg.JWT.Secret, subject, tokenRole, cfg.JWT.Issuer, expires)
		if err != nil {
			return err
		}
		cmd.Println(token)
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Bcrypt-hash a password for the operator credentials config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		cmd.Println(string(hash))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, default: configured operator user")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleOperator, "token role claim")
	tokenCmd.Flags().IntVar(&tokenExpires, "expires", 0, "token lifetime in minutes, default: configured expiration")
	tokenCmd.AddCommand(hashPasswordCmd)
}
