package cmd

import (
	"context"
	"fmt"
	"go/types"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	cmdUtils "github.com/meridianpay/wallet-platform-backend/cmd/utils"
	"github.com/meridianpay/wallet-platform-backend/db"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

const resetTokenExpiration = 24 * time.Hour

// PasswordPromptInterface prompts the operator for a password and returns it.
type PasswordPromptInterface interface {
	Run() (string, error)
}

// NewDefaultPasswordPrompt returns a masked terminal prompt used to read the
// new user's password when the --password flag is set.
func NewDefaultPasswordPrompt() PasswordPromptInterface {
	return &promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
}

type AddUserCommand struct{}

func (a *AddUserCommand) Command(passwordPrompt PasswordPromptInterface) *cobra.Command {
	var roles []string
	var isOwner, promptForPassword bool

	availableRoles := data.FromUserRoleArrayToStringArray(data.GetAllRoles())

	configOpts := cmdUtils.ConfigOptions{
		{
			Name:        "owner",
			Usage:       `Set the user as Owner (superuser). Defaults to "false".`,
			OptType:     types.Bool,
			ConfigKey:   &isOwner,
			FlagDefault: false,
			Required:    false,
		},
		{
			Name:           "roles",
			Usage:          fmt.Sprintf("Set the user roles. It should be comma separated. Example: owner,developer. Options: %s.", strings.Join(availableRoles, ", ")),
			OptType:        types.String,
			ConfigKey:      &roles,
			CustomSetValue: cmdUtils.SetConfigOptionRoles,
			Required:       false,
		},
		{
			Name:        "password",
			Usage:       fmt.Sprintf("Sets the user password, it should be at least %d characters long, if omitted, the command will generate a random one.", auth.MinPasswordLength),
			OptType:     types.Bool,
			ConfigKey:   &promptForPassword,
			FlagDefault: false,
			Required:    false,
		},
	}

	cmd := &cobra.Command{
		Use:   "add-user <email> <first name> <last name> [--owner] [--roles] [--password]",
		Short: "Add a new user",
		Long:  fmt.Sprintf("Add a user to the system. Email should be unique and password must be at least %d characters long.", auth.MinPasswordLength),
		Args:  cobra.ExactArgs(3),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cmd.Parent().PersistentPreRun(cmd.Parent(), args)

			if err := configOpts.Require(); err != nil {
				logging.L(ctx).Fatalf("Error checking required config options: %v", err)
			}
			if err := configOpts.SetValues(); err != nil {
				logging.L(ctx).Fatalf("Error setting values of config options: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email, firstName, lastName := args[0], args[1], args[2]

			if err := validateRoles(availableRoles, roles); err != nil {
				return err
			}

			// An empty password makes the authenticator generate a random
			// one. The invitee then picks their own through the password
			// reset flow.
			var password string
			if promptForPassword {
				var err error
				password, err = passwordPrompt.Run()
				if err != nil {
					return fmt.Errorf("running password prompt: %w", err)
				}
			}

			err := execAddUser(ctx, globalOptions.DatabaseURL, globalOptions.DatabaseName, email, firstName, lastName, password, isOwner, roles)
			if err != nil {
				return fmt.Errorf("adding user: %w", err)
			}

			logging.L(ctx).Infof("user inserted: %s", email)
			return nil
		},
	}
	if err := configOpts.Init(cmd); err != nil {
		logging.L(context.Background()).Fatalf("Error initializing a config option: %v", err)
	}

	return cmd
}

// execAddUser opens a connection to the document store and inserts the user.
func execAddUser(ctx context.Context, databaseURL, databaseName, email, firstName, lastName, password string, isOwner bool, roles []string) error {
	mongoPool, err := db.OpenMongoPool(ctx, databaseURL, databaseName)
	if err != nil {
		return fmt.Errorf("opening mongo pool: %w", err)
	}
	defer func() {
		if closeErr := mongoPool.Close(ctx); closeErr != nil {
			logging.L(ctx).Errorf("closing mongo pool: %v", closeErr)
		}
	}()

	if err = auth.EnsureIndexes(ctx, mongoPool); err != nil {
		return fmt.Errorf("ensuring auth indexes: %w", err)
	}

	authManager := auth.NewAuthManager(
		auth.WithDefaultAuthenticatorOption(mongoPool, auth.NewDefaultPasswordEncrypter(), resetTokenExpiration),
		auth.WithDefaultRoleManagerOption(mongoPool, data.OwnerUserRole.String()),
	)

	newUser := &auth.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsOwner:   isOwner,
		Roles:     roles,
	}
	if err = newUser.Validate(); err != nil {
		return fmt.Errorf("validating user fields: %w", err)
	}

	if _, err = authManager.CreateUser(ctx, newUser, password); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func validateRoles(availableRoles, roles []string) error {
	availableRolesMap := make(map[string]struct{}, len(availableRoles))
	for _, role := range availableRoles {
		availableRolesMap[role] = struct{}{}
	}

	for _, role := range roles {
		if _, ok := availableRolesMap[role]; !ok {
			return fmt.Errorf("invalid role provided. Expected one of these values: %s", strings.Join(availableRoles, " | "))
		}
	}

	return nil
}
