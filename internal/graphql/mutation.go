package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/htmltemplate"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/message"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

func rootMutation(r *Resolver, c *TypeCreator) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: c.AuthPayload(),
				Args: graphql.FieldConfigArgument{
					"firstName":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lastName":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phoneNumber": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveSignup(p)
				},
			},
			"login": &graphql.Field{
				Type: c.AuthPayload(),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"deviceId": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveLogin(p)
				},
			},
			"loginOtp": &graphql.Field{
				Type: c.AuthPayload(),
				Args: graphql.FieldConfigArgument{
					"deviceId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"code":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"rememberMe": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveLoginOTP(p)
				},
			},
			"refreshToken": &graphql.Field{
				Type: c.AuthPayload(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveRefreshToken(p)
				},
			},
			"forgotPassword": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveForgotPassword(p)
				},
			},
			"resetPassword": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"resetToken": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveResetPassword(p)
				},
			},
			"updatePassword": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"currentPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newPassword":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveUpdatePassword(p)
				},
			},
			"updateProfile": &graphql.Field{
				Type: c.User(),
				Args: graphql.FieldConfigArgument{
					"firstName": &graphql.ArgumentConfig{Type: graphql.String},
					"lastName":  &graphql.ArgumentConfig{Type: graphql.String},
					"email":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveUpdateProfile(p)
				},
			},
			"createUser": &graphql.Field{
				Type: c.User(),
				Args: graphql.FieldConfigArgument{
					"firstName":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lastName":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phoneNumber": &graphql.ArgumentConfig{Type: graphql.String},
					"roles":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveCreateUser(p)
				},
			},
			"updateUserRoles": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"roles":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveUpdateUserRoles(p)
				},
			},
			"setUserStatus": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"userId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"isActive": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveSetUserStatus(p)
				},
			},
			"createApiKey": &graphql.Field{
				Type: c.APIKey(),
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"permissions": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.String))},
					"allowedIps":  &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"expiryDate":  &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveCreateAPIKey(p)
				},
			},
			"deleteApiKey": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveDeleteAPIKey(p)
				},
			},
			"createWallet": &graphql.Field{
				Type: c.Wallet(),
				Args: graphql.FieldConfigArgument{
					"asset": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"label": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveCreateWallet(p)
				},
			},
			"createTransfer": &graphql.Field{
				Type: c.Transaction(),
				Args: graphql.FieldConfigArgument{
					"walletId":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"destinationAddress": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"amount":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveCreateTransfer(p)
				},
			},
		},
	})
}

func (r *Resolver) resolveSignup(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	newUser := &auth.User{
		FirstName: p.Args["firstName"].(string),
		LastName:  p.Args["lastName"].(string),
		Email:     p.Args["email"].(string),
		Roles:     []string{data.OwnerUserRole.String()},
	}
	if phoneNumber, ok := p.Args["phoneNumber"].(string); ok {
		newUser.PhoneNumber = phoneNumber
	}
	if err := newUser.Validate(); err != nil {
		return nil, err
	}

	password := p.Args["password"].(string)
	if _, err := r.AuthManager.CreateUser(ctx, newUser, password); err != nil {
		if errors.Is(err, auth.ErrUserEmailAlreadyExists) {
			return nil, errors.New("an account with this email already exists")
		}
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, err
		}
		return nil, r.internalError(ctx, "creating user account", err)
	}

	token, err := r.AuthManager.Authenticate(ctx, newUser.Email, password)
	if err != nil {
		return nil, r.internalError(ctx, "authenticating new user", err)
	}

	logging.L(ctx).Infof("new account signed up for email %s", newUser.Email)

	return authPayloadToken(token), nil
}

func (r *Resolver) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	email := p.Args["email"].(string)

	token, err := r.AuthManager.Authenticate(ctx, email, p.Args["password"].(string))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, errInvalidCredentials
		}
		return nil, r.internalError(ctx, "authenticating user", err)
	}

	if !r.OTPEnabled {
		return authPayloadToken(token), nil
	}

	deviceID, _ := p.Args["deviceId"].(string)
	if deviceID == "" {
		return nil, errDeviceIDRequired
	}

	user, err := r.AuthManager.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, r.internalError(ctx, "resolving user for otp", err)
	}

	remembered, err := r.AuthManager.OTPDeviceRemembered(ctx, deviceID, user.ID)
	if err != nil {
		return nil, r.internalError(ctx, "checking remembered device", err)
	}
	if remembered {
		return authPayloadToken(token), nil
	}

	code, err := r.AuthManager.GetOTPCode(ctx, deviceID, user.ID)
	if err != nil {
		return nil, r.internalError(ctx, "generating otp code", err)
	}

	if err = r.sendOTPMessage(ctx, user, code); err != nil {
		return nil, r.internalError(ctx, "sending otp message", err)
	}

	return authPayloadOTPChallenge(), nil
}

func (r *Resolver) sendOTPMessage(ctx context.Context, user *auth.User, code string) error {
	body, err := htmltemplate.ExecuteHTMLTemplateForOTPEmailMessage(htmltemplate.OTPEmailMessageTemplate{
		OTPCode:          code,
		OrganizationName: r.organizationName(),
	})
	if err != nil {
		return fmt.Errorf("executing otp message template: %w", err)
	}

	msg := message.Message{
		ToEmail:       user.Email,
		ToPhoneNumber: user.PhoneNumber,
		Title:         "Your verification code",
		Body:          body,
	}

	_, err = r.MessageDispatcher.SendMessage(ctx, msg, []message.MessageChannel{message.MessageChannelEmail, message.MessageChannelSMS})
	if err != nil {
		return fmt.Errorf("dispatching otp message: %w", err)
	}
	return nil
}

func (r *Resolver) resolveLoginOTP(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	rememberMe, _ := p.Args["rememberMe"].(bool)
	token, err := r.AuthManager.AuthenticateOTP(ctx, p.Args["deviceId"].(string), p.Args["code"].(string), rememberMe)
	if err != nil {
		if errors.Is(err, auth.ErrOTPCodeInvalid) || errors.Is(err, auth.ErrOTPNoCodeForUserDevice) {
			return nil, errInvalidOTP
		}
		return nil, r.internalError(ctx, "authenticating otp", err)
	}

	return authPayloadToken(token), nil
}

func (r *Resolver) resolveRefreshToken(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	refreshed, err := r.AuthManager.RefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
			return nil, errNotAuthorized
		}
		return nil, r.internalError(ctx, "refreshing token", err)
	}

	return authPayloadToken(refreshed), nil
}

func (r *Resolver) resolveForgotPassword(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	email := p.Args["email"].(string)

	resetToken, err := r.AuthManager.ForgotPassword(ctx, email)
	if err != nil {
		// The reply never discloses whether the account exists.
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrUserHasValidToken) {
			return forgotPasswordSafeReply, nil
		}
		return nil, r.internalError(ctx, "starting password reset", err)
	}

	if r.MessageDispatcher != nil {
		if err = r.sendForgotPasswordMessage(ctx, email, resetToken); err != nil {
			return nil, r.internalError(ctx, "sending password reset message", err)
		}
	}

	return forgotPasswordSafeReply, nil
}

func (r *Resolver) sendForgotPasswordMessage(ctx context.Context, email, resetToken string) error {
	body, err := htmltemplate.ExecuteHTMLTemplateForForgotPasswordEmailMessage(htmltemplate.ForgotPasswordEmailMessageTemplate{
		ResetToken:        resetToken,
		ResetPasswordLink: r.BaseURL + resetPasswordLinkPath,
		OrganizationName:  r.organizationName(),
	})
	if err != nil {
		return fmt.Errorf("executing forgot password template: %w", err)
	}

	msg := message.Message{
		ToEmail: email,
		Title:   "Reset your password",
		Body:    body,
	}

	_, err = r.MessageDispatcher.SendMessage(ctx, msg, []message.MessageChannel{message.MessageChannelEmail})
	if err != nil {
		return fmt.Errorf("dispatching forgot password message: %w", err)
	}
	return nil
}

func (r *Resolver) resolveResetPassword(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	err := r.AuthManager.ResetPassword(ctx, p.Args["resetToken"].(string), p.Args["password"].(string))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidResetPasswordToken) {
			return nil, errors.New("the reset token is invalid or has expired")
		}
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, err
		}
		return nil, r.internalError(ctx, "resetting password", err)
	}

	return true, nil
}

func (r *Resolver) resolveUpdatePassword(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	err = r.AuthManager.UpdatePassword(ctx, token, p.Args["currentPassword"].(string), p.Args["newPassword"].(string))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, errInvalidCredentials
		}
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, err
		}
		return nil, r.internalError(ctx, "updating password", err)
	}

	return true, nil
}

func (r *Resolver) resolveUpdateProfile(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	firstName, _ := p.Args["firstName"].(string)
	lastName, _ := p.Args["lastName"].(string)
	email, _ := p.Args["email"].(string)

	if err = r.AuthManager.UpdateUser(ctx, token, firstName, lastName, email, ""); err != nil {
		return nil, r.internalError(ctx, "updating profile", err)
	}

	user, err := r.AuthManager.GetUser(ctx, token)
	if err != nil {
		return nil, r.internalError(ctx, "reloading profile", err)
	}
	return userView(user), nil
}

func (r *Resolver) resolveCreateUser(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if _, err := r.requireAnyRole(ctx, data.OwnerUserRole); err != nil {
		return nil, err
	}

	roles, err := parseRoles(p.Args["roles"])
	if err != nil {
		return nil, err
	}

	newUser := &auth.User{
		FirstName: p.Args["firstName"].(string),
		LastName:  p.Args["lastName"].(string),
		Email:     p.Args["email"].(string),
		Roles:     roles,
	}
	if phoneNumber, ok := p.Args["phoneNumber"].(string); ok {
		newUser.PhoneNumber = phoneNumber
	}
	if err = newUser.Validate(); err != nil {
		return nil, err
	}

	// A blank password generates a random one; the invitee picks their own
	// through the password reset flow.
	created, err := r.AuthManager.CreateUser(ctx, newUser, "")
	if err != nil {
		if errors.Is(err, auth.ErrUserEmailAlreadyExists) {
			return nil, errors.New("an account with this email already exists")
		}
		return nil, r.internalError(ctx, "creating user", err)
	}

	if r.MessageDispatcher != nil {
		if err = r.sendInvitationMessage(ctx, created); err != nil {
			return nil, r.internalError(ctx, "sending invitation message", err)
		}
	}

	return userView(created), nil
}

func (r *Resolver) sendInvitationMessage(ctx context.Context, user *auth.User) error {
	resetToken, err := r.AuthManager.ForgotPassword(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("creating invitation reset token: %w", err)
	}

	role := ""
	if len(user.Roles) > 0 {
		role = user.Roles[0]
	}

	body, err := htmltemplate.ExecuteHTMLTemplateForInvitationEmailMessage(htmltemplate.InvitationEmailMessageTemplate{
		FirstName:          user.FirstName,
		Role:               role,
		ForgotPasswordLink: r.BaseURL + resetPasswordLinkPath + "?token=" + resetToken,
		OrganizationName:   r.organizationName(),
	})
	if err != nil {
		return fmt.Errorf("executing invitation template: %w", err)
	}

	msg := message.Message{
		ToEmail: user.Email,
		Title:   "Welcome to " + r.organizationName(),
		Body:    body,
	}

	_, err = r.MessageDispatcher.SendMessage(ctx, msg, []message.MessageChannel{message.MessageChannelEmail})
	if err != nil {
		return fmt.Errorf("dispatching invitation message: %w", err)
	}
	return nil
}

func (r *Resolver) resolveUpdateUserRoles(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireAnyRole(ctx, data.OwnerUserRole)
	if err != nil {
		return nil, err
	}

	roles, err := parseRoles(p.Args["roles"])
	if err != nil {
		return nil, err
	}

	if err = r.AuthManager.UpdateUserRoles(ctx, token, p.Args["userId"].(string), roles); err != nil {
		if errors.Is(err, auth.ErrNoDocumentsAffected) {
			return nil, errors.New("user not found")
		}
		return nil, r.internalError(ctx, "updating user roles", err)
	}

	return true, nil
}

func (r *Resolver) resolveSetUserStatus(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireAnyRole(ctx, data.OwnerUserRole)
	if err != nil {
		return nil, err
	}

	userID := p.Args["userId"].(string)
	if p.Args["isActive"].(bool) {
		err = r.AuthManager.ActivateUser(ctx, token, userID)
	} else {
		err = r.AuthManager.DeactivateUser(ctx, token, userID)
	}
	if err != nil {
		if errors.Is(err, auth.ErrNoDocumentsAffected) {
			return nil, errors.New("user not found")
		}
		return nil, r.internalError(ctx, "updating user status", err)
	}

	return true, nil
}

func (r *Resolver) resolveCreateAPIKey(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if _, err := r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole, data.DeveloperUserRole); err != nil {
		return nil, err
	}
	userID, err := r.requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	rawPerms, _ := p.Args["permissions"].([]interface{})
	permissions := make([]data.APIKeyPermission, 0, len(rawPerms))
	for _, perm := range rawPerms {
		permStr, ok := perm.(string)
		if !ok {
			return nil, errors.New("permissions must be strings")
		}
		permissions = append(permissions, data.APIKeyPermission(permStr))
	}
	if err = data.ValidatePermissions(permissions); err != nil {
		return nil, err
	}

	var allowedIPs []string
	if rawIPs, ok := p.Args["allowedIps"].([]interface{}); ok {
		for _, ip := range rawIPs {
			ipStr, ok := ip.(string)
			if !ok {
				return nil, errors.New("allowed IPs must be strings")
			}
			allowedIPs = append(allowedIPs, ipStr)
		}
		if err = data.ValidateAllowedIPs(allowedIPs); err != nil {
			return nil, err
		}
	}

	var expiry *time.Time
	if expiryDate, ok := p.Args["expiryDate"].(time.Time); ok {
		if expiryDate.Before(time.Now().UTC()) {
			return nil, errors.New("expiry date must be in the future")
		}
		expiry = &expiryDate
	}

	apiKey, err := r.Models.APIKeys.Insert(ctx, p.Args["name"].(string), permissions, allowedIPs, expiry, userID)
	if err != nil {
		return nil, r.internalError(ctx, "creating api key", err)
	}

	logging.L(ctx).Infof("created api key %s for user %s", apiKey.ID, userID)

	return apiKeyView(apiKey), nil
}

func (r *Resolver) resolveDeleteAPIKey(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if _, err := r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole, data.DeveloperUserRole); err != nil {
		return nil, err
	}
	userID, err := r.requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err = r.Models.APIKeys.Delete(ctx, p.Args["id"].(string), userID); err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, errors.New("api key not found")
		}
		return nil, r.internalError(ctx, "deleting api key", err)
	}

	return true, nil
}

func (r *Resolver) resolveCreateWallet(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.WriteWallets)
	if err != nil {
		return nil, err
	}

	label, _ := p.Args["label"].(string)
	wallet, err := r.WalletService.CreateWallet(ctx, userID, p.Args["asset"].(string), label)
	if err != nil {
		if errors.Is(err, data.ErrRecordAlreadyExists) {
			return nil, errors.New("a wallet with this asset and label already exists")
		}
		return nil, r.internalError(ctx, "creating wallet", err)
	}

	return walletView(wallet), nil
}

func (r *Resolver) resolveCreateTransfer(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.WriteTransactions)
	if err != nil {
		return nil, err
	}

	transaction, err := r.WalletService.CreateTransfer(
		ctx,
		userID,
		p.Args["walletId"].(string),
		p.Args["destinationAddress"].(string),
		p.Args["amount"].(string),
	)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, errWalletNotFound
		}
		return nil, r.internalError(ctx, "creating transfer", err)
	}

	return transactionView(transaction), nil
}

func parseRoles(arg interface{}) ([]string, error) {
	rawRoles, _ := arg.([]interface{})
	roles := make([]string, 0, len(rawRoles))
	for _, role := range rawRoles {
		roleStr, ok := role.(string)
		if !ok {
			return nil, errors.New("roles must be strings")
		}
		if !data.UserRole(roleStr).IsValid() {
			return nil, fmt.Errorf("invalid role %q", roleStr)
		}
		roles = append(roles, roleStr)
	}
	if len(roles) == 0 {
		return nil, errors.New("at least one role is required")
	}
	return roles, nil
}
