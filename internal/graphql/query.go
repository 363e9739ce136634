package graphql

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/meridianpay/wallet-platform-backend/internal/data"
)

func rootQuery(r *Resolver, c *TypeCreator) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: c.User(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveMe(p)
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(c.User()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveUsers(p)
				},
			},
			"apiKeys": &graphql.Field{
				Type: graphql.NewList(c.APIKey()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveAPIKeys(p)
				},
			},
			"apiKey": &graphql.Field{
				Type: c.APIKey(),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveAPIKey(p)
				},
			},
			"wallets": &graphql.Field{
				Type: graphql.NewList(c.Wallet()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveWallets(p)
				},
			},
			"wallet": &graphql.Field{
				Type: c.Wallet(),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveWallet(p)
				},
			},
			"walletBalance": &graphql.Field{
				Type: c.Balance(),
				Args: graphql.FieldConfigArgument{
					"walletId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveWalletBalance(p)
				},
			},
			"balances": &graphql.Field{
				Type: graphql.NewList(c.WalletBalance()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveBalances(p)
				},
			},
			"transactions": &graphql.Field{
				Type: c.TransactionsPage(),
				Args: graphql.FieldConfigArgument{
					"walletId":  &graphql.ArgumentConfig{Type: graphql.ID},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int},
					"pageLimit": &graphql.ArgumentConfig{Type: graphql.Int},
					"status":    &graphql.ArgumentConfig{Type: graphql.String},
					"direction": &graphql.ArgumentConfig{Type: graphql.String},
					"asset":     &graphql.ArgumentConfig{Type: graphql.String},
					"after":     &graphql.ArgumentConfig{Type: graphql.DateTime},
					"before":    &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveTransactions(p)
				},
			},
			"transferFee": &graphql.Field{
				Type: c.TransferFee(),
				Args: graphql.FieldConfigArgument{
					"walletId":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"destinationAddress": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"amount":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveTransferFee(p)
				},
			},
			"exchangeRate": &graphql.Field{
				Type: c.ExchangeRate(),
				Args: graphql.FieldConfigArgument{
					"baseAsset":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"quoteAsset": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.resolveExchangeRate(p)
				},
			},
		},
	})
}

func (r *Resolver) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if token, ok := tokenFromContext(ctx); ok {
		user, err := r.AuthManager.GetUser(ctx, token)
		if err != nil {
			return nil, errNotAuthorized
		}
		return userView(user), nil
	}

	// API-key callers resolve to the key's creator.
	userID, err := r.requirePermission(ctx, data.ReadUsers)
	if err != nil {
		return nil, err
	}
	users, err := r.AuthManager.GetUsersByID(ctx, []string{userID})
	if err != nil || len(users) == 0 {
		return nil, r.internalError(ctx, "resolving api key owner", err)
	}
	return userView(users[0]), nil
}

func (r *Resolver) resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	token, err := r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole)
	if err != nil {
		return nil, err
	}

	users, err := r.AuthManager.GetAllUsers(ctx, token)
	if err != nil {
		return nil, r.internalError(ctx, "listing users", err)
	}

	views := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return views, nil
}

func (r *Resolver) resolveAPIKeys(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	_, err := r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole, data.DeveloperUserRole)
	if err != nil {
		return nil, err
	}
	userID, err := r.requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := r.Models.APIKeys.GetAll(ctx, userID)
	if err != nil {
		return nil, r.internalError(ctx, "listing api keys", err)
	}

	views := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		views = append(views, apiKeyView(key))
	}
	return views, nil
}

func (r *Resolver) resolveAPIKey(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	_, err := r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole, data.DeveloperUserRole)
	if err != nil {
		return nil, err
	}
	userID, err := r.requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	key, err := r.Models.APIKeys.GetByID(ctx, p.Args["id"].(string), userID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, errors.New("api key not found")
		}
		return nil, r.internalError(ctx, "getting api key", err)
	}
	return apiKeyView(key), nil
}

func (r *Resolver) resolveWallets(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadWallets)
	if err != nil {
		return nil, err
	}

	wallets, err := r.WalletService.GetWallets(ctx, userID)
	if err != nil {
		return nil, r.internalError(ctx, "listing wallets", err)
	}

	views := make([]map[string]interface{}, 0, len(wallets))
	for i := range wallets {
		views = append(views, walletView(&wallets[i]))
	}
	return views, nil
}

func (r *Resolver) resolveWallet(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadWallets)
	if err != nil {
		return nil, err
	}

	wallet, err := r.WalletService.GetWallet(ctx, userID, p.Args["id"].(string))
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, errWalletNotFound
		}
		return nil, r.internalError(ctx, "getting wallet", err)
	}
	return walletView(wallet), nil
}

func (r *Resolver) resolveWalletBalance(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadWallets)
	if err != nil {
		return nil, err
	}

	wallet, err := r.WalletService.GetWallet(ctx, userID, p.Args["walletId"].(string))
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, errWalletNotFound
		}
		return nil, r.internalError(ctx, "getting wallet", err)
	}

	balance, err := r.BalanceService.GetWalletBalance(ctx, wallet)
	if err != nil {
		return nil, r.internalError(ctx, "computing wallet balance", err)
	}
	return balanceView(balance), nil
}

func (r *Resolver) resolveBalances(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadWallets)
	if err != nil {
		return nil, err
	}

	wallets, err := r.WalletService.GetWallets(ctx, userID)
	if err != nil {
		return nil, r.internalError(ctx, "listing wallets", err)
	}

	balances := r.BalanceService.AggregateBalances(ctx, wallets)

	views := make([]map[string]interface{}, 0, len(balances))
	for _, wb := range balances {
		views = append(views, walletBalanceView(wb))
	}
	return views, nil
}

func (r *Resolver) resolveTransactions(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadTransactions)
	if err != nil {
		return nil, err
	}

	qp := data.QueryParams{
		Filters: map[data.FilterKey]interface{}{
			data.FilterKeyUserID: userID,
		},
	}
	if page, ok := p.Args["page"].(int); ok {
		qp.Page = page
	}
	if pageLimit, ok := p.Args["pageLimit"].(int); ok {
		qp.PageLimit = pageLimit
	}
	if walletID, ok := p.Args["walletId"].(string); ok && walletID != "" {
		qp.Filters[data.FilterKeyWalletID] = walletID
	}
	if status, ok := p.Args["status"].(string); ok && status != "" {
		qp.Filters[data.FilterKeyStatus] = status
	}
	if direction, ok := p.Args["direction"].(string); ok && direction != "" {
		qp.Filters[data.FilterKeyDirection] = direction
	}
	if asset, ok := p.Args["asset"].(string); ok && asset != "" {
		qp.Filters[data.FilterKeyAsset] = asset
	}
	if after, ok := p.Args["after"].(time.Time); ok {
		qp.Filters[data.FilterKeyCreatedAtAfter] = after
	}
	if before, ok := p.Args["before"].(time.Time); ok {
		qp.Filters[data.FilterKeyCreatedAtBefore] = before
	}
	qp.Normalize()

	transactions, total, err := r.Models.Transactions.GetAll(ctx, qp)
	if err != nil {
		return nil, r.internalError(ctx, "listing transactions", err)
	}

	// Pending mirrors are reconciled against the custody platform on read, so
	// the listing reflects transfers that settled since submission.
	r.WalletService.RefreshPendingTransfers(ctx, transactions)

	views := make([]map[string]interface{}, 0, len(transactions))
	for _, tx := range transactions {
		views = append(views, transactionView(tx))
	}

	return map[string]interface{}{
		"transactions": views,
		"total":        int(total),
		"page":         qp.Page,
		"pageLimit":    qp.PageLimit,
	}, nil
}

func (r *Resolver) resolveTransferFee(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	userID, err := r.requirePermission(ctx, data.ReadTransactions)
	if err != nil {
		return nil, err
	}

	fee, err := r.WalletService.EstimateTransferFee(
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
		return nil, r.internalError(ctx, "estimating transfer fee", err)
	}
	return transferFeeView(fee), nil
}

func (r *Resolver) resolveExchangeRate(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	if _, err := r.requirePermission(ctx, data.ReadStatistics); err != nil {
		return nil, err
	}

	rate, err := r.RateService.GetExchangeRate(ctx, p.Args["baseAsset"].(string), p.Args["quoteAsset"].(string))
	if err != nil {
		return nil, r.internalError(ctx, "getting exchange rate", err)
	}
	return rateView(rate), nil
}
