package graphql

import (
	"github.com/graphql-go/graphql"
)

const (
	userType             = "User"
	authPayloadType      = "AuthPayload"
	apiKeyType           = "ApiKey"
	walletType           = "Wallet"
	balanceType          = "Balance"
	walletBalanceType    = "WalletBalance"
	transactionType      = "Transaction"
	transactionsPageType = "TransactionsPage"
	transferFeeType      = "TransferFee"
	exchangeRateType     = "ExchangeRate"
)

// TypeCreator holds the schema's object types so resolvers can reference them
// by getter instead of rebuilding them per field.
type TypeCreator struct {
	user             *graphql.Object
	authPayload      *graphql.Object
	apiKey           *graphql.Object
	wallet           *graphql.Object
	balance          *graphql.Object
	walletBalance    *graphql.Object
	transaction      *graphql.Object
	transactionsPage *graphql.Object
	transferFee      *graphql.Object
	exchangeRate     *graphql.Object
}

func NewTypeCreator() *TypeCreator {
	c := &TypeCreator{}

	c.user = graphql.NewObject(graphql.ObjectConfig{
		Name: userType,
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"firstName":   &graphql.Field{Type: graphql.String},
			"lastName":    &graphql.Field{Type: graphql.String},
			"email":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phoneNumber": &graphql.Field{Type: graphql.String},
			"isActive":    &graphql.Field{Type: graphql.Boolean},
			"roles":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	// authPayload is returned by login-family mutations. Either token is set,
	// or otpRequired is true and the client must follow up with loginOtp.
	c.authPayload = graphql.NewObject(graphql.ObjectConfig{
		Name: authPayloadType,
		Fields: graphql.Fields{
			"token":       &graphql.Field{Type: graphql.String},
			"otpRequired": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message":     &graphql.Field{Type: graphql.String},
		},
	})

	c.apiKey = graphql.NewObject(graphql.ObjectConfig{
		Name: apiKeyType,
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"key":         &graphql.Field{Type: graphql.String},
			"permissions": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"allowedIps":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"expiryDate":  &graphql.Field{Type: graphql.DateTime},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"lastUsedAt":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	c.wallet = graphql.NewObject(graphql.ObjectConfig{
		Name: walletType,
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"asset":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"address":   &graphql.Field{Type: graphql.String},
			"label":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	// Amount components are decimal strings so clients never lose precision
	// to float coercion.
	c.balance = graphql.NewObject(graphql.ObjectConfig{
		Name: balanceType,
		Fields: graphql.Fields{
			"asset":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"total":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"available":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"pendingCredit": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"pendingDebit":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	c.walletBalance = graphql.NewObject(graphql.ObjectConfig{
		Name: walletBalanceType,
		Fields: graphql.Fields{
			"walletId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"asset":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"balance":  &graphql.Field{Type: c.balance},
			"error":    &graphql.Field{Type: graphql.String},
		},
	})

	c.transaction = graphql.NewObject(graphql.ObjectConfig{
		Name: transactionType,
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"walletId":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"custodyTransferId": &graphql.Field{Type: graphql.String},
			"direction":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"amount":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"fee":               &graphql.Field{Type: graphql.String},
			"asset":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"counterparty":      &graphql.Field{Type: graphql.String},
			"createdAt":         &graphql.Field{Type: graphql.DateTime},
			"updatedAt":         &graphql.Field{Type: graphql.DateTime},
		},
	})

	c.transactionsPage = graphql.NewObject(graphql.ObjectConfig{
		Name: transactionsPageType,
		Fields: graphql.Fields{
			"transactions": &graphql.Field{Type: graphql.NewList(c.transaction)},
			"total":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"page":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageLimit":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	c.transferFee = graphql.NewObject(graphql.ObjectConfig{
		Name: transferFeeType,
		Fields: graphql.Fields{
			"asset":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"amount": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"fee":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"total":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	c.exchangeRate = graphql.NewObject(graphql.ObjectConfig{
		Name: exchangeRateType,
		Fields: graphql.Fields{
			"baseAsset":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"quoteAsset": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"rate":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"timestamp":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	return c
}

func (c *TypeCreator) User() *graphql.Object             { return c.user }
func (c *TypeCreator) AuthPayload() *graphql.Object      { return c.authPayload }
func (c *TypeCreator) APIKey() *graphql.Object           { return c.apiKey }
func (c *TypeCreator) Wallet() *graphql.Object           { return c.wallet }
func (c *TypeCreator) Balance() *graphql.Object          { return c.balance }
func (c *TypeCreator) WalletBalance() *graphql.Object    { return c.walletBalance }
func (c *TypeCreator) Transaction() *graphql.Object      { return c.transaction }
func (c *TypeCreator) TransactionsPage() *graphql.Object { return c.transactionsPage }
func (c *TypeCreator) TransferFee() *graphql.Object      { return c.transferFee }
func (c *TypeCreator) ExchangeRate() *graphql.Object     { return c.exchangeRate }
