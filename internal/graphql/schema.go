// Package graphql assembles the GraphQL schema served by the API. The
// schema is built at startup from a TypeCreator holding the object types
// and a Resolver carrying the service dependencies.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
)

// NewSchema creates the executable schema with the query and mutation
// roots wired to the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	creator := NewTypeCreator()

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery(r, creator),
		Mutation: rootMutation(r, creator),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("creating graphql schema: %w", err)
	}

	return schema, nil
}
