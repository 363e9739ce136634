package httphandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/httperror"
)

// graphqlRequest is the standard GraphQL-over-HTTP POST body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler executes GraphQL requests against the schema. Errors raised
// by resolvers travel in the response body per the GraphQL spec; only
// malformed requests produce a non-200 status.
type GraphQLHandler struct {
	Schema graphql.Schema
}

// ServeHTTP implements the http.Handler interface.
func (h GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperror.BadRequest("The request body is not valid JSON.", err, nil).Render(w)
		return
	}
	if req.Query == "" {
		httperror.BadRequest("The query field is required.", nil, nil).Render(w)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logging.L(ctx).Errorf("writing graphql response: %v", err)
	}
}

// PlaygroundHandler serves the GraphiQL in-browser IDE pointed at the given
// GraphQL endpoint.
type PlaygroundHandler struct {
	GraphQLPath string
}

const playgroundPage = `<!DOCTYPE html>
<html>
  <head>
    <title>GraphQL Playground</title>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
  </head>
  <body style="margin: 0;">
    <div id="graphiql" style="height: 100vh;"></div>
    <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
      const root = ReactDOM.createRoot(document.getElementById('graphiql'));
      root.render(
        React.createElement(GraphiQL, {
          fetcher: GraphiQL.createFetcher({ url: '%%GRAPHQL_PATH%%' }),
        }),
      );
    </script>
  </body>
</html>`

// ServeHTTP implements the http.Handler interface.
func (h PlaygroundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := h.GraphQLPath
	if path == "" {
		path = "/graphql"
	}
	page := strings.ReplaceAll(playgroundPage, "%%GRAPHQL_PATH%%", path)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page)); err != nil {
		logging.L(r.Context()).Errorf("writing playground response: %v", err)
	}
}
