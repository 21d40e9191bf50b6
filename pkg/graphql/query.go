package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
)

// ExecuteQuery runs a query string against the schema.
func ExecuteQuery(ctx context.Context, schema graphql.Schema, query string) *graphql.Result {
	return ExecuteQueryWithVariables(ctx, schema, query, nil, "")
}

// ExecuteQueryWithVariables runs a query with variable bindings and an
// optional operation name.
func ExecuteQueryWithVariables(ctx context.Context, schema graphql.Schema, query string, variables map[string]any, operationName string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        ctx,
	})
}
