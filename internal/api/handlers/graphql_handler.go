package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/isdelr/postboard-be/internal/apperr"
)

// GraphQLHandler executes GraphQL operations against the schema and renders
// errors in the uniform {message, status, data} shape.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a new GraphQLHandler.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type graphqlResponse struct {
	Data   interface{} `json:"data,omitempty"`
	Errors []errorBody `json:"errors,omitempty"`
}

// Serve handles a single GraphQL request. On errors the HTTP status mirrors
// the first error's status, so REST and GraphQL callers see the same codes.
func (h *GraphQLHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, graphqlResponse{
				Errors: []errorBody{{Message: "Invalid request body", Status: http.StatusBadRequest}},
			})
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	resp := graphqlResponse{Data: result.Data}
	status := http.StatusOK
	for i, fe := range result.Errors {
		body := formatError(fe)
		if i == 0 && body.Status != 0 {
			status = body.Status
		}
		resp.Errors = append(resp.Errors, body)
	}
	respondJSON(w, status, resp)
}

// formatError maps an execution error onto the shared error shape. Errors
// without an underlying cause are query-level (parse/validation) failures.
func formatError(fe gqlerrors.FormattedError) errorBody {
	err := originalError(fe)
	if err == nil {
		return errorBody{Message: fe.Message, Status: http.StatusBadRequest}
	}
	appErr := apperr.From(err)
	return errorBody{Message: appErr.Message, Status: appErr.HTTPStatus, Data: appErr.Details}
}

// originalError digs the resolver's own error out of the gqlerrors wrapping.
func originalError(fe gqlerrors.FormattedError) error {
	err := fe.OriginalError()
	for {
		switch e := err.(type) {
		case *gqlerrors.Error:
			err = e.OriginalError
		case gqlerrors.Error:
			err = e.OriginalError
		default:
			return err
		}
	}
}
