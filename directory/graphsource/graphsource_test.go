package graphsource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylekyl-khan/contacts-server/directory/graphsource"
)

func graphUser(id, name, mail, dept, office string) map[string]any {
	return map[string]any{
		"id":             id,
		"displayName":    name,
		"mail":           mail,
		"department":     dept,
		"officeLocation": office,
		"jobTitle":       "Engineer",
		"businessPhones": []string{"07-123"},
		"accountEnabled": true,
	}
}

// newSource spins up a fake token endpoint plus Graph API and returns a
// Source pointed at them, along with the Graph base URL for building
// next-page links.
func newSource(t *testing.T, graph http.HandlerFunc) (*graphsource.Source, string) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token_type":   "Bearer",
			"access_token": "app-token",
			"expires_in":   3600,
		})
	})
	mux.Handle("/graph/", http.StripPrefix("/graph", graph))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	source := graphsource.New(context.Background(), graphsource.Options{
		ClientID:     "app-client",
		ClientSecret: "app-secret",
		TokenURL:     server.URL + "/token",
		Scopes:       []string{"https://graph.microsoft.com/.default"},
		BaseURL:      server.URL + "/graph",
		CompanyID:    "KH",
	}, zerolog.Nop())
	return source, server.URL + "/graph"
}

func TestActiveEmployeesPaging(t *testing.T) {
	var baseURL string
	calls := 0

	source, graphURL := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		require.Equal(t, "/users", r.URL.Path)
		calls++

		w.Header().Set("Content-Type", "application/json")
		switch calls {
		case 1:
			assert.Equal(t, "accountEnabled eq true", r.URL.Query().Get("$filter"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value":           []any{graphUser("u1", "Alice", "alice@example.com", "Sales", "A")},
				"@odata.nextLink": baseURL + "/users?page=2",
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": []any{graphUser("u2", "Bob", "bob@example.com", "Sales", "B")},
			})
		}
	})
	baseURL = graphURL

	employees, err := source.ActiveEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "u1", employees[0].EmployeeID)
	assert.Equal(t, "Alice", employees[0].Name)
	assert.Equal(t, "A", employees[0].Campus)
	assert.Equal(t, "Sales", employees[0].DeptID)
	assert.Equal(t, "07-123", employees[0].PhoneNo)
	assert.Equal(t, "enabled", employees[0].Status)
	assert.Equal(t, "u2", employees[1].EmployeeID)
}

func TestEmployeeByEmail(t *testing.T) {
	source, _ := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/alice@example.com":
			_ = json.NewEncoder(w).Encode(graphUser("u1", "Alice", "alice@example.com", "Sales", "A"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	employee, err := source.EmployeeByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.Equal(t, "Alice", employee.Name)

	// Unknown users are an absence, not an error.
	employee, err = source.EmployeeByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, employee)
}

func TestCompanyFallback(t *testing.T) {
	source, _ := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user := graphUser("u1", "", "", "", "")
		user["userPrincipalName"] = "upn@example.com"
		_ = json.NewEncoder(w).Encode(map[string]any{"value": []any{user}})
	})

	employees, err := source.ActiveEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)

	// Empty companyName falls back to the configured company, missing mail
	// to the principal name, missing displayName to the email.
	assert.Equal(t, "KH", employees[0].CompanyID)
	assert.Equal(t, "upn@example.com", employees[0].Email)
	assert.Equal(t, "upn@example.com", employees[0].Name)
}

func TestUpstreamFailure(t *testing.T) {
	source, _ := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := source.ActiveEmployees(context.Background())
	require.Error(t, err)

	require.Error(t, source.Ping(context.Background()))
}
