// Package graphsource reads the employee roster from the Microsoft Graph
// directory using an application (client-credentials) token.
package graphsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kylekyl-khan/contacts-server/directory"
)

const selectFields = "id,displayName,mail,userPrincipalName,jobTitle,department,officeLocation," +
	"companyName,mobilePhone,businessPhones,accountEnabled"

const pageSize = 999

// Options configures the Graph client.
type Options struct {
	ClientID     string
	ClientSecret string
	TokenURL     string   // provider token endpoint for client credentials
	Scopes       []string // e.g. https://graph.microsoft.com/.default
	BaseURL      string   // e.g. https://graph.microsoft.com/v1.0
	CompanyID    string   // fallback when a user record carries no company
}

// Source is the Graph-backed directory.Source implementation.
type Source struct {
	client    *http.Client
	baseURL   string
	companyID string
	log       zerolog.Logger
}

var _ directory.Source = (*Source)(nil)

// New builds a Source whose HTTP client fetches and refreshes application
// tokens on demand.
func New(ctx context.Context, opts Options, logger zerolog.Logger) *Source {
	cc := clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
		Scopes:       opts.Scopes,
	}
	client := cc.Client(ctx)
	client.Timeout = 15 * time.Second

	return &Source{
		client:    client,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		companyID: opts.CompanyID,
		log:       logger,
	}
}

type graphUser struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	Mail              string   `json:"mail"`
	UserPrincipalName string   `json:"userPrincipalName"`
	JobTitle          string   `json:"jobTitle"`
	Department        string   `json:"department"`
	OfficeLocation    string   `json:"officeLocation"`
	CompanyName       string   `json:"companyName"`
	MobilePhone       string   `json:"mobilePhone"`
	BusinessPhones    []string `json:"businessPhones"`
	AccountEnabled    *bool    `json:"accountEnabled"`
}

type userPage struct {
	Value    []graphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// ActiveEmployees lists enabled accounts, following @odata.nextLink until
// the directory is exhausted.
func (s *Source) ActiveEmployees(ctx context.Context) ([]directory.Employee, error) {
	params := url.Values{}
	params.Set("$select", selectFields)
	params.Set("$top", fmt.Sprint(pageSize))
	params.Set("$filter", "accountEnabled eq true")

	var employees []directory.Employee
	next := s.baseURL + "/users?" + params.Encode()
	for next != "" {
		var page userPage
		if err := s.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for i := range page.Value {
			employees = append(employees, s.mapUser(&page.Value[i]))
		}
		next = page.NextLink
	}
	return employees, nil
}

// EmployeeByEmail resolves a single user; Graph accepts the principal name
// or mail address as the user key.
func (s *Source) EmployeeByEmail(ctx context.Context, email string) (*directory.Employee, error) {
	target := s.baseURL + "/users/" + url.PathEscape(email) + "?$select=" + url.QueryEscape(selectFields)

	var user graphUser
	err := s.get(ctx, target, &user)
	if err != nil {
		var httpErr *statusError
		if errors.As(err, &httpErr) && httpErr.status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	employee := s.mapUser(&user)
	return &employee, nil
}

func (s *Source) Ping(ctx context.Context) error {
	var page userPage
	return s.get(ctx, s.baseURL+"/users?$top=1&$select=id", &page)
}

type statusError struct {
	status int
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("graph returned status %d for %s", e.status, e.url)
}

func (s *Source) get(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("graph request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Str("url", target).Msg("graph call rejected")
		return &statusError{status: resp.StatusCode, url: target}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("graph response decode: %w", err)
	}
	return nil
}

// mapUser converts a Graph user into the public record, substituting
// defaults field by field so the rest of the service only sees fully-typed
// employees.
func (s *Source) mapUser(u *graphUser) directory.Employee {
	company := u.CompanyName
	if company == "" {
		company = s.companyID
	}

	email := u.Mail
	if email == "" {
		email = u.UserPrincipalName
	}

	name := u.DisplayName
	if name == "" {
		name = email
	}
	if name == "" {
		name = "Unknown"
	}

	var phone string
	if len(u.BusinessPhones) > 0 {
		phone = u.BusinessPhones[0]
	}

	status := "enabled"
	if u.AccountEnabled != nil && !*u.AccountEnabled {
		status = "disabled"
	}

	return directory.Employee{
		CompanyID:   company,
		EmployeeID:  u.ID,
		Name:        name,
		Email:       email,
		Campus:      u.OfficeLocation,
		DeptID:      u.Department,
		DeptName:    u.Department,
		Title:       u.JobTitle,
		Job:         u.JobTitle,
		PhoneNo:     phone,
		MobilePhone: u.MobilePhone,
		Status:      status,
	}
}
