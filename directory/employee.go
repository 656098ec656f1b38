package directory

import "context"

// Employee is the public contact record exposed to clients. Optional fields
// are empty strings when the upstream record has no value; an absent upstream
// field is never an error.
type Employee struct {
	CompanyID   string `json:"company_id"`
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	EName       string `json:"ename,omitempty"`
	Email       string `json:"email,omitempty"`
	Campus      string `json:"campus,omitempty"`
	DeptID      string `json:"dept_id,omitempty"`
	DeptName    string `json:"dept_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Job         string `json:"job,omitempty"`
	PhoneNo     string `json:"phone_no,omitempty"`
	MobilePhone string `json:"mobile_phone,omitempty"`
	Ext         string `json:"ext,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Source abstracts where the roster comes from. Implementations exist for a
// SQL table and for the Microsoft Graph directory; the rest of the service
// does not care which one is wired in.
type Source interface {
	// ActiveEmployees returns the full roster of active employees.
	ActiveEmployees(ctx context.Context) ([]Employee, error)
	// EmployeeByEmail returns the employee with the given email, or nil when
	// no active employee matches.
	EmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	// Ping reports whether the underlying source is reachable.
	Ping(ctx context.Context) error
}
