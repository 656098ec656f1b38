// Package sqlsource reads the employee roster from the Interinfo_Member
// table of the HR database.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kylekyl-khan/contacts-server/directory"
)

// Open connects to the HR database by driver/dsn.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// memberRow mirrors the columns of the legacy Interinfo_Member table.
type memberRow struct {
	CompanyID   string         `gorm:"column:CompanyID"`
	EmployeeID  string         `gorm:"column:EmployeeID"`
	Name        string         `gorm:"column:Name"`
	EName       sql.NullString `gorm:"column:EName"`
	Email       sql.NullString `gorm:"column:Email"`
	Campus      sql.NullString `gorm:"column:Campus"`
	DeptID      sql.NullString `gorm:"column:DeptID"`
	DeptName    sql.NullString `gorm:"column:DeptName"`
	Title       sql.NullString `gorm:"column:Title"`
	Job         sql.NullString `gorm:"column:Job"`
	PhoneNo     sql.NullString `gorm:"column:PHONE_NO"`
	MobilePhone sql.NullString `gorm:"column:MOBILE_PHONE"`
	Ext         sql.NullString `gorm:"column:EXT"`
	Status      sql.NullString `gorm:"column:Status"`
}

func (memberRow) TableName() string {
	return "Interinfo_Member"
}

// employee maps a row into the public record. NULL columns become empty
// strings, never errors.
func (r *memberRow) employee() directory.Employee {
	return directory.Employee{
		CompanyID:   r.CompanyID,
		EmployeeID:  r.EmployeeID,
		Name:        r.Name,
		EName:       r.EName.String,
		Email:       r.Email.String,
		Campus:      r.Campus.String,
		DeptID:      r.DeptID.String,
		DeptName:    r.DeptName.String,
		Title:       r.Title.String,
		Job:         r.Job.String,
		PhoneNo:     r.PhoneNo.String,
		MobilePhone: r.MobilePhone.String,
		Ext:         r.Ext.String,
		Status:      r.Status.String,
	}
}

// Source is the SQL-backed directory.Source implementation.
type Source struct {
	db           *gorm.DB
	activeStatus string
}

var _ directory.Source = (*Source)(nil)

// New wraps an open database handle. activeStatus is the Status column value
// that marks an employee as currently employed.
func New(db *gorm.DB, activeStatus string) *Source {
	return &Source{db: db, activeStatus: activeStatus}
}

func (s *Source) ActiveEmployees(ctx context.Context) ([]directory.Employee, error) {
	var rows []memberRow
	err := s.db.WithContext(ctx).Where("Status = ?", s.activeStatus).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query active employees: %w", err)
	}

	employees := make([]directory.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, rows[i].employee())
	}
	return employees, nil
}

func (s *Source) EmployeeByEmail(ctx context.Context, email string) (*directory.Employee, error) {
	var row memberRow
	err := s.db.WithContext(ctx).
		Where("Email = ? AND Status = ?", email, s.activeStatus).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query employee by email: %w", err)
	}

	employee := row.employee()
	return &employee, nil
}

func (s *Source) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
