package models

import (
	"fmt"
	"regexp"
)

// RoleType defines the user role type carried in access tokens
type RoleType string

const (
	RoleStudent            RoleType = "student"
	RoleInstructor         RoleType = "instructor"
	RoleAcademicAdmin      RoleType = "academic_admin"
	RoleFinanceAdmin       RoleType = "finance_admin"
	RoleResearchOffice     RoleType = "research_office"
	RoleProspectiveStudent RoleType = "prospective_student"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAcademicAdmin, RoleFinanceAdmin, RoleResearchOffice, RoleProspectiveStudent:
		return true
	}
	return false
}

// Term identifies an academic period: the academic year followed by 1 (odd) or 2 (even), e.g. "20251".
type Term string

var termPattern = regexp.MustCompile(`^\d{4}[12]$`)

// Validate checks the term format.
func (t Term) Validate() error {
	if !termPattern.MatchString(string(t)) {
		return fmt.Errorf("term %q must be a year followed by 1 or 2", string(t))
	}
	return nil
}

func (t Term) String() string {
	return string(t)
}
