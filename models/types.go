package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type StringSlice []string

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON value: %v", value)
	}

	return json.Unmarshal(bytes, s)
}

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Role is the platform role a user acts under.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleEntrepreneur Role = "ENTREPRENEUR"
	RoleSponsor      Role = "SPONSOR"
	RoleReviewer     Role = "REVIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEntrepreneur, RoleSponsor, RoleReviewer:
		return true
	}
	return false
}
