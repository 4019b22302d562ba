package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Capability is a permission token required to perform an action.
type Capability string

const (
	CapManageClinics         Capability = "manage_clinics"
	CapCreateUsers           Capability = "create_users"
	CapManageOwners          Capability = "manage_owners"
	CapManagePatients        Capability = "manage_patients"
	CapViewPatients          Capability = "view_patients"
	CapManageWaitingRoom     Capability = "manage_waiting_room"
	CapManageConsultations   Capability = "manage_consultations"
	CapManageHospitalization Capability = "manage_hospitalization"
	CapManageLab             Capability = "manage_lab"
	CapViewHistorial         Capability = "view_historial"
	CapViewAudit             Capability = "view_audit"
	CapManageBilling         Capability = "manage_billing"
	CapManageInventory       Capability = "manage_inventory"

	// CapAdminTotal satisfies any capability check except for SUPERUSER.
	CapAdminTotal Capability = "admin_total"
)

var allCapabilities = []Capability{
	CapManageClinics,
	CapCreateUsers,
	CapManageOwners,
	CapManagePatients,
	CapViewPatients,
	CapManageWaitingRoom,
	CapManageConsultations,
	CapManageHospitalization,
	CapManageLab,
	CapViewHistorial,
	CapViewAudit,
	CapManageBilling,
	CapManageInventory,
	CapAdminTotal,
}

// AllCapabilities returns the closed set of known capabilities.
func AllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities)
	return out
}

// Valid reports whether c belongs to the closed capability set.
func (c Capability) Valid() bool {
	for _, known := range allCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// CapabilitySet is stored as a JSON array.
type CapabilitySet []Capability

// Contains is literal membership; wildcard handling lives in the authorizer.
func (s CapabilitySet) Contains(c Capability) bool {
	for _, have := range s {
		if have == c {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (s CapabilitySet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *CapabilitySet) Scan(value interface{}) error {
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
		return errors.New(fmt.Sprint("Failed to unmarshal capability set:", value))
	}

	var caps []Capability
	if err := json.Unmarshal(bytes, &caps); err != nil {
		return err
	}
	*s = CapabilitySet(caps)
	return nil
}
