package domain

import "strings"

// Clinic is a previously seen clinic name and address.
// It is a denormalized convenience copy, not a foreign key.
type Clinic struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpsertClinic records name/address in the list. Names match case-insensitively;
// a differing address replaces the stored one. Blank name or address leaves the list as is.
// The returned bool reports whether anything changed.
func UpsertClinic(clinics []Clinic, name, address string) ([]Clinic, bool) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(address) == "" {
		return clinics, false
	}
	for i, c := range clinics {
		if strings.EqualFold(c.Name, name) {
			if c.Address == address {
				return clinics, false
			}
			out := append([]Clinic(nil), clinics...)
			out[i].Address = address
			return out, true
		}
	}
	return append(append([]Clinic(nil), clinics...), Clinic{Name: name, Address: address}), true
}

// FindClinic looks a clinic up by exact name, as picked from the saved list
func FindClinic(clinics []Clinic, name string) (Clinic, bool) {
	for _, c := range clinics {
		if c.Name == name {
			return c, true
		}
	}
	return Clinic{}, false
}
