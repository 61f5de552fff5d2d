package entities

import "maps"

// Form is the snapshot of the input form handed to form-data handlers on submit.
// Handlers may read, adjust or record cross-field values through it.
type Form map[string]string

// Get returns the value of field, or "" when absent.
func (f Form) Get(field string) string {
	return f[field]
}

func (f Form) Set(field, value string) {
	f[field] = value
}

func (f Form) Clone() Form {
	c := make(Form, len(f))
	maps.Copy(c, f)
	return c
}
