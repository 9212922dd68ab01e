package hierarchy

import "encoding/json"

// OptString is a three-state string for PATCH bodies: absent, explicit JSON
// null, or a value. A plain pointer cannot tell "not sent" from "sent as
// null", and the update semantics depend on that distinction.
type OptString struct {
	Set   bool   // the key was present in the request body
	Valid bool   // the value was not JSON null
	Value string // the value, when Valid
}

// UnmarshalJSON is only invoked for keys present in the body, so Set is true
// whenever it runs.
func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// UpdateInput is the PATCH payload for a file node. Omitted fields are left
// untouched.
type UpdateInput struct {
	Name    OptString `json:"name"`
	Content OptString `json:"content"`
}
