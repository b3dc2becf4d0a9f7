package domain

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered TaskMart user. Besides email and name, callers may
// attach arbitrary fields (photo URL, role, ...); they are kept in Extra and
// stored and returned verbatim.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Email string             `bson:"email,omitempty"`
	Name  string             `bson:"name,omitempty"`
	Extra map[string]any     `bson:",inline"`
}

// reserved keys never end up in Extra.
var reservedUserKeys = []string{"_id", "email", "name"}

// UnmarshalJSON accepts any JSON object. A client-supplied "_id" is dropped so
// the store always assigns the identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: user record must be a JSON object", ErrValidation)
	}

	email, err := optionalString(raw, "email")
	if err != nil {
		return err
	}
	name, err := optionalString(raw, "name")
	if err != nil {
		return err
	}

	for _, key := range reservedUserKeys {
		delete(raw, key)
	}

	*u = User{Email: email, Name: name}
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}

// MarshalJSON flattens Extra next to the named fields.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		out[k] = plainValue(v)
	}
	if !u.ID.IsZero() {
		out["_id"] = u.ID
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	if u.Name != "" {
		out["name"] = u.Name
	}
	return json.Marshal(out)
}

func optionalString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrValidation, key)
	}
	return s, nil
}

// plainValue turns BSON container types decoded from the store into plain maps
// and slices so they encode as ordinary JSON objects and arrays.
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case primitive.A:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = plainValue(e)
		}
		return s
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = plainValue(e)
		}
		return s
	default:
		return v
	}
}
