package directory

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// UserID identifies a directory user. The directory may encode it as a JSON
// number or a JSON string; both decode to the same textual form.
type UserID string

// String returns the textual form of the identifier.
func (id UserID) String() string {
	return string(id)
}

// MarshalJSON encodes integer identifiers as JSON numbers and everything else
// as JSON strings.
func (id UserID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("decode user id: %w", err)
		}
		*id = UserID(value)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("decode user id: %w", err)
		}
		*id = UserID(number.String())
		return nil
	default:
		return fmt.Errorf("decode user id: unexpected JSON value %s", data)
	}
}

// User is a directory record.
type User struct {
	ID         UserID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

// UserInput carries the editable fields sent on create and update.
type UserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// User returns a record holding the input fields and the given identifier.
func (in UserInput) User(id UserID) User {
	return User{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
	}
}
