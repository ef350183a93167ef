// Package model holds the user record in its two shapes: the wire payload
// clients send and the attribute-tagged item the store persists.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of a stored user item.
const (
	AttrUserID = "userId"
	AttrName   = "name"
	AttrEmail  = "email"
	AttrAge    = "age"
)

// Item is a stored user: attribute name to tagged value. userId, name and
// email are string-tagged (S), age is number-tagged (N).
type Item = map[string]types.AttributeValue

// Record is the plain JSON form of an Item.
type Record map[string]any

// UserPayload is the request body accepted by create and update.
//
// Missing string fields decode to "". Age keeps the text of whatever JSON
// scalar the client sent so the store decides whether it is a valid number.
type UserPayload struct {
	UserID string     `json:"userId"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Age    NumberText `json:"age"`
}

// NumberText is the textual form of a JSON scalar destined for an N attribute.
type NumberText struct {
	Value string
	Valid bool
}

// UnmarshalJSON accepts numbers, strings and booleans. null leaves the value
// unset; arrays and objects are rejected.
func (n *NumberText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = NumberText{}
		return nil
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = NumberText{Value: s, Valid: true}
	case c == '-' || (c >= '0' && c <= '9'), c == 't', c == 'f':
		*n = NumberText{Value: string(trimmed), Valid: true}
	default:
		return fmt.Errorf("cannot convert %s to a number", trimmed)
	}
	return nil
}

// String returns the text written to the store.
func (n NumberText) String() string {
	return n.Value
}
