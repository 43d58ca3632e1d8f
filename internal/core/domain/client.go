package domain

import "errors"

// ErrClientNotFound is returned by repositories when no row matches the id.
var ErrClientNotFound = errors.New("client not found")

type Client struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Age       int    `db:"age"`
	StateCode string `db:"state_code"`
}

// ClientFields is the canonical, already validated payload of a create or
// full-replacement update. It never carries an id.
type ClientFields struct {
	Name      string
	Age       int
	StateCode string
}

func NewClient(fields ClientFields) *Client {
	return &Client{
		Name:      fields.Name,
		Age:       fields.Age,
		StateCode: fields.StateCode,
	}
}

// Apply overwrites every mutable field; id is left untouched.
func (c *Client) Apply(fields ClientFields) {
	c.Name = fields.Name
	c.Age = fields.Age
	c.StateCode = fields.StateCode
}
