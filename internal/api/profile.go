package api

import "context"

// GetProfile calls GET /me.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile calls PATCH /me.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	return c.patch(ctx, "/me", update, nil)
}
