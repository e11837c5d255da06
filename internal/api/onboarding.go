package api

import "context"

// CreateBalance calls POST /balances.
func (c *Client) CreateBalance(ctx context.Context, create BalanceCreate) error {
	return c.post(ctx, "/balances", create, nil)
}

// ListCategories calls GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory calls POST /categories.
func (c *Client) CreateCategory(ctx context.Context, create CategoryCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/categories", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCategoryArchived calls PATCH /categories/{id}/archived.
func (c *Client) SetCategoryArchived(ctx context.Context, id string, archived bool) error {
	body := struct {
		Archived bool `json:"archived"`
	}{Archived: archived}
	return c.patch(ctx, "/categories/"+id+"/archived", body, nil)
}

// CreateFixedItem calls POST /fixed-items.
func (c *Client) CreateFixedItem(ctx context.Context, create FixedItemCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/fixed-items", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBankAccount calls POST /bank-accounts.
func (c *Client) CreateBankAccount(ctx context.Context, create BankAccountCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/bank-accounts", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCreditCard calls POST /credit-cards.
func (c *Client) CreateCreditCard(ctx context.Context, create CreditCardCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/credit-cards", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubscription calls POST /subscriptions.
func (c *Client) CreateSubscription(ctx context.Context, create SubscriptionCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/subscriptions", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings calls PATCH /settings.
func (c *Client) UpdateSettings(ctx context.Context, update SettingsUpdate) error {
	return c.patch(ctx, "/settings", update, nil)
}
