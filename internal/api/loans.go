package api

import "context"

// CreateLoan calls POST /loans.
func (c *Client) CreateLoan(ctx context.Context, create LoanCreate) (*Created, error) {
	var out Created
	if err := c.post(ctx, "/loans", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoanBreakdown calls GET /loans/{id}/breakdown and returns the payment
// schedule in server order.
func (c *Client) LoanBreakdown(ctx context.Context, loanID string) ([]BreakdownEntry, error) {
	var out []BreakdownEntry
	if err := c.get(ctx, "/loans/"+loanID+"/breakdown", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
