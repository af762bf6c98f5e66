package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrNoToken = errors.New("whatsapp access token not configured")

// CheckToken fetches the configured phone number with the access token,
// which fails when the token is expired or lacks permissions.
func (c *Client) CheckToken(ctx context.Context) (*PhoneNumberInfo, error) {
	if c.IsStub() {
		return nil, ErrNoToken
	}

	url := c.phoneNumberURL() + "?fields=id,display_phone_number,verified_name"
	body, err := c.sendRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("token check failed: %w", err)
	}

	var info PhoneNumberInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal phone number: %w", err)
	}

	return &info, nil
}
