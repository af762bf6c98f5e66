// Package whatsapp is a small client for the WhatsApp Cloud API. With no
// access token configured it runs in stub mode and only logs outbound
// messages.
package whatsapp

import (
	"net/http"
	"strings"
	"time"
)

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config, httpClient *http.Client) *Client {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// IsStub reports whether the client only logs instead of calling the API.
func (c *Client) IsStub() bool {
	return c.config.Token == ""
}

func (c *Client) phoneNumberURL() string {
	return c.config.APIURL + "/" + c.config.APIVersion + "/" + c.config.PhoneNumberID
}

func (c *Client) messagesURL() string {
	return c.phoneNumberURL() + "/messages"
}
