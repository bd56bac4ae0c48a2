package topup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/httpclient"
)

var _ Backend = (*Client)(nil)

var jsonHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// Client talks to the top-up HTTP API.
type Client struct {
	baseURL string
	http    httpclient.HTTPClient
}

func NewClient(baseURL string, client httpclient.HTTPClient) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c *Client) Packages(ctx context.Context) (*pricing.Catalog, error) {
	var resp struct {
		Version  string            `json:"version"`
		Packages []pricing.Package `json:"packages"`
	}
	if err := c.get(ctx, "/v1/packages", &resp); err != nil {
		return nil, err
	}

	return pricing.New(resp.Version, resp.Packages)
}

func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error) {
	var charge Charge
	err := c.post(ctx, "/v1/topup/charges", req, &charge)
	return charge, err
}

func (c *Client) CheckCharge(ctx context.Context, chargeID, userID string) (ChargeStatus, error) {
	var status ChargeStatus
	err := c.post(ctx, "/v1/topup/charges/check", map[string]string{"chargeId": chargeID, "userId": userID}, &status)
	return status, err
}

func (c *Client) Balance(ctx context.Context, userID string) (int64, error) {
	var resp struct {
		Credits int64 `json:"credits"`
	}
	if err := c.get(ctx, "/v1/users/"+url.PathEscape(userID)+"/balance", &resp); err != nil {
		return 0, err
	}

	return resp.Credits, nil
}

func (c *Client) History(ctx context.Context, userID string, limit, offset int) (History, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var history History
	err := c.get(ctx, "/v1/users/"+url.PathEscape(userID)+"/transactions?"+query.Encode(), &history)
	return history, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.Get(ctx, c.baseURL+path, jsonHeaders)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	return decode(resp, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+path, bytes.NewReader(payload), jsonHeaders)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}

	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	raw, err := httpclient.ReadBody(resp, 0)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
