package smsman

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
)

const (
	DefaultBaseURL   = "https://api.sms-man.com/control"
	maxResponseBytes = 4 << 20
	userAgent        = "smsman-cli"
	waitingCode      = "wait_sms"
	genericAPIError  = "API Error"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.Gateway = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) GetBalance(ctx context.Context, token string) (domain.Balance, error) {
	const op = "get-balance"

	var payload balancePayload
	if err := c.getJSON(ctx, op, token, nil, &payload); err != nil {
		return domain.Balance{}, err
	}

	return payload.toDomain(), nil
}

func (c *Client) GetCountries(ctx context.Context, token string) (map[domain.CountryID]domain.Country, error) {
	const op = "countries"

	body, err := c.get(ctx, op, token, nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeKeyed[catalogEntry](body)
	if err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	countries := make(map[domain.CountryID]domain.Country, len(entries))
	for key, entry := range entries {
		id := domain.CountryID(entry.id(key))
		countries[id] = domain.Country{ID: id, Title: string(entry.Title), Code: string(entry.Code)}
	}

	return countries, nil
}

func (c *Client) GetApplications(ctx context.Context, token string) (map[domain.ApplicationID]domain.Application, error) {
	const op = "applications"

	body, err := c.get(ctx, op, token, nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeKeyed[catalogEntry](body)
	if err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	apps := make(map[domain.ApplicationID]domain.Application, len(entries))
	for key, entry := range entries {
		id := domain.ApplicationID(entry.id(key))
		apps[id] = domain.Application{ID: id, Title: string(entry.Title), Code: string(entry.Code)}
	}

	return apps, nil
}

func (c *Client) GetPrices(ctx context.Context, token string, countryID domain.CountryID) (domain.PriceTable, error) {
	const op = "get-prices"

	params := url.Values{}
	if countryID != 0 {
		params.Set("country_id", strconv.Itoa(int(countryID)))
	}

	body, err := c.get(ctx, op, token, params)
	if err != nil {
		return domain.PriceTable{}, err
	}

	table, err := classifyPrices(body, countryID)
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("%s: %w", op, err)
	}

	return table, nil
}

func (c *Client) GetLimits(ctx context.Context, token string, countryID domain.CountryID, applicationID domain.ApplicationID) ([]domain.LimitRow, error) {
	const op = "limits"

	params := url.Values{}
	if countryID != 0 {
		params.Set("country_id", strconv.Itoa(int(countryID)))
	}
	if applicationID != 0 {
		params.Set("application_id", strconv.Itoa(int(applicationID)))
	}

	body, err := c.get(ctx, op, token, params)
	if err != nil {
		return nil, err
	}

	rows, err := classifyLimits(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (c *Client) AcquireNumber(ctx context.Context, token string, req domain.NumberRequest) (domain.AcquiredNumber, error) {
	const op = "get-number"

	params := url.Values{}
	if req.CountryID != 0 {
		params.Set("country_id", strconv.Itoa(int(req.CountryID)))
	}
	if req.ApplicationID != 0 {
		params.Set("application_id", strconv.Itoa(int(req.ApplicationID)))
	}
	if req.MaxPrice.Valid {
		params.Set("maxPrice", req.MaxPrice.Decimal.String())
	}
	if req.Currency != "" {
		params.Set("currency", string(req.Currency))
	}
	params.Set("hasMultipleSms", strconv.FormatBool(req.MultipleSMS))

	var payload numberPayload
	if err := c.getJSON(ctx, op, token, params, &payload); err != nil {
		return domain.AcquiredNumber{}, err
	}
	if payload.ErrorCode != "" {
		return domain.AcquiredNumber{}, remoteError(op, payload.errorFields)
	}
	if payload.RequestID == 0 {
		return domain.AcquiredNumber{}, fmt.Errorf("%s: response carries no request id", op)
	}

	return domain.AcquiredNumber{
		RequestID:     domain.RequestID(payload.RequestID),
		Number:        string(payload.Number),
		CountryID:     domain.CountryID(payload.CountryID),
		ApplicationID: domain.ApplicationID(payload.ApplicationID),
	}, nil
}

// GetSMS returns the received code, or "" while the number is still waiting.
func (c *Client) GetSMS(ctx context.Context, token string, requestID domain.RequestID) (string, error) {
	const op = "get-sms"

	params := url.Values{}
	params.Set("request_id", strconv.FormatInt(int64(requestID), 10))

	var payload smsPayload
	if err := c.getJSON(ctx, op, token, params, &payload); err != nil {
		if remote, ok := domain.AsRemoteError(err); ok && remote.Code == waitingCode {
			return "", nil
		}
		return "", err
	}
	if payload.SMSCode != "" {
		return string(payload.SMSCode), nil
	}
	if payload.ErrorCode != "" && payload.ErrorCode != waitingCode {
		return "", remoteError(op, payload.errorFields)
	}

	return "", nil
}

func (c *Client) SetStatus(ctx context.Context, token string, requestID domain.RequestID, status domain.RentalStatus) error {
	const op = "set-status"

	params := url.Values{}
	params.Set("request_id", strconv.FormatInt(int64(requestID), 10))
	params.Set("status", string(status))

	var payload statusPayload
	if err := c.getJSON(ctx, op, token, params, &payload); err != nil {
		return err
	}
	if payload.ErrorCode != "" {
		return remoteError(op, payload.errorFields)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, op, token string, params url.Values, out any) error {
	body, err := c.get(ctx, op, token, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, op, token string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", token)

	endpoint := c.baseURL + "/" + op + "?" + params.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &domain.TransportError{
			Op:         op,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := checkEnvelope(op, body); err != nil {
		return nil, err
	}

	return body, nil
}

type envelope struct {
	Success *bool `json:"success"`
	errorFields
}

type errorFields struct {
	ErrorCode flexString `json:"error_code"`
	ErrorMsg  flexString `json:"error_msg"`
}

func checkEnvelope(op string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if env.Success != nil && !*env.Success {
		return remoteError(op, env.errorFields)
	}

	return nil
}

func remoteError(op string, fields errorFields) error {
	message := string(fields.ErrorMsg)
	if message == "" {
		message = string(fields.ErrorCode)
	}
	if message == "" {
		message = genericAPIError
	}

	return &domain.RemoteError{Op: op, Code: string(fields.ErrorCode), Message: message}
}

var errUnexpectedShape = errors.New("unexpected response shape")
