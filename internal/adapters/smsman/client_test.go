package smsman

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, server.Client())
}

func TestClientGetBalanceDecodesLooseTypes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-balance", r.URL.Path)
		assert.Equal(t, "tok-1", r.URL.Query().Get("token"))
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = fmt.Fprint(w, `{"balance":"12.50","hold":1.25,"channels":"3","active_channels":1,"rating":"5"}`)
	})

	balance, err := client.GetBalance(t.Context(), "tok-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(balance.Balance))
	assert.True(t, decimal.RequireFromString("1.25").Equal(balance.Hold))
	assert.Equal(t, 3, balance.Channels)
	assert.Equal(t, 1, balance.ActiveChannels)
	assert.Equal(t, "5", balance.Rating)
}

func TestClientRemoteErrorMessageFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		code    string
		message string
	}{
		{name: "error message preferred", body: `{"success":false,"error_code":"wrong_token","error_msg":"Wrong token!"}`, code: "wrong_token", message: "Wrong token!"},
		{name: "falls back to code", body: `{"success":false,"error_code":"wrong_token"}`, code: "wrong_token", message: "wrong_token"},
		{name: "generic fallback", body: `{"success":false}`, message: "API Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprint(w, tt.body)
			})

			_, err := client.GetBalance(t.Context(), "tok")
			require.Error(t, err)

			remote, ok := domain.AsRemoteError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, remote.Code)
			assert.Equal(t, tt.message, remote.Message)
			assert.Equal(t, "get-balance", remote.Op)
		})
	}
}

func TestClientNonSuccessStatusIsTransportError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, "upstream down")
	})

	_, err := client.GetCountries(t.Context(), "tok")
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestClientNetworkFailureIsTransportError(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1", nil)

	_, err := client.GetBalance(t.Context(), "tok")
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))
}

func TestClientCatalogAcceptsKeyedObjects(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/countries":
			_, _ = fmt.Fprint(w, `{"0":{"id":"0","title":"Russia","code":"RU"},"5":{"title":"Ukraine","code":"UA"}}`)
		case "/applications":
			_, _ = fmt.Fprint(w, `[{"id":3,"title":"Telegram","code":"tg"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	countries, err := client.GetCountries(t.Context(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Russia", countries[0].Title)
	assert.Equal(t, domain.Country{ID: 5, Title: "Ukraine", Code: "UA"}, countries[5])

	apps, err := client.GetApplications(t.Context(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Telegram", apps[3].Title)
}

func TestClientGetPricesClassifiesShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		country domain.CountryID
		body    string
		shape   domain.PriceShape
		rows    []domain.PriceRow
	}{
		{name: "empty array", body: `[]`, shape: domain.PriceShapeEmpty},
		{
			name:    "single country keyed by application",
			country: 7,
			body:    `{"3":{"cost":"0.15","count":120,"application":"Telegram"},"4":{"cost":0.2,"count":"0"}}`,
			shape:   domain.PriceShapeByApplication,
			rows: []domain.PriceRow{
				{CountryID: 7, ApplicationID: 3, ApplicationName: "Telegram", Cost: decimal.RequireFromString("0.15"), Count: 120},
				{CountryID: 7, ApplicationID: 4, Cost: decimal.RequireFromString("0.2"), Count: 0},
			},
		},
		{
			name:  "nested country application map",
			body:  `{"1":{"3":{"cost":"1.5","count":10}},"2":{"3":{"cost":"2","count":4},"9":{"cost":"0.5","count":1}}}`,
			shape: domain.PriceShapeNested,
			rows: []domain.PriceRow{
				{CountryID: 1, ApplicationID: 3, Cost: decimal.RequireFromString("1.5"), Count: 10},
				{CountryID: 2, ApplicationID: 3, Cost: decimal.RequireFromString("2"), Count: 4},
				{CountryID: 2, ApplicationID: 9, Cost: decimal.RequireFromString("0.5"), Count: 1},
			},
		},
		{
			name:    "application rows beside null and scalar entries",
			country: 7,
			body:    `{"3":{"cost":"0.15","count":120},"4":null,"5":"n/a"}`,
			shape:   domain.PriceShapeByApplication,
			rows: []domain.PriceRow{
				{CountryID: 7, ApplicationID: 3, Cost: decimal.RequireFromString("0.15"), Count: 120},
			},
		},
		{
			name:  "nested map beside null and scalar entries",
			body:  `{"1":{"3":{"cost":"1.5","count":10},"4":null,"5":false},"2":null,"x":5}`,
			shape: domain.PriceShapeNested,
			rows: []domain.PriceRow{
				{CountryID: 1, ApplicationID: 3, Cost: decimal.RequireFromString("1.5"), Count: 10},
			},
		},
		{name: "only null and scalar entries", body: `{"1":null,"2":0,"3":"x"}`, shape: domain.PriceShapeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.country != 0 {
					assert.Equal(t, fmt.Sprint(tt.country), r.URL.Query().Get("country_id"))
				} else {
					assert.False(t, r.URL.Query().Has("country_id"))
				}
				_, _ = fmt.Fprint(w, tt.body)
			})

			table, err := client.GetPrices(t.Context(), "tok", tt.country)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, table.Shape)
			require.Len(t, table.Rows, len(tt.rows))
			for i, want := range tt.rows {
				got := table.Rows[i]
				assert.Equal(t, want.CountryID, got.CountryID)
				assert.Equal(t, want.ApplicationID, got.ApplicationID)
				assert.Equal(t, want.ApplicationName, got.ApplicationName)
				assert.Equal(t, want.Count, got.Count)
				assert.True(t, want.Cost.Equal(got.Cost), "cost %s != %s", want.Cost, got.Cost)
			}
		})
	}
}

func TestClientGetPricesRejectsMixedShape(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"3":{"cost":"0.15","count":1},"4":{"9":{"cost":"1","count":2}}}`)
	})

	_, err := client.GetPrices(t.Context(), "tok", 0)
	require.ErrorIs(t, err, errUnexpectedShape)
}

func TestClientGetLimitsNormalizesNumbers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("country_id"))
		assert.Equal(t, "3", r.URL.Query().Get("application_id"))
		_, _ = fmt.Fprint(w, `{"2":{"3":{"numbers":"40"},"4":{"count":7},"5":{}}}`)
	})

	rows, err := client.GetLimits(t.Context(), "tok", 2, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byApp := map[domain.ApplicationID]int{}
	for _, row := range rows {
		assert.Equal(t, domain.CountryID(2), row.CountryID)
		byApp[row.ApplicationID] = row.Numbers
	}
	assert.Equal(t, map[domain.ApplicationID]int{3: 40, 4: 7, 5: 0}, byApp)
}

func TestClientAcquireNumberSendsParameters(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/get-number", r.URL.Path)
		assert.Equal(t, "1", query.Get("country_id"))
		assert.Equal(t, "3", query.Get("application_id"))
		assert.Equal(t, "0.5", query.Get("maxPrice"))
		assert.Equal(t, "EUR", query.Get("currency"))
		assert.Equal(t, "true", query.Get("hasMultipleSms"))
		_, _ = fmt.Fprint(w, `{"request_id":123,"application_id":3,"country_id":1,"number":"79990001122"}`)
	})

	acquired, err := client.AcquireNumber(t.Context(), "tok", domain.NumberRequest{
		CountryID:     1,
		ApplicationID: 3,
		MaxPrice:      decimal.NewNullDecimal(decimal.RequireFromString("0.5")),
		Currency:      domain.CurrencyEUR,
		MultipleSMS:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AcquiredNumber{RequestID: 123, Number: "79990001122", CountryID: 1, ApplicationID: 3}, acquired)
}

func TestClientAcquireNumberErrorCodeWithoutSuccessFlag(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"error_code":"no_numbers","error_msg":"No numbers available"}`)
	})

	_, err := client.AcquireNumber(t.Context(), "tok", domain.NumberRequest{CountryID: 1, ApplicationID: 3})
	remote, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "no_numbers", remote.Code)
	assert.Equal(t, "No numbers available", remote.Message)
}

func TestClientGetSMS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "code present", body: `{"request_id":"123","sms_code":"5678"}`, want: "5678"},
		{name: "still waiting", body: `{"request_id":"123","error_code":"wait_sms","error_msg":"Still waiting"}`},
		{name: "waiting with failure flag", body: `{"success":false,"error_code":"wait_sms"}`},
		{name: "no code field", body: `{"request_id":"123"}`},
		{name: "other remote error", body: `{"success":false,"error_code":"wrong_request"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "123", r.URL.Query().Get("request_id"))
				_, _ = fmt.Fprint(w, tt.body)
			})

			code, err := client.GetSMS(t.Context(), "tok", 123)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestClientSetStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/set-status", r.URL.Path)
		assert.Equal(t, "close", r.URL.Query().Get("status"))
		if r.URL.Query().Get("request_id") == "1" {
			_, _ = fmt.Fprint(w, `{"request_id":1,"success":true}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"request_id":2,"error_code":"bad_status","error_msg":"Cannot close"}`)
	})

	require.NoError(t, client.SetStatus(t.Context(), "tok", 1, domain.RentalStatusClose))

	err := client.SetStatus(t.Context(), "tok", 2, domain.RentalStatusClose)
	remote, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot close", remote.Message)
}
