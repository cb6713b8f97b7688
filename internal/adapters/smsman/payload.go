package smsman

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/shopspring/decimal"
)

// The remote API is loose about JSON types: ids and counters arrive as
// numbers or strings depending on the endpoint.

type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		parsed, floatErr := strconv.ParseFloat(raw, 64)
		if floatErr != nil {
			return fmt.Errorf("decode integer %s: %w", data, err)
		}
		n = int64(parsed)
	}

	*f = flexInt(n)
	return nil
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*f = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(trimmed)
	}
	return nil
}

type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		f.Decimal = decimal.Zero
		return nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("decode decimal %s: %w", data, err)
	}

	f.Decimal = value
	return nil
}

type balancePayload struct {
	Balance        flexDecimal `json:"balance"`
	Hold           flexDecimal `json:"hold"`
	Channels       flexInt     `json:"channels"`
	ActiveChannels flexInt     `json:"active_channels"`
	Rating         flexString  `json:"rating"`
}

func (p balancePayload) toDomain() domain.Balance {
	return domain.Balance{
		Balance:        p.Balance.Decimal,
		Hold:           p.Hold.Decimal,
		Channels:       int(p.Channels),
		ActiveChannels: int(p.ActiveChannels),
		Rating:         string(p.Rating),
	}
}

type catalogEntry struct {
	ID    flexInt    `json:"id"`
	Title flexString `json:"title"`
	Code  flexString `json:"code"`
}

func (e catalogEntry) id(key string) int {
	if e.ID != 0 {
		return int(e.ID)
	}
	n, _ := strconv.Atoi(key)
	return n
}

type numberPayload struct {
	RequestID     flexInt    `json:"request_id"`
	ApplicationID flexInt    `json:"application_id"`
	CountryID     flexInt    `json:"country_id"`
	Number        flexString `json:"number"`
	errorFields
}

type smsPayload struct {
	RequestID flexInt    `json:"request_id"`
	SMSCode   flexString `json:"sms_code"`
	errorFields
}

type statusPayload struct {
	RequestID flexInt `json:"request_id"`
	Success   *bool   `json:"success"`
	errorFields
}

type priceEntry struct {
	Cost          *flexDecimal `json:"cost"`
	Count         *flexInt     `json:"count"`
	ApplicationID flexInt      `json:"application_id"`
	CountryID     flexInt      `json:"country_id"`
	Country       flexString   `json:"country"`
	Application   flexString   `json:"application"`
}

func (e priceEntry) count() int {
	if e.Count == nil {
		return 0
	}
	return int(*e.Count)
}

func (e priceEntry) cost() decimal.Decimal {
	if e.Cost == nil {
		return decimal.Zero
	}
	return e.Cost.Decimal
}

type limitEntry struct {
	Numbers       *flexInt   `json:"numbers"`
	Count         *flexInt   `json:"count"`
	ApplicationID flexInt    `json:"application_id"`
	CountryID     flexInt    `json:"country_id"`
	Country       flexString `json:"country"`
	Application   flexString `json:"application"`
}

func (e limitEntry) numbers() int {
	switch {
	case e.Numbers != nil:
		return int(*e.Numbers)
	case e.Count != nil:
		return int(*e.Count)
	default:
		return 0
	}
}

// decodeKeyed accepts either an id-keyed object or a plain array.
func decodeKeyed[T any](body []byte) (map[string]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		keyed := make(map[string]T, len(list))
		for i, item := range list {
			keyed["#"+strconv.Itoa(i)] = item
		}
		return keyed, nil
	}

	var keyed map[string]T
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, err
	}
	return keyed, nil
}

// isContainer reports whether raw is a JSON object or array. Null and scalar
// entries carry no rows.
func isContainer(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// containers drops null and scalar entries.
func containers(entries map[string]json.RawMessage) map[string]json.RawMessage {
	kept := make(map[string]json.RawMessage, len(entries))
	for key, raw := range entries {
		if isContainer(raw) {
			kept[key] = raw
		}
	}
	return kept
}

func isEmptyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("[]")) ||
		bytes.Equal(trimmed, []byte("{}")) ||
		bytes.Equal(trimmed, []byte("null"))
}

// looksLikePriceEntry reports whether an object is a single price row rather
// than an application-keyed map: it must carry cost plus count or application.
func looksLikePriceEntry(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	_, hasCost := fields["cost"]
	_, hasCount := fields["count"]
	_, hasApplication := fields["application"]
	return hasCost && (hasCount || hasApplication)
}

func classifyPrices(body []byte, countryID domain.CountryID) (domain.PriceTable, error) {
	if isEmptyJSON(body) {
		return domain.PriceTable{Shape: domain.PriceShapeEmpty}, nil
	}

	outer, err := decodeKeyed[json.RawMessage](body)
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("decode prices: %w", err)
	}
	outer = containers(outer)
	if len(outer) == 0 {
		return domain.PriceTable{Shape: domain.PriceShapeEmpty}, nil
	}

	flat := 0
	for _, raw := range outer {
		if looksLikePriceEntry(raw) {
			flat++
		}
	}

	switch flat {
	case len(outer):
		return pricesByApplication(outer, countryID)
	case 0:
		return pricesNested(outer)
	default:
		return domain.PriceTable{}, fmt.Errorf("decode prices: %w: mixed row and map entries", errUnexpectedShape)
	}
}

func pricesByApplication(outer map[string]json.RawMessage, countryID domain.CountryID) (domain.PriceTable, error) {
	rows := make([]domain.PriceRow, 0, len(outer))
	for key, raw := range outer {
		var entry priceEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return domain.PriceTable{}, fmt.Errorf("decode price entry %s: %w", key, err)
		}

		row := priceRow(entry, key, "")
		if row.CountryID == 0 {
			row.CountryID = countryID
		}
		rows = append(rows, row)
	}

	domain.SortPrices(rows)
	return domain.PriceTable{Shape: domain.PriceShapeByApplication, Rows: rows}, nil
}

func pricesNested(outer map[string]json.RawMessage) (domain.PriceTable, error) {
	var rows []domain.PriceRow
	for countryKey, raw := range outer {
		if !isContainer(raw) {
			continue
		}
		apps, err := decodeKeyed[json.RawMessage](raw)
		if err != nil {
			return domain.PriceTable{}, fmt.Errorf("decode prices for country %s: %w", countryKey, err)
		}
		for appKey, appRaw := range containers(apps) {
			var entry priceEntry
			if err := json.Unmarshal(appRaw, &entry); err != nil {
				return domain.PriceTable{}, fmt.Errorf("decode price entry %s/%s: %w", countryKey, appKey, err)
			}
			rows = append(rows, priceRow(entry, appKey, countryKey))
		}
	}

	if len(rows) == 0 {
		return domain.PriceTable{Shape: domain.PriceShapeEmpty}, nil
	}

	domain.SortPrices(rows)
	return domain.PriceTable{Shape: domain.PriceShapeNested, Rows: rows}, nil
}

func priceRow(entry priceEntry, appKey, countryKey string) domain.PriceRow {
	row := domain.PriceRow{
		CountryID:       domain.CountryID(entry.CountryID),
		ApplicationID:   domain.ApplicationID(entry.ApplicationID),
		CountryName:     string(entry.Country),
		ApplicationName: string(entry.Application),
		Cost:            entry.cost(),
		Count:           entry.count(),
	}
	if row.ApplicationID == 0 {
		row.ApplicationID = domain.ApplicationID(atoi(appKey))
	}
	if row.CountryID == 0 {
		row.CountryID = domain.CountryID(atoi(countryKey))
	}
	return row
}

// looksLikeLimitEntry distinguishes a limit row from a country-keyed map.
func looksLikeLimitEntry(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for _, key := range []string{"numbers", "count", "application_id"} {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

func classifyLimits(body []byte) ([]domain.LimitRow, error) {
	if isEmptyJSON(body) {
		return nil, nil
	}

	outer, err := decodeKeyed[json.RawMessage](body)
	if err != nil {
		return nil, fmt.Errorf("decode limits: %w", err)
	}

	var rows []domain.LimitRow
	for countryKey, raw := range containers(outer) {
		if looksLikeLimitEntry(raw) {
			var entry limitEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				return nil, fmt.Errorf("decode limit entry %s: %w", countryKey, err)
			}
			rows = append(rows, limitRow(entry, "", countryKey))
			continue
		}

		apps, err := decodeKeyed[limitEntry](raw)
		if err != nil {
			return nil, fmt.Errorf("decode limits for country %s: %w", countryKey, err)
		}
		for appKey, entry := range apps {
			rows = append(rows, limitRow(entry, appKey, countryKey))
		}
	}

	return rows, nil
}

func limitRow(entry limitEntry, appKey, countryKey string) domain.LimitRow {
	row := domain.LimitRow{
		CountryID:       domain.CountryID(entry.CountryID),
		ApplicationID:   domain.ApplicationID(entry.ApplicationID),
		CountryName:     string(entry.Country),
		ApplicationName: string(entry.Application),
		Numbers:         entry.numbers(),
	}
	if row.ApplicationID == 0 {
		row.ApplicationID = domain.ApplicationID(atoi(appKey))
	}
	if row.CountryID == 0 {
		row.CountryID = domain.CountryID(atoi(countryKey))
	}
	return row
}

func atoi(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
