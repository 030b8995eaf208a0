package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

type Client struct {
	baseURL    string
	companyID  string
	httpClient *http.Client
}

func New(baseURL, companyID string) *Client {
	return &Client{
		baseURL:   baseURL,
		companyID: companyID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateParty(ctx context.Context, name, contact string, roles []ledger.Role, opening string, openingType ledger.BalanceType) (*ledger.Party, error) {
	body := map[string]any{
		"name":    name,
		"contact": contact,
		"roles":   roles,
	}
	if opening != "" {
		body["opening_balance"] = opening
	}
	if openingType != "" {
		body["opening_balance_type"] = openingType
	}
	var result ledger.Party
	if err := c.post(ctx, "/api/v1/parties", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListParties(ctx context.Context, role string) ([]ledger.Party, error) {
	params := url.Values{}
	if role != "" {
		params.Set("role", role)
	}
	var result []ledger.Party
	if err := c.get(ctx, "/api/v1/parties?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetParty(ctx context.Context, id string) (*ledger.Party, error) {
	var result ledger.Party
	if err := c.get(ctx, "/api/v1/parties/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdatePartyContact(ctx context.Context, id, name, contact string) (*ledger.Party, error) {
	body := map[string]any{"name": name, "contact": contact}
	var result ledger.Party
	if err := c.patch(ctx, "/api/v1/parties/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteParty(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/parties/"+url.PathEscape(id))
}

func (c *Client) CreateItem(ctx context.Context, name, unit, rate string, stockQty float64) (*ledger.Item, error) {
	body := map[string]any{
		"name":      name,
		"unit":      unit,
		"rate":      rate,
		"stock_qty": stockQty,
	}
	var result ledger.Item
	if err := c.post(ctx, "/api/v1/items", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListItems(ctx context.Context) ([]ledger.Item, error) {
	var result []ledger.Item
	if err := c.get(ctx, "/api/v1/items", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// InvoiceResult is the posted invoice plus any warnings the server
// reported while saving it.
type InvoiceResult struct {
	Invoice  *ledger.Invoice  `json:"invoice"`
	Warnings []ledger.Warning `json:"warnings,omitempty"`
}

func (c *Client) CreateInvoice(ctx context.Context, body map[string]any) (*InvoiceResult, error) {
	var result InvoiceResult
	if err := c.post(ctx, "/api/v1/invoices", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListInvoices(ctx context.Context, partyID, invType string) ([]ledger.Invoice, error) {
	params := url.Values{}
	if partyID != "" {
		params.Set("party_id", partyID)
	}
	if invType != "" {
		params.Set("type", invType)
	}
	var result []ledger.Invoice
	if err := c.get(ctx, "/api/v1/invoices?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*ledger.Invoice, error) {
	var result ledger.Invoice
	if err := c.get(ctx, "/api/v1/invoices/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/invoices/"+url.PathEscape(id))
}

func (c *Client) CreatePayment(ctx context.Context, body map[string]any) (*ledger.Payment, error) {
	var result ledger.Payment
	if err := c.post(ctx, "/api/v1/payments", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListPayments(ctx context.Context, partyID, payType string) ([]ledger.Payment, error) {
	params := url.Values{}
	if partyID != "" {
		params.Set("party_id", partyID)
	}
	if payType != "" {
		params.Set("type", payType)
	}
	var result []ledger.Payment
	if err := c.get(ctx, "/api/v1/payments?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateOtherTxn(ctx context.Context, body map[string]any) (*ledger.OtherTxn, error) {
	var result ledger.OtherTxn
	if err := c.post(ctx, "/api/v1/other-txns", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListOtherTxns(ctx context.Context, kind string) ([]ledger.OtherTxn, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("kind", kind)
	}
	var result []ledger.OtherTxn
	if err := c.get(ctx, "/api/v1/other-txns?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// LedgerReport pairs the entry-by-entry ledger with the reconciliation
// summary for the same party.
type LedgerReport struct {
	Ledger      ledger.LedgerResult      `json:"ledger"`
	Outstanding ledger.OutstandingResult `json:"outstanding"`
}

func (c *Client) PartyLedger(ctx context.Context, partyID string) (*LedgerReport, error) {
	var result LedgerReport
	if err := c.get(ctx, "/api/v1/reports/ledger/"+url.PathEscape(partyID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Outstanding(ctx context.Context, role string) ([]ledger.OutstandingResult, error) {
	params := url.Values{}
	if role != "" {
		params.Set("role", role)
	}
	var result []ledger.OutstandingResult
	if err := c.get(ctx, "/api/v1/reports/outstanding?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ProfitAndLoss(ctx context.Context) (*ledger.ProfitLoss, error) {
	var result ledger.ProfitLoss
	if err := c.get(ctx, "/api/v1/reports/pnl", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Cashbook(ctx context.Context) (*ledger.CashbookResult, error) {
	var result ledger.CashbookResult
	if err := c.get(ctx, "/api/v1/reports/cashbook", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DashboardResponse carries whichever drill-down level was requested;
// only the matching rows field is populated.
type DashboardResponse struct {
	Level     string              `json:"level"`
	Metric    ledger.Metric       `json:"metric"`
	Year      int                 `json:"year,omitempty"`
	Month     int                 `json:"month,omitempty"`
	YearRows  []ledger.YearRow    `json:"-"`
	MonthRows []ledger.MonthRow   `json:"-"`
	TxnRows   []ledger.TxnRow     `json:"-"`
	Summary   ledger.TxnSummary   `json:"summary"`
	Breakdown []ledger.PartyTotal `json:"breakdown"`
}

func dashboardQuery(metric string, year, month int) string {
	params := url.Values{}
	params.Set("metric", metric)
	switch {
	case month != 0:
		params.Set("level", "transactions")
		params.Set("year", strconv.Itoa(year))
		params.Set("month", strconv.Itoa(month))
	case year != 0:
		params.Set("level", "months")
		params.Set("year", strconv.Itoa(year))
	default:
		params.Set("level", "years")
	}
	return params.Encode()
}

func (c *Client) Dashboard(ctx context.Context, metric string, year, month int) (*DashboardResponse, error) {
	var raw struct {
		Level     string              `json:"level"`
		Metric    ledger.Metric       `json:"metric"`
		Year      int                 `json:"year"`
		Month     int                 `json:"month"`
		Rows      json.RawMessage     `json:"rows"`
		Summary   ledger.TxnSummary   `json:"summary"`
		Breakdown []ledger.PartyTotal `json:"breakdown"`
	}
	if err := c.get(ctx, "/api/v1/reports/dashboard?"+dashboardQuery(metric, year, month), &raw); err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Level: raw.Level, Metric: raw.Metric, Year: raw.Year, Month: raw.Month,
		Summary: raw.Summary, Breakdown: raw.Breakdown,
	}
	if len(raw.Rows) > 0 {
		var err error
		switch raw.Level {
		case "years":
			err = json.Unmarshal(raw.Rows, &resp.YearRows)
		case "months":
			err = json.Unmarshal(raw.Rows, &resp.MonthRows)
		case "transactions":
			err = json.Unmarshal(raw.Rows, &resp.TxnRows)
		}
		if err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
	}
	return resp, nil
}

func (c *Client) DashboardCSV(ctx context.Context, metric string, year, month int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/v1/reports/dashboard/export?"+dashboardQuery(metric, year, month), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Company-ID", c.companyID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/parties", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Company-ID", c.companyID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Company-ID", c.companyID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "PATCH", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	req.Header.Set("X-Company-ID", c.companyID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
