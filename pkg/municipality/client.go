package municipality

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client represents a municipality waste-fee API client
type Client struct {
	BaseURL string
	APIKey  string
	MockAPI bool
	client  *http.Client
}

// Property describes a registered property in the municipal cadastral system
type Property struct {
	PropertyNumber string  `json:"property_number"`
	Address        string  `json:"address"`
	OwnerName      string  `json:"owner_name"`
	AnnualWasteFee float64 `json:"annual_waste_fee"`
}

// FeeBalance describes the outstanding waste-fee state for a property
type FeeBalance struct {
	PropertyNumber     string  `json:"property_number"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	AnnualFee          float64 `json:"annual_fee"`
}

// NewClient creates a new municipality API client
func NewClient(baseURL, apiKey string, mockAPI bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyProperty checks a property number against the cadastral system
func (c *Client) VerifyProperty(propertyNumber, municipalityName string) (*Property, error) {
	if c.MockAPI {
		if !ValidatePropertyNumber(propertyNumber) {
			return nil, errors.New("property not found")
		}
		return &Property{
			PropertyNumber: propertyNumber,
			Address:        "1 Mock Street, " + municipalityName,
			OwnerName:      "Mock Owner",
			AnnualWasteFee: 200,
		}, nil
	}

	endpoint := fmt.Sprintf("%s/properties/%s?municipality=%s",
		c.BaseURL, url.PathEscape(propertyNumber), url.QueryEscape(municipalityName))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New("property not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("municipality API returned status " + resp.Status)
	}

	var property Property
	if err := json.NewDecoder(resp.Body).Decode(&property); err != nil {
		return nil, err
	}
	return &property, nil
}

// GetWasteFeeBalance retrieves the current waste-fee balance for a property
func (c *Client) GetWasteFeeBalance(propertyNumber string) (*FeeBalance, error) {
	if c.MockAPI {
		return &FeeBalance{
			PropertyNumber:     propertyNumber,
			OutstandingBalance: 200,
			AnnualFee:          200,
		}, nil
	}

	endpoint := fmt.Sprintf("%s/waste-fees/%s/balance", c.BaseURL, url.PathEscape(propertyNumber))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("municipality API returned status " + resp.Status)
	}

	var balance FeeBalance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// SubmitPayment submits a wallet-funded payment toward a property's waste fee
func (c *Client) SubmitPayment(propertyNumber string, amount float64) error {
	if c.MockAPI {
		if amount <= 0 {
			return errors.New("payment amount must be positive")
		}
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"amount":         strconv.FormatFloat(amount, 'f', 2, 64),
		"payment_source": "POWERSAVE_WALLET",
		"payment_method": "DIGITAL_WALLET",
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/waste-fees/%s/payments", c.BaseURL, url.PathEscape(propertyNumber))
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("payment failed with status " + resp.Status)
	}
	return nil
}

// ValidatePropertyNumber validates the XX/YYYY property number format used
// by Cypriot municipalities.
func ValidatePropertyNumber(propertyNumber string) bool {
	propertyNumber = strings.ReplaceAll(propertyNumber, " ", "")
	parts := strings.Split(propertyNumber, "/")
	if len(parts) != 2 {
		return false
	}

	block, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	plot, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return block >= 1 && block <= 999 && plot >= 1 && plot <= 99999
}
