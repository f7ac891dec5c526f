package zoho

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	httpclient "student-enrollment/internal/common/http"
)

type CRMClient struct {
	oauthToken string
	baseURL    string
	httpClient *httpclient.Client
}

// Lead is a Zoho CRM lead record. Custom fields carry the enrollment data.
type Lead struct {
	ID          string `json:"id,omitempty"`
	LastName    string `json:"Last_Name"`
	Email       string `json:"Email,omitempty"`
	Mobile      string `json:"Mobile,omitempty"`
	Source      string `json:"Lead_Source,omitempty"`
	Status      string `json:"Lead_Status,omitempty"`
	Description string `json:"Description,omitempty"`
	StudentID   string `json:"Student_ID,omitempty"`
	College     string `json:"College,omitempty"`
	Course      string `json:"Course,omitempty"`
	Referrer    string `json:"Referred_By,omitempty"`
	Consultancy string `json:"Consultancy,omitempty"`
	State       string `json:"State,omitempty"`
	City        string `json:"City,omitempty"`
	ZipCode     string `json:"Zip_Code,omitempty"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

// ErrLeadNotFound is returned by FindLeadByStudentID when no lead matches.
var ErrLeadNotFound = errors.New("lead not found")

func NewCRMClient(baseURL, oauthToken string, client *httpclient.Client) *CRMClient {
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

// UpsertLead creates the lead or updates the one with the same Student_ID.
func (c *CRMClient) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	payload := map[string]interface{}{
		"data":                   []Lead{*lead},
		"duplicate_check_fields": []string{"Student_ID"},
	}

	var resp writeResponse
	if err := c.httpClient.DoJSON(ctx, http.MethodPost, c.baseURL+"/Leads/upsert", c.headers(), payload, &resp); err != nil {
		return "", fmt.Errorf("failed to upsert lead: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if resp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead upsert failed: %s", resp.Data[0].Message)
	}
	return resp.Data[0].Details.ID, nil
}

// FindLeadByStudentID searches leads by the Student_ID custom field.
func (c *CRMClient) FindLeadByStudentID(ctx context.Context, studentID string) (*Lead, error) {
	q := url.Values{}
	q.Set("criteria", fmt.Sprintf("(Student_ID:equals:%s)", studentID))

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := c.httpClient.DoJSON(ctx, http.MethodGet, c.baseURL+"/Leads/search?"+q.Encode(), c.headers(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to search leads: %w", err)
	}
	// Zoho answers 204 with no body when nothing matches.
	if len(result.Data) == 0 {
		return nil, ErrLeadNotFound
	}
	return &result.Data[0], nil
}
