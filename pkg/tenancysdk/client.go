package tenancysdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient talks to the public endpoints of the tenancy service and opens
// Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient returns a client for baseURL. Redirects are not followed so
// callers can observe the service's 3xx responses.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// NewSession wraps an existing session token.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Login signs in with email and password.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/v1/auth/login", req, &out, http.StatusOK, nil); err != nil {
		return nil, err
	}
	return newSession(c, out), nil
}

// Register creates an account in an existing tenant and signs it in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/v1/auth/register", req, &out, http.StatusCreated, nil); err != nil {
		return nil, err
	}
	return newSession(c, out), nil
}

// AcceptInvitation redeems an invitation token.
func (c *SDKClient) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*AcceptInvitationResponse, error) {
	var out AcceptInvitationResponse
	if err := c.postJSON(ctx, "/v1/invitations/accept", req, &out, http.StatusCreated, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTenant fetches the public summary of a tenant by subdomain or id.
func (c *SDKClient) GetTenant(ctx context.Context, ref string) (*Tenant, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/tenants/"+url.PathEscape(ref), nil, nil)
	if err != nil {
		return nil, err
	}

	var out Tenant
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first tenant and admin using the bootstrap token.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	var out BootstrapResponse
	headers := map[string]string{"X-Bootstrap-Token": token}
	if err := c.postJSON(ctx, "/v1/bootstrap", req, &out, http.StatusCreated, headers); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTenantWithBootstrapToken creates a tenant without a session.
func (c *SDKClient) CreateTenantWithBootstrapToken(ctx context.Context, token string, req CreateTenantRequest) (*Tenant, error) {
	var out Tenant
	headers := map[string]string{"X-Bootstrap-Token": token}
	if err := c.postJSON(ctx, "/v1/tenants", req, &out, http.StatusCreated, headers); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
