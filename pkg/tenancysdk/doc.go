/*
Package tenancysdk is a Go client for the tenancy service.

SDKClient covers the public endpoints: health, login, registration,
invitation acceptance, tenant lookup and bootstrap. Signing in returns a
Session, which sends its token as a bearer credential on every call:

	client := tenancysdk.NewSDKClient("http://localhost:8080")

	session, err := client.Login(ctx, tenancysdk.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
		TenantID: "acme",
	})

	profile, err := session.Profile(ctx)

	invite, err := session.Invite(ctx, tenancysdk.InviteRequest{
		Email:    "bob@example.com",
		TenantID: profile.Tenant.ID,
		Role:     "user",
	})

Errors returned by the service are *APIError values carrying the HTTP status,
the error code and, for validation failures, the offending field.
*/
package tenancysdk
