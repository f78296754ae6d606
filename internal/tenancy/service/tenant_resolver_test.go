package service_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

func TestResolveTenant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info service.RequestInfo
		want service.Resolution
	}{
		{
			name: "cookie wins over subdomain and path",
			info: service.RequestInfo{Host: "acme.example.com", Path: "/globex/dashboard", CookieTenant: "initech"},
			want: service.Resolution{TenantID: "initech", Source: service.SourceCookie},
		},
		{
			name: "subdomain",
			info: service.RequestInfo{Host: "acme.example.com", Path: "/globex/dashboard"},
			want: service.Resolution{TenantID: "acme", Source: service.SourceSubdomain},
		},
		{
			name: "subdomain with port",
			info: service.RequestInfo{Host: "acme.example.com:8080", Path: "/"},
			want: service.Resolution{TenantID: "acme", Source: service.SourceSubdomain},
		},
		{
			name: "www is not a tenant",
			info: service.RequestInfo{Host: "www.example.com", Path: "/acme/dashboard"},
			want: service.Resolution{TenantID: "acme", Source: service.SourcePath},
		},
		{
			name: "two labels falls through to path",
			info: service.RequestInfo{Host: "example.com", Path: "/acme/team"},
			want: service.Resolution{TenantID: "acme", Source: service.SourcePath},
		},
		{
			name: "localhost uses path",
			info: service.RequestInfo{Host: "localhost:3000", Path: "//acme/"},
			want: service.Resolution{TenantID: "acme", Source: service.SourcePath},
		},
		{
			name: "ip address is never a subdomain",
			info: service.RequestInfo{Host: "10.0.0.1:8080", Path: "/acme"},
			want: service.Resolution{TenantID: "acme", Source: service.SourcePath},
		},
		{
			name: "nothing to go on",
			info: service.RequestInfo{Host: "example.com", Path: "/"},
			want: service.Resolution{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := service.ResolveTenant(tt.info)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want.Source != service.SourceNone, got.Found())
		})
	}
}
