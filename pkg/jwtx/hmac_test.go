package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHMACRejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHMAC([]byte("short"), "tenancy")
	require.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	h, err := jwtx.NewHMAC(secret, "tenancy")
	require.NoError(t, err)

	now := time.Now()
	c := jwtx.NewClaims("", "tenant-cookie", time.Hour, now)
	c.Tenant = "acme"

	token, err := h.Sign(c)
	require.NoError(t, err)

	got, err := h.Verify(token, "tenant-cookie")
	require.NoError(t, err)
	require.Equal(t, "acme", got.Tenant)
	require.Equal(t, "tenancy", got.Issuer)

	t.Run("wrong audience", func(t *testing.T) {
		_, err := h.Verify(token, "oauth-state")
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		forged := jwtx.NewClaims("tenancy", "tenant-cookie", time.Hour, now)
		forged.Tenant = "globex"
		other, err := h.Sign(forged)
		require.NoError(t, err)
		otherParts := strings.Split(other, ".")

		_, err = h.Verify(parts[0]+"."+otherParts[1]+"."+parts[2], "tenant-cookie")
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("different secret", func(t *testing.T) {
		h2, err := jwtx.NewHMAC([]byte("fedcba9876543210fedcba9876543210"), "tenancy")
		require.NoError(t, err)
		_, err = h2.Verify(token, "tenant-cookie")
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("different issuer", func(t *testing.T) {
		h2, err := jwtx.NewHMAC(secret, "someone-else")
		require.NoError(t, err)
		_, err = h2.Verify(token, "tenant-cookie")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not-a-token", "tenant-cookie")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestVerifyExpired(t *testing.T) {
	h, err := jwtx.NewHMAC(secret, "tenancy")
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	token, err := h.Sign(jwtx.NewClaims("", "oauth-state", time.Hour, issued))
	require.NoError(t, err)

	_, err = h.Verify(token, "oauth-state")
	require.ErrorIs(t, err, jwtx.ErrExpired)

	h.Now = func() time.Time { return issued.Add(time.Minute) }
	_, err = h.Verify(token, "oauth-state")
	require.NoError(t, err)
}
