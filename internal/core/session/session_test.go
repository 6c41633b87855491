package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec() *Codec {
	return &Codec{Secret: []byte("test-secret-key"), Issuer: "bottle-store", TTL: time.Hour}
}

func issueCookies(t *testing.T, c *Codec, id Identity) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, c.Issue(rec, id))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func requestWith(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func TestIssueRead_RoundTrips(t *testing.T) {
	codec := newCodec()
	want := Identity{UserID: 7, Nickname: "ユーザー7"}

	got := codec.Read(requestWith(issueCookies(t, codec, want)))

	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestIssue_CookiesAreHTTPOnlySameSite(t *testing.T) {
	codec := newCodec()

	for _, ck := range issueCookies(t, codec, Identity{UserID: 1, Nickname: "a"}) {
		assert.True(t, ck.HttpOnly, "%s must be http-only", ck.Name)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite, "%s must be same-site", ck.Name)
		assert.Equal(t, "/", ck.Path)
	}
}

func TestRead_TamperedCookieIsAbsent(t *testing.T) {
	codec := newCodec()

	for _, name := range []string{CookieUserID, CookieNickname} {
		cookies := issueCookies(t, codec, Identity{UserID: 7, Nickname: "ユーザー7"})
		for _, ck := range cookies {
			if ck.Name == name {
				b := []byte(ck.Value)
				if b[10] == 'A' {
					b[10] = 'B'
				} else {
					b[10] = 'A'
				}
				ck.Value = string(b)
			}
		}
		assert.Nil(t, codec.Read(requestWith(cookies)), "tampered %s must not verify", name)
	}
}

func TestRead_MissingEitherCookieIsAbsent(t *testing.T) {
	codec := newCodec()
	cookies := issueCookies(t, codec, Identity{UserID: 7, Nickname: "ユーザー7"})

	for i := range cookies {
		partial := append([]*http.Cookie{}, cookies[:i]...)
		partial = append(partial, cookies[i+1:]...)
		assert.Nil(t, codec.Read(requestWith(partial)))
	}
}

func TestRead_WrongSecretIsAbsent(t *testing.T) {
	codec := newCodec()
	cookies := issueCookies(t, codec, Identity{UserID: 7, Nickname: "ユーザー7"})

	other := &Codec{Secret: []byte("another-secret"), Issuer: "bottle-store", TTL: time.Hour}
	assert.Nil(t, other.Read(requestWith(cookies)))
}

func TestRead_ExpiredCookieIsAbsent(t *testing.T) {
	expired := &Codec{Secret: []byte("test-secret-key"), Issuer: "bottle-store", TTL: -2 * time.Hour}
	cookies := issueCookies(t, expired, Identity{UserID: 7, Nickname: "ユーザー7"})

	assert.Nil(t, newCodec().Read(requestWith(cookies)))
}
