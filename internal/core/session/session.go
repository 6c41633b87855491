// Package session turns a verified user identity into a tamper-evident
// cookie pair and back. The cookies themselves are the only session state:
// nothing is stored server-side, and a cookie is trusted only after its
// signature verifies against the server-held secret key.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieUserID   = "user_id"
	CookieNickname = "nickname"
)

// Identity is the verified claim that a request acts on behalf of a user.
// Values are produced only by Codec.Read (or by authentication at login);
// review writes must take their acting user id from here and nowhere else.
type Identity struct {
	UserID   int64
	Nickname string
}

type Codec struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type cookieClaims struct {
	Value string `json:"val"`
	jwt.RegisteredClaims
}

func (c *Codec) sign(value string) (string, error) {
	now := time.Now()
	claims := cookieClaims{
		Value: value,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

func (c *Codec) verify(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return c.Secret, nil
	}, jwt.WithIssuer(c.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return "", err
	}
	if cl, ok := t.Claims.(*cookieClaims); ok && t.Valid {
		return cl.Value, nil
	}
	return "", errors.New("invalid cookie token")
}

// Issue signs the identity into the user_id and nickname cookies. Both are
// scoped to the whole site, HttpOnly (page scripts cannot read them) and
// SameSite=Lax (cross-site POSTs do not carry them).
func (c *Codec) Issue(w http.ResponseWriter, id Identity) error {
	uid, err := c.sign(strconv.FormatInt(id.UserID, 10))
	if err != nil {
		return fmt.Errorf("sign user_id cookie: %w", err)
	}
	nick, err := c.sign(id.Nickname)
	if err != nil {
		return fmt.Errorf("sign nickname cookie: %w", err)
	}
	maxAge := int(c.TTL.Seconds())
	http.SetCookie(w, cookie(CookieUserID, uid, maxAge))
	http.SetCookie(w, cookie(CookieNickname, nick, maxAge))
	return nil
}

// Read verifies both cookies independently and returns nil when either is
// missing or fails verification. A nil result means "not logged in"; it is
// never an error that should abort the request.
func (c *Codec) Read(r *http.Request) *Identity {
	uidCookie, err := r.Cookie(CookieUserID)
	if err != nil {
		return nil
	}
	nickCookie, err := r.Cookie(CookieNickname)
	if err != nil {
		return nil
	}
	uidStr, err := c.verify(uidCookie.Value)
	if err != nil {
		return nil
	}
	nick, err := c.verify(nickCookie.Value)
	if err != nil {
		return nil
	}
	uid, err := strconv.ParseInt(uidStr, 10, 64)
	if err != nil {
		return nil
	}
	return &Identity{UserID: uid, Nickname: nick}
}

// Revoke instructs the client to discard both cookies.
func (c *Codec) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, cookie(CookieUserID, "", -1))
	http.SetCookie(w, cookie(CookieNickname, "", -1))
}

func cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
