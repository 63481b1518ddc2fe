package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwkFor(kid string, pub *rsa.PublicKey) JSONWebKey {
	return JSONWebKey{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func jwksServer(t *testing.T, keys ...JSONWebKey) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(JWKS{Keys: keys})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestKeyFuncVerifiesRS256Token(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv, _ := jwksServer(t, jwkFor("k1", &priv.PublicKey))
	p := NewProvider(srv.URL)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user-1"})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(priv)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, p.KeyFunc)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "user-1", parsed.Claims.(jwt.MapClaims)["sub"])
}

func TestUnknownKidIsThrottled(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv, hits := jwksServer(t, jwkFor("k1", &priv.PublicKey))
	p := NewProvider(srv.URL)

	_, err = p.PublicKey(t.Context(), "k1")
	require.NoError(t, err)

	_, err = p.PublicKey(t.Context(), "rotated")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = p.PublicKey(t.Context(), "rotated")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestKeyFuncRejectsHMAC(t *testing.T) {
	p := NewProvider("http://unused")
	tok := jwt.New(jwt.SigningMethodHS256)
	_, err := p.KeyFunc(tok)
	assert.Error(t, err)
}

func TestRefreshFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL).PublicKey(t.Context(), "k1")
	assert.Error(t, err)
}

func TestSupabaseJWKSURL(t *testing.T) {
	assert.Equal(t, "https://x.supabase.co/auth/v1/.well-known/jwks.json", SupabaseJWKSURL("https://x.supabase.co"))
}
