package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	signed, err := GenerateToken(userID, "a@example.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	userID := uuid.New()
	expired, err := GenerateToken(userID, "a@example.com", secret, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := GenerateToken(userID, "a@example.com", []byte("other"), time.Hour)
	require.NoError(t, err)
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString(secret)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "Wrong key", token: wrongKey},
		{name: "Foreign issuer", token: foreign},
		{name: "Garbage", token: "not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateToken(tc.token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name    string
		url     string
		header  string
		want    string
		wantErr error
	}{
		{name: "Bearer header", url: "/", header: "Bearer abc", want: "abc"},
		{name: "Lowercase scheme", url: "/", header: "bearer abc", want: "abc"},
		{name: "Query wins", url: "/?token=q", header: "Bearer h", want: "q"},
		{name: "Missing", url: "/", wantErr: ErrAuthHeaderMissing},
		{name: "Bad format", url: "/", header: "Token abc", wantErr: ErrInvalidAuthFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}

			got, err := ExtractToken(c)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractBearerTokenIgnoresQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?token=q", nil)

	_, err := ExtractBearerToken(c)
	assert.ErrorIs(t, err, ErrAuthHeaderMissing)
}
