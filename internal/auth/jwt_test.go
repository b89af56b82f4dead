package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("laptop", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetDeviceIDFromToken(tok, secret)
	require.NoError(t, err)
	require.Equal(t, "laptop", got)
}

func TestGetDeviceIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("d1", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = GetDeviceIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetDeviceIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("d2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetDeviceIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetDeviceIDFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := GetDeviceIDFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetDeviceIDFromToken_EmptyDevice(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("", secret, time.Hour)
	require.NoError(t, err)

	_, err = GetDeviceIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetDeviceIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{DeviceID: "d"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = GetDeviceIDFromToken(tok, []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
