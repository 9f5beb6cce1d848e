package userstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"example.com/stepsync/internal/pedometer"
)

var testJWT = JWTConfig{Secret: "test-secret", Issuer: "stepsync.identity"}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWT.Secret))
	require.NoError(t, err)
	return signed
}

func writeState(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadMissingFileIsEmptyState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), testJWT)
	state, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, state.PedometerSource)
	require.Empty(t, state.FBID)
}

func TestLoadExtractsSourceAndFBID(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"iss":  testJWT.Issuer,
		"fbid": "fb-123",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	path := writeState(t, `{"pedometer_source": "HealthKit", "session_token": "`+token+`"}`)

	state, err := NewStore(path, testJWT).Load()
	require.NoError(t, err)
	require.Equal(t, pedometer.SourceHealthKit, state.PedometerSource)
	require.Equal(t, "fb-123", state.FBID)
}

func TestLoadFallsBackToSubjectClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"iss": testJWT.Issuer,
		"sub": "fb-456",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	path := writeState(t, `{"pedometer_source": "Fitbit", "session_token": "`+token+`"}`)

	state, err := NewStore(path, testJWT).Load()
	require.NoError(t, err)
	require.Equal(t, "fb-456", state.FBID)
}

func TestLoadUnknownSourceIsNone(t *testing.T) {
	path := writeState(t, `{"pedometer_source": "Garmin"}`)
	state, err := NewStore(path, testJWT).Load()
	require.NoError(t, err)
	require.Empty(t, state.PedometerSource)
}

func TestLoadExpiredTokenYieldsNoSession(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"iss":  testJWT.Issuer,
		"fbid": "fb-123",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	path := writeState(t, `{"pedometer_source": "HealthKit", "session_token": "`+token+`"}`)

	state, err := NewStore(path, testJWT).Load()
	require.NoError(t, err)
	require.Equal(t, pedometer.SourceHealthKit, state.PedometerSource)
	require.Empty(t, state.FBID)
}

func TestLoadWrongIssuerYieldsNoSession(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"iss":  "someone-else",
		"fbid": "fb-123",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	path := writeState(t, `{"session_token": "`+token+`"}`)

	state, err := NewStore(path, testJWT).Load()
	require.NoError(t, err)
	require.Empty(t, state.FBID)
}

func TestLoadCorruptFile(t *testing.T) {
	path := writeState(t, `{nope`)
	_, err := NewStore(path, testJWT).Load()
	require.Error(t, err)
}
