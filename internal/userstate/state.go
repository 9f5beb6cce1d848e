// Package userstate gives read-only access to the persisted user state the
// login and source-authorization flows maintain: which pedometer source the
// user authorized, and the session token identifying them. The sync agent
// only ever reads this state.
package userstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"example.com/stepsync/internal/pedometer"
)

// JWTConfig holds verification parameters for session tokens.
type JWTConfig struct {
	Secret string
	Issuer string
}

// State is a point-in-time snapshot of the persisted user state.
// PedometerSource is empty when no source is authorized; FBID is empty when
// there is no valid session.
type State struct {
	PedometerSource pedometer.SourceKind
	FBID            string
}

// ErrInvalidToken wraps session token parsing/validation errors.
var ErrInvalidToken = errors.New("invalid session token")

// Store reads user state from a JSON file on disk.
type Store struct {
	path   string
	jwtCfg JWTConfig
}

// NewStore builds a Store for the state file at path.
func NewStore(path string, cfg JWTConfig) *Store {
	return &Store{path: path, jwtCfg: cfg}
}

type stateFile struct {
	PedometerSource string `json:"pedometer_source"`
	SessionToken    string `json:"session_token"`
}

// Load reads the current state. A missing state file is an empty state, not
// an error: the user simply has not logged in or authorized a source yet.
// An invalid or expired session token yields an empty FBID the same way.
func (s *Store) Load() (State, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read state file: %w", err)
	}

	var file stateFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return State{}, fmt.Errorf("decode state file: %w", err)
	}

	state := State{}
	if kind, ok := pedometer.ParseSourceKind(file.PedometerSource); ok {
		state.PedometerSource = kind
	}
	if fbid, err := parseFBID(file.SessionToken, s.jwtCfg); err == nil {
		state.FBID = fbid
	}
	return state, nil
}

// parseFBID validates a session JWT and extracts the fbid claim.
func parseFBID(token string, cfg JWTConfig) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}

	fbid, _ := claims["fbid"].(string)
	if fbid == "" {
		// Older tokens carried the Facebook id as the subject.
		fbid, _ = claims["sub"].(string)
	}
	if fbid == "" {
		return "", ErrInvalidToken
	}
	return fbid, nil
}
