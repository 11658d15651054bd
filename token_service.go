package school

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Token lifetimes. The access cookie outlives its first hour only through
// the refresh path, which mints a fresh pair with the shorter TTL.
const (
	LoginAccessTokenTTL     = 24 * time.Hour
	RefreshedAccessTokenTTL = time.Hour
	RefreshTokenTTL         = 7 * 24 * time.Hour
	ResetTokenTTL           = 15 * time.Minute
)

// TokenPair holds the two session tokens minted together at login or on
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and validates the session token pair and the password
// reset token. Session and reset tokens use separate signing keys.
type TokenService struct {
	sessionKey []byte
	resetKey   []byte
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(sessionKey, resetKey []byte, issuer string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		sessionKey: sessionKey,
		resetKey:   resetKey,
		issuer:     issuer,
		logger:     logger,
	}
}

// SignSession signs session claims with the session key and the given TTL.
func (ts *TokenService) SignSession(claims *SessionClaims, ttl time.Duration) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims.RegisteredClaims.Issuer = ts.issuer
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	ensureTokenID(&claims.RegisteredClaims)

	return signClaims(claims, ts.sessionKey)
}

// MintSessionPair signs the same claim snapshot twice, once per token TTL.
// Both tokens carry distinct token IDs.
func (ts *TokenService) MintSessionPair(claims *SessionClaims, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	if claims == nil {
		return TokenPair{}, errors.New("claims must not be nil", errors.CategoryInternal)
	}

	access, err := ts.SignSession(claims, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refreshClaims := *claims
	refreshClaims.RegisteredClaims.ID = ""
	refresh, err := ts.SignSession(&refreshClaims, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateSession parses and validates a session token, returning structured
// claims. Expiry is reported as ErrTokenExpired so callers can branch into
// the refresh flow; every other failure maps to ErrTokenInvalid.
func (ts *TokenService) ValidateSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := ts.parse(tokenString, claims, ts.sessionKey); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(ErrTokenInvalid.Code)
	}
	return claims, nil
}

// SignReset signs reset claims with the reset key for the fixed reset window.
func (ts *TokenService) SignReset(claims *ResetClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims.RegisteredClaims.Issuer = ts.issuer
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ResetTokenTTL))
	ensureTokenID(&claims.RegisteredClaims)

	return signClaims(claims, ts.resetKey)
}

// ValidateReset parses and validates a password reset token. Expiry maps to
// ErrResetLinkExpired, everything else to ErrResetFailed.
func (ts *TokenService) ValidateReset(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := ts.parse(tokenString, claims, ts.resetKey); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrResetLinkExpired
		}
		return nil, errors.Wrap(err, ErrResetFailed.Category, ErrResetFailed.Message).
			WithTextCode(ErrResetFailed.TextCode).
			WithCode(ErrResetFailed.Code)
	}
	return claims, nil
}

func (ts *TokenService) parse(tokenString string, claims jwt.Claims, key []byte) error {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, parserOptions...)

	if err != nil {
		return err
	}

	if !token.Valid {
		return fmt.Errorf("token is not valid")
	}

	return nil
}

func signClaims(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
