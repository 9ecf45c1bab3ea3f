package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
)

// ErrAuthentication is returned for init-data that is malformed, unsigned,
// signed with another bot token or too old.
var ErrAuthentication = errors.New("could not validate telegram credentials")

type initDataOptions struct {
	maxAge time.Duration
	now    func() time.Time
}

// InitDataOption tunes VerifyInitData.
type InitDataOption func(*initDataOptions)

// WithMaxAge rejects init-data whose auth_date is older than d. Zero disables
// the check.
func WithMaxAge(d time.Duration) InitDataOption {
	return func(o *initDataOptions) { o.maxAge = d }
}

// WithClock overrides the time source used by the freshness check.
func WithClock(now func() time.Time) InitDataOption {
	return func(o *initDataOptions) { o.now = now }
}

// VerifyInitData checks the signature of a Telegram WebApp init-data string
// and returns the user it carries.
//
// The data-check-string is every key=value pair except hash, sorted by key
// and joined with "\n". The signing key is HMAC-SHA256("WebAppData", botToken).
func VerifyInitData(initData, botToken string, opts ...InitDataOption) (models.TelegramUser, error) {
	o := initDataOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return models.TelegramUser{}, fmt.Errorf("%w: malformed init data", ErrAuthentication)
	}

	hash := values.Get("hash")
	if hash == "" {
		return models.TelegramUser{}, fmt.Errorf("%w: hash missing", ErrAuthentication)
	}
	values.Del("hash")

	if !hmac.Equal([]byte(strings.ToLower(hash)), []byte(signInitData(values, botToken))) {
		return models.TelegramUser{}, fmt.Errorf("%w: hash mismatch", ErrAuthentication)
	}

	if o.maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return models.TelegramUser{}, fmt.Errorf("%w: auth_date missing", ErrAuthentication)
		}
		if o.now().Sub(time.Unix(authDate, 0)) > o.maxAge {
			return models.TelegramUser{}, fmt.Errorf("%w: init data expired", ErrAuthentication)
		}
	}

	raw := values.Get("user")
	if raw == "" {
		return models.TelegramUser{}, fmt.Errorf("%w: user missing", ErrAuthentication)
	}
	var user models.TelegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == 0 {
		return models.TelegramUser{}, fmt.Errorf("%w: user payload invalid", ErrAuthentication)
	}

	if sp := strings.TrimSpace(values.Get("start_param")); sp != "" {
		if hubID, err := strconv.ParseInt(sp, 10, 64); err == nil {
			user.StartParam = &hubID
		}
	}

	return user, nil
}

// signInitData returns the hex signature Telegram would attach to values
// (hash excluded) for the given bot token.
func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
