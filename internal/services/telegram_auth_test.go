package services

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const testBotToken = "123456:TEST-token"

func signedInitData(values url.Values, botToken string) string {
	values.Set("hash", signInitData(values, botToken))
	return values.Encode()
}

func baseInitData(authDate time.Time) url.Values {
	v := url.Values{}
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	v.Set("user", `{"id":100,"first_name":"Ann","last_name":"Lee","username":"ann","language_code":"en"}`)
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	return v
}

func TestVerifyInitData_Valid(t *testing.T) {
	v := baseInitData(time.Now())
	v.Set("start_param", "42")

	user, err := VerifyInitData(signedInitData(v, testBotToken), testBotToken)
	if err != nil {
		t.Fatalf("VerifyInitData failed: %v", err)
	}
	if user.ID != 100 || user.FirstName != "Ann" || user.LastName != "Lee" || user.Username != "ann" || user.LanguageCode != "en" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.StartParam == nil || *user.StartParam != 42 {
		t.Errorf("StartParam: got %v, want 42", user.StartParam)
	}
}

func TestVerifyInitData_StartParamIgnoredWhenNotNumeric(t *testing.T) {
	for _, sp := range []string{"", "abc", "12x"} {
		v := baseInitData(time.Now())
		if sp != "" {
			v.Set("start_param", sp)
		}
		user, err := VerifyInitData(signedInitData(v, testBotToken), testBotToken)
		if err != nil {
			t.Fatalf("start_param %q: VerifyInitData failed: %v", sp, err)
		}
		if user.StartParam != nil {
			t.Errorf("start_param %q: got %d, want nil", sp, *user.StartParam)
		}
	}
}

func TestVerifyInitData_Rejects(t *testing.T) {
	valid := signedInitData(baseInitData(time.Now()), testBotToken)

	tampered, _ := url.ParseQuery(valid)
	tampered.Set("user", `{"id":101,"first_name":"Mallory"}`)

	noHash, _ := url.ParseQuery(valid)
	noHash.Del("hash")

	noUser := baseInitData(time.Now())
	noUser.Del("user")

	zeroID := baseInitData(time.Now())
	zeroID.Set("user", `{"first_name":"Nobody"}`)

	cases := []struct {
		name     string
		initData string
		token    string
	}{
		{"empty", "", testBotToken},
		{"garbage", "%%%", testBotToken},
		{"tampered user", tampered.Encode(), testBotToken},
		{"missing hash", noHash.Encode(), testBotToken},
		{"other bot", valid, "654321:OTHER"},
		{"missing user", signedInitData(noUser, testBotToken), testBotToken},
		{"user without id", signedInitData(zeroID, testBotToken), testBotToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyInitData(tc.initData, tc.token); !errors.Is(err, ErrAuthentication) {
				t.Errorf("got %v, want ErrAuthentication", err)
			}
		})
	}
}

func TestVerifyInitData_MaxAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	fresh := signedInitData(baseInitData(now.Add(-time.Hour)), testBotToken)
	stale := signedInitData(baseInitData(now.Add(-48*time.Hour)), testBotToken)

	if _, err := VerifyInitData(fresh, testBotToken, WithMaxAge(24*time.Hour), WithClock(clock)); err != nil {
		t.Errorf("fresh init data rejected: %v", err)
	}
	if _, err := VerifyInitData(stale, testBotToken, WithMaxAge(24*time.Hour), WithClock(clock)); !errors.Is(err, ErrAuthentication) {
		t.Errorf("stale init data: got %v, want ErrAuthentication", err)
	}
	if _, err := VerifyInitData(stale, testBotToken, WithClock(clock)); err != nil {
		t.Errorf("stale init data without max age: %v", err)
	}
}
