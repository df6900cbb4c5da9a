package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecaptchaThreshold is the minimum reCAPTCHA v3 score accepted (0.0 to 1.0).
const RecaptchaThreshold = 0.5

const DefaultRecaptchaURL = "https://www.google.com/recaptcha/api/siteverify"

type CaptchaResult struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// CaptchaVerifier checks a human-presence token. It returns ErrInvalidCaptcha
// or ErrCaptchaScoreTooLow when the token is rejected.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (CaptchaResult, error)
}

type RecaptchaVerifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

func NewRecaptchaVerifier(secret, endpoint string, timeout time.Duration) *RecaptchaVerifier {
	if endpoint == "" {
		endpoint = DefaultRecaptchaURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecaptchaVerifier{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (CaptchaResult, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return CaptchaResult{}, fmt.Errorf("%w: build captcha request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return CaptchaResult{}, fmt.Errorf("%w: captcha verify: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CaptchaResult{}, fmt.Errorf("%w: captcha verify status %d", ErrUpstream, resp.StatusCode)
	}

	var res CaptchaResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return CaptchaResult{}, fmt.Errorf("%w: decode captcha response: %w", ErrUpstream, err)
	}

	if !res.Success {
		return res, ErrInvalidCaptcha
	}
	if res.Score < RecaptchaThreshold {
		return res, ErrCaptchaScoreTooLow
	}
	return res, nil
}
