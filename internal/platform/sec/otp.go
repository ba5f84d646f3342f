// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package sec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod = 30
	totpDigits = otp.DigitsSix
	totpSkew   = 1

	qrImageSize = 256
)

// OTPEnrollment is the material produced for a new authenticator enrollment.
type OTPEnrollment struct {
	// Secret is the base32 shared secret, plaintext. The caller is
	// responsible for encrypting it before persistence.
	Secret string

	// URI is the otpauth:// provisioning URI.
	URI string

	// QRCode is the provisioning URI rendered as a PNG data URL, ready to
	// drop into an <img> tag.
	QRCode string
}

// GenerateOTPEnrollment creates a fresh TOTP secret for the given account,
// labelled with the issuer, along with its provisioning URI and QR code.
func GenerateOTPEnrollment(issuer, account string) (*OTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      totpPeriod,
		Digits:      totpDigits,
	})
	if err != nil {
		return nil, fmt.Errorf("sec: failed to generate TOTP key: %w", err)
	}

	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to render TOTP QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("sec: failed to encode TOTP QR code: %w", err)
	}

	return &OTPEnrollment{
		Secret: key.Secret(),
		URI:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyOTPCode checks a 6-digit code against the shared secret, allowing one
// time step of clock skew in either direction.
func VerifyOTPCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    totpDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
