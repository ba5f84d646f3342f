// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package email

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectPrefixFromConfig(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	sender := NewSMTPSender(SMTPConfig{SubjectPrefix: "Acme Golf"}, log)
	assert.Equal(t, "Acme Golf: Verify Your Email Address", sender.subject("Verify Your Email Address"))

	fallback := NewSMTPSender(SMTPConfig{}, log)
	assert.Equal(t, "Fairway: Password Reset Code", fallback.subject("Password Reset Code"))
}
