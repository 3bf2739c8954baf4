package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationHTML(t *testing.T) {
	body, err := VerificationHTML("Ada <script>", "http://localhost:3100/api/user/verify?token=abc", "1h0m0s")
	require.NoError(t, err)

	assert.Contains(t, body, `href="http://localhost:3100/api/user/verify?token=abc"`)
	assert.Contains(t, body, "1h0m0s")
	assert.NotContains(t, body, "<script>")
}

func TestNew_FallsBackToLog(t *testing.T) {
	d := New("", "Blog <noreply@example.com>")
	assert.IsType(t, LogDispatcher{}, d)
	assert.NoError(t, d.Send(context.Background(), "a@example.com", "hi", "<p>hi</p>"))

	assert.IsType(t, &ResendDispatcher{}, New("re_test", "Blog <noreply@example.com>"))
}
