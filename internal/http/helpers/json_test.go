package helpers

import (
	stderrors "errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
)

type payload struct {
	Email string `json:"email"`
}

func TestReadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"email":"a@x.com","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	var p payload
	require.NoError(t, ReadJSON(httptest.NewRecorder(), r, &p))
	assert.Equal(t, "a@x.com", p.Email)
}

func TestReadJSON_Errors(t *testing.T) {
	cases := map[string]struct {
		body, ct string
		want     *errors.AppError
	}{
		"empty":        {"", "application/json", errors.ErrInvalidJSON},
		"garbage":      {"{nope", "application/json", errors.ErrInvalidJSON},
		"trailing":     {`{"email":"a"} {}`, "application/json", errors.ErrInvalidJSON},
		"content type": {`{}`, "text/plain", errors.ErrBadRequest},
		"too large":    {`{"email":"` + strings.Repeat("a", 40<<10) + `"}`, "application/json", errors.ErrBodyTooLarge},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/x", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", tc.ct)
			var p payload
			err := ReadJSON(httptest.NewRecorder(), r, &p)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tc.want), "got %v", err)
		})
	}
}
