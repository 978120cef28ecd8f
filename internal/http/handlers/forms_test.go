package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestDecodeRegisterForm(t *testing.T) {
	var form registerForm
	fieldErrors, err := decodeForm(formRequest(url.Values{
		"name":     {"  Ada  "},
		"email":    {" Ada@Example.com "},
		"password": {"pw"},
		"submit":   {"Register!"},
	}), &form)
	require.NoError(t, err)
	require.Empty(t, fieldErrors)
	require.Equal(t, "Ada", form.Name)
	require.Equal(t, "ada@example.com", form.Email)
	require.Equal(t, "pw", form.Password)
}

func TestDecodeFormFieldErrors(t *testing.T) {
	var form registerForm
	fieldErrors, err := decodeForm(formRequest(url.Values{
		"email":    {"not-an-email"},
		"password": {strings.Repeat("x", 80)},
	}), &form)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"name":     "This field is required.",
		"email":    "Enter a valid email address.",
		"password": "Must be at most 72 characters.",
	}, fieldErrors)
}

func TestDecodePostForm(t *testing.T) {
	var form postForm
	fieldErrors, err := decodeForm(formRequest(url.Values{
		"title":    {"Hello"},
		"subtitle": {"World"},
		"img_url":  {"nope"},
		"body":     {""},
	}), &form)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"img_url": "Enter a valid URL.",
		"body":    "This field is required.",
	}, fieldErrors)
}

func TestDecodeCommentForm(t *testing.T) {
	var form commentForm
	fieldErrors, err := decodeForm(formRequest(url.Values{"comment": {"   "}}), &form)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"comment": "This field is required."}, fieldErrors)
}
