package fss

import (
	"net/url"
	"testing"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContinuationToken_MappingAndQueryAgree(t *testing.T) {
	fromMap, err := NewContinuationToken(CallbackFields{"PaRes": "eJzVWNmSo0gSfK+v", "MD": "8991234567890123"})
	require.NoError(t, err)

	fromQuery, err := NewContinuationToken(CallbackQuery("PaRes=eJzVWNmSo0gSfK%2Bv&MD=8991234567890123"))
	require.NoError(t, err)

	assert.Equal(t, fromMap.Fields(), fromQuery.Fields())
	assert.Equal(t, "eJzVWNmSo0gSfK+v", fromQuery.AuthResponse())
	assert.Equal(t, "8991234567890123", fromQuery.MerchantData())
}

func TestNewContinuationToken_LeadingQuestionMark(t *testing.T) {
	token, err := NewContinuationToken(CallbackQuery("?MD=1&PaRes=abc&extra=x"))
	require.NoError(t, err)

	assert.Equal(t, "abc", token.AuthResponse())
	v, ok := token.Get("extra")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestNewContinuationToken_FirstValueWins(t *testing.T) {
	token, err := NewContinuationToken(CallbackQuery("PaRes=first&PaRes=second&MD=1"))
	require.NoError(t, err)
	assert.Equal(t, "first", token.AuthResponse())
}

func TestNewContinuationToken_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		raw       PreauthCallback
		wantErr   error
		wantField string
	}{
		{
			name:    "nil callback",
			raw:     nil,
			wantErr: pkgerrors.ErrInvalidPreauthFormat,
		},
		{
			name:    "malformed query",
			raw:     CallbackQuery("PaRes=%zz&MD=1"),
			wantErr: pkgerrors.ErrInvalidPreauthFormat,
		},
		{
			name:      "missing PaRes",
			raw:       CallbackFields{"MD": "1"},
			wantErr:   pkgerrors.ErrMissingRequiredField,
			wantField: FieldAuthResponse,
		},
		{
			name:      "missing MD",
			raw:       CallbackQuery("PaRes=abc"),
			wantErr:   pkgerrors.ErrMissingRequiredField,
			wantField: FieldMerchantData,
		},
		{
			name:      "empty MD",
			raw:       CallbackFields{"PaRes": "abc", "MD": ""},
			wantErr:   pkgerrors.ErrMissingRequiredField,
			wantField: FieldMerchantData,
		},
		{
			name:      "keys are case sensitive",
			raw:       CallbackFields{"pares": "abc", "md": "1"},
			wantErr:   pkgerrors.ErrMissingRequiredField,
			wantField: FieldAuthResponse,
		},
		{
			name:      "field name that cannot be a tag",
			raw:       CallbackQuery("PaRes=abc&MD=1&%3Cscript%3E=x"),
			wantErr:   pkgerrors.ErrInvalidPreauthFormat,
			wantField: "<script>",
		},
		{
			name:      "field name starting with a digit",
			raw:       CallbackFields{"PaRes": "abc", "MD": "1", "1st": "x"},
			wantErr:   pkgerrors.ErrInvalidPreauthFormat,
			wantField: "1st",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewContinuationToken(tt.raw)
			assert.Nil(t, token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantField != "" {
				var verr *pkgerrors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}

func TestContinuationToken_FieldsIsACopy(t *testing.T) {
	src := CallbackFields{"PaRes": "abc", "MD": "1"}
	token, err := NewContinuationToken(src)
	require.NoError(t, err)

	src["PaRes"] = "changed"
	fields := token.Fields()
	fields["MD"] = "changed"

	assert.Equal(t, "abc", token.AuthResponse())
	assert.Equal(t, "1", token.MerchantData())
}

func TestDecodePreauthCallback(t *testing.T) {
	want := map[string]string{"PaRes": "abc", "MD": "1"}

	inputs := map[string]any{
		"fields":     CallbackFields{"PaRes": "abc", "MD": "1"},
		"map":        map[string]string{"PaRes": "abc", "MD": "1"},
		"url values": url.Values{"PaRes": {"abc"}, "MD": {"1"}},
		"string":     "PaRes=abc&MD=1",
		"bytes":      []byte("PaRes=abc&MD=1"),
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			cb, err := DecodePreauthCallback(raw)
			require.NoError(t, err)
			token, err := NewContinuationToken(cb)
			require.NoError(t, err)
			assert.Equal(t, want, token.Fields())
		})
	}

	for _, raw := range []any{42, nil, []string{"PaRes=abc"}} {
		_, err := DecodePreauthCallback(raw)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPreauthFormat)
	}
}

func TestPreauthFromEnrollment(t *testing.T) {
	enrolled, err := ParseResponse([]byte(enrolledResponse))
	require.NoError(t, err)

	p := preauthFromEnrollment(enrolled)
	assert.Equal(t, PreauthEnrolled, p.State)
	assert.True(t, p.Enrolled)
	assert.True(t, p.Post)
	require.NotNil(t, p.URL)
	assert.Equal(t, "https://acs.example.test/mdpayacs/pareq", *p.URL)
	assert.Equal(t, []string{FieldAuthRequest, FieldMerchantData}, []string{p.Fields[0].Name, p.Fields[1].Name})
	require.NotNil(t, p.Field(FieldAuthRequest))
	assert.Equal(t, "eJxVUk1zgjAQvfsrGO4lCSKis8ax2k49aB1rp2cKq9LyYUOw", *p.Field(FieldAuthRequest))
	assert.Equal(t, strPtr("8991234567890123"), p.Field(FieldMerchantData))

	missing := preauthFromEnrollment(Response{ReplyResult: "ENROLLED"})
	assert.True(t, missing.Enrolled)
	assert.Nil(t, missing.URL)
	assert.Nil(t, missing.Field(FieldAuthRequest))

	notEnrolled := preauthFromEnrollment(Response{ReplyResult: "NOT ENROLLED"})
	assert.Equal(t, PreauthNotEnrolled, notEnrolled.State)
	assert.False(t, notEnrolled.Enrolled)
	assert.False(t, notEnrolled.Post)
	assert.Nil(t, notEnrolled.URL)
	assert.Len(t, notEnrolled.Fields, 2)
	assert.Nil(t, notEnrolled.Field(FieldMerchantData))
}
