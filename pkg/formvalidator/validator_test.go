package formvalidator_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/landing/pkg/formvalidator"
)

func TestValidator_Check(t *testing.T) {
	t.Parallel()

	v := formvalidator.New(nil)

	tests := []struct {
		name   string
		field  string
		value  string
		valid  bool
		reason formvalidator.Reason
	}{
		{"first name two letters", formvalidator.FieldFirstName, "Jo", true, formvalidator.ReasonNone},
		{"first name one letter", formvalidator.FieldFirstName, "J", false, formvalidator.ReasonPattern},
		{"first name with digit", formvalidator.FieldFirstName, "J0hn", false, formvalidator.ReasonPattern},
		{"first name padded", formvalidator.FieldFirstName, "  Ann  ", true, formvalidator.ReasonNone},
		{"last name one letter", formvalidator.FieldLastName, "X", true, formvalidator.ReasonNone},
		{"last name hyphenated", formvalidator.FieldLastName, "Smith-Jones", false, formvalidator.ReasonPattern},
		{"email minimal", formvalidator.FieldEmail, "a@b.c", true, formvalidator.ReasonNone},
		{"email without dot segment", formvalidator.FieldEmail, "a@b", false, formvalidator.ReasonPattern},
		{"email with inner space", formvalidator.FieldEmail, "a b@c.com", false, formvalidator.ReasonPattern},
		{"email with no-break space", formvalidator.FieldEmail, "a\u00a0b@c.com", false, formvalidator.ReasonPattern},
		{"email with em space in domain", formvalidator.FieldEmail, "a@b\u2003c.com", false, formvalidator.ReasonPattern},
		{"email with inner byte order mark", formvalidator.FieldEmail, "a\ufeffb@c.com", false, formvalidator.ReasonPattern},
		{"first name after byte order mark", formvalidator.FieldFirstName, "\ufeffJo", true, formvalidator.ReasonNone},
		{"first name padded with unicode spaces", formvalidator.FieldFirstName, "\u3000Ann\u00a0", true, formvalidator.ReasonNone},
		{"message byte order mark only", formvalidator.FieldMessage, "\ufeff", false, formvalidator.ReasonRequired},
		{"phone ten digits", formvalidator.FieldPhone, "9876543210", true, formvalidator.ReasonNone},
		{"phone with country code", formvalidator.FieldPhone, "+91 9876543210", true, formvalidator.ReasonNone},
		{"phone with country code and dash", formvalidator.FieldPhone, "+91-9876543210", true, formvalidator.ReasonNone},
		{"phone leading five", formvalidator.FieldPhone, "5876543210", false, formvalidator.ReasonPattern},
		{"phone eleven digits", formvalidator.FieldPhone, "98765432100", false, formvalidator.ReasonPattern},
		{"message nine chars", formvalidator.FieldMessage, "123456789", false, formvalidator.ReasonPattern},
		{"message ten chars", formvalidator.FieldMessage, "1234567890", true, formvalidator.ReasonNone},
		{"message across lines", formvalidator.FieldMessage, "hello\nworld", true, formvalidator.ReasonNone},
		// Length counts characters, so each emoji counts once.
		{"message five emoji", formvalidator.FieldMessage, "😀😀😀😀😀", false, formvalidator.ReasonPattern},
		{"message nine emoji", formvalidator.FieldMessage, strings.Repeat("😀", 9), false, formvalidator.ReasonPattern},
		{"message ten emoji", formvalidator.FieldMessage, strings.Repeat("😀", 10), true, formvalidator.ReasonNone},
		{"unknown field non-empty", "company", "Acme", true, formvalidator.ReasonNone},
		{"unknown field empty", "company", "", false, formvalidator.ReasonRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := v.Check(tt.field, tt.value)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.field, res.Field)
			if tt.valid {
				assert.Empty(t, res.Message)
			} else {
				assert.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestValidator_Check_EmptyIsRequired(t *testing.T) {
	t.Parallel()

	v := formvalidator.New(formvalidator.DefaultRules())
	for _, field := range v.Rules().Names() {
		for _, value := range []string{"", " ", "\t\n  "} {
			res := v.Check(field, value)
			assert.False(t, res.Valid, "%s=%q", field, value)
			assert.Equal(t, formvalidator.ReasonRequired, res.Reason, "%s=%q", field, value)
			assert.Equal(t, formvalidator.DefaultRequiredMessage, res.Message, "%s=%q", field, value)
		}
	}
}

func TestValidator_Check_FieldMessages(t *testing.T) {
	t.Parallel()

	v := formvalidator.New(nil)
	want := map[string]string{
		formvalidator.FieldFirstName: "Please enter a valid first name (minimum 2 letters)",
		formvalidator.FieldLastName:  "Please enter a valid last name",
		formvalidator.FieldEmail:     "Please enter a valid email address",
		formvalidator.FieldPhone:     "Please enter a valid Indian phone number",
		formvalidator.FieldMessage:   "Message must be at least 10 characters long",
	}
	for field, msg := range want {
		assert.Equal(t, msg, v.Check(field, "1").Message, field)
	}
}

func TestValidator_ValidateField(t *testing.T) {
	t.Parallel()

	t.Run("invalid then valid clears marker and error", func(t *testing.T) {
		t.Parallel()
		v := formvalidator.New(nil)
		rec := formvalidator.NewRecorder()

		ok := v.ValidateField(rec, formvalidator.Field{Name: formvalidator.FieldEmail, Value: "a@b"})
		require.False(t, ok)
		assert.Equal(t, formvalidator.StateInvalid, rec.FieldState(formvalidator.FieldEmail))
		assert.Equal(t, "Please enter a valid email address", rec.Error(formvalidator.FieldEmail))

		ok = v.ValidateField(rec, formvalidator.Field{Name: formvalidator.FieldEmail, Value: "a@b.co"})
		require.True(t, ok)
		assert.Equal(t, formvalidator.StateValid, rec.FieldState(formvalidator.FieldEmail))
		assert.Empty(t, rec.Error(formvalidator.FieldEmail))
	})

	t.Run("custom required message", func(t *testing.T) {
		t.Parallel()
		rules := formvalidator.MustRuleSet("Required", formvalidator.DefaultRules().Rules()...)
		v := formvalidator.New(rules)
		rec := formvalidator.NewRecorder()

		assert.False(t, v.ValidateField(rec, formvalidator.Field{Name: formvalidator.FieldPhone}))
		assert.Equal(t, "Required", rec.Error(formvalidator.FieldPhone))
	})
}

func TestValidator_ValidateForm(t *testing.T) {
	t.Parallel()

	v := formvalidator.New(nil)
	rec := formvalidator.NewRecorder()
	fields := []*formvalidator.Field{
		{Name: formvalidator.FieldFirstName, Value: "J"},
		{Name: formvalidator.FieldLastName, Value: "Doe"},
		{Name: formvalidator.FieldEmail, Value: "john@example.com"},
		{Name: formvalidator.FieldPhone, Value: ""},
		{Name: formvalidator.FieldMessage, Value: "Hello there, world"},
	}

	assert.False(t, v.ValidateForm(rec, fields))

	want := formvalidator.Snapshot{
		Invalid: []string{formvalidator.FieldFirstName, formvalidator.FieldPhone},
		Errors: map[string]string{
			formvalidator.FieldFirstName: "Please enter a valid first name (minimum 2 letters)",
			formvalidator.FieldPhone:     formvalidator.DefaultRequiredMessage,
		},
	}
	if diff := cmp.Diff(want, rec.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRuleSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []formvalidator.FieldRule
	}{
		{"empty name", []formvalidator.FieldRule{{Name: ""}}},
		{"duplicate", []formvalidator.FieldRule{{Name: "a"}, {Name: "a"}}},
		{"pattern without message", []formvalidator.FieldRule{
			{Name: "a", Pattern: formvalidator.DefaultRules().Rules()[0].Pattern},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := formvalidator.NewRuleSet("", tt.rules...)
			require.ErrorIs(t, err, formvalidator.ErrInvalidRules)
		})
	}

	t.Run("defaults required message", func(t *testing.T) {
		t.Parallel()
		rs, err := formvalidator.NewRuleSet("", formvalidator.FieldRule{Name: "a"})
		require.NoError(t, err)
		assert.Equal(t, formvalidator.DefaultRequiredMessage, rs.RequiredMessage())
		assert.Equal(t, []string{"a"}, rs.Names())
	})

	t.Run("must panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { formvalidator.MustRuleSet("", formvalidator.FieldRule{}) })
	})
}

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	rs := formvalidator.DefaultRules()
	assert.Equal(t, []string{
		formvalidator.FieldFirstName,
		formvalidator.FieldLastName,
		formvalidator.FieldEmail,
		formvalidator.FieldPhone,
		formvalidator.FieldMessage,
	}, rs.Names())

	names := rs.Names()
	names[0] = "mutated"
	assert.Equal(t, formvalidator.FieldFirstName, rs.Names()[0])

	_, ok := rs.Lookup("company")
	assert.False(t, ok)
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("overrides merge onto base", func(t *testing.T) {
		t.Parallel()
		src := `
required_message: "Required"
fields:
  - name: phone
    pattern: '^\d{10}$'
    message: "Please enter a 10 digit phone number"
  - name: lastName
    pattern: ""
  - name: company
`
		rs, err := formvalidator.LoadRules(strings.NewReader(src), formvalidator.DefaultRules())
		require.NoError(t, err)

		assert.Equal(t, "Required", rs.RequiredMessage())
		assert.Equal(t, []string{
			formvalidator.FieldFirstName,
			formvalidator.FieldLastName,
			formvalidator.FieldEmail,
			formvalidator.FieldPhone,
			formvalidator.FieldMessage,
			"company",
		}, rs.Names())

		v := formvalidator.New(rs)
		assert.True(t, v.Check(formvalidator.FieldPhone, "1234567890").Valid)
		assert.Equal(t, "Please enter a 10 digit phone number", v.Check(formvalidator.FieldPhone, "98").Message)
		assert.True(t, v.Check(formvalidator.FieldLastName, "Smith-Jones").Valid)
		assert.Equal(t, "Required", v.Check("company", " ").Message)

		assert.False(t, formvalidator.New(nil).Check(formvalidator.FieldPhone, "1234567890").Valid,
			"base rule set must stay untouched")
	})

	t.Run("new field without base", func(t *testing.T) {
		t.Parallel()
		src := "fields:\n  - name: email\n    message: Bad email\n"
		rs, err := formvalidator.LoadRules(strings.NewReader(src), nil)
		require.NoError(t, err)

		rule, ok := rs.Lookup(formvalidator.FieldEmail)
		require.True(t, ok)
		assert.Nil(t, rule.Pattern)
		assert.Equal(t, "Bad email", rule.Message)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		rs, err := formvalidator.LoadRules(strings.NewReader(""), formvalidator.DefaultRules())
		require.NoError(t, err)
		assert.Equal(t, formvalidator.DefaultRules().Names(), rs.Names())
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		src := "fields:\n  - name: phone\n    pattern: '(['\n"
		_, err := formvalidator.LoadRules(strings.NewReader(src), formvalidator.DefaultRules())
		require.ErrorIs(t, err, formvalidator.ErrInvalidRules)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := formvalidator.LoadRules(strings.NewReader("colour: red\n"), nil)
		require.ErrorIs(t, err, formvalidator.ErrInvalidRules)
	})

	t.Run("pattern without message", func(t *testing.T) {
		t.Parallel()
		src := "fields:\n  - name: zip\n    pattern: '^\\d{6}$'\n"
		_, err := formvalidator.LoadRules(strings.NewReader(src), nil)
		require.ErrorIs(t, err, formvalidator.ErrInvalidRules)
	})
}

func TestLoadRulesFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := formvalidator.LoadRulesFile(t.TempDir()+"/missing.yaml", nil)
	require.Error(t, err)
}
