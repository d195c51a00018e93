package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func completeSellerForm() *RegistrationForm {
	return &RegistrationForm{
		SellerRoles:     []string{"chef"},
		FirstName:       "Janneke",
		LastName:        "de Vries",
		Username:        "kok.van.hiernaast",
		Email:           "janneke@example.com",
		Password:        "wachtwoord123",
		TaxAcked:        true,
		PrivacyAccepted: true,
		TermsAccepted:   true,
	}
}

func TestWizard_GuardBlocksAdvance(t *testing.T) {
	w := NewWizard(&RegistrationForm{})
	require.NoError(t, w.Next()) // welcome has no guard
	require.Equal(t, StepRole, w.Current)

	err := w.Next()
	require.ErrorIs(t, err, ErrNoRoleSelected)
	assert.Equal(t, StepRole, w.Current, "failed guard must not advance")

	w.Form.BuyerType = "private"
	require.NoError(t, w.Next())
	assert.Equal(t, StepAccount, w.Current)
}

func TestWizard_AccountGuard(t *testing.T) {
	f := completeSellerForm()
	w := NewWizard(f)
	w.Current = StepAccount

	w.UsernameValid = nil
	require.ErrorIs(t, w.Next(), ErrUsernameNotChecked)

	w.UsernameValid = boolPtr(false)
	require.ErrorIs(t, w.Next(), ErrUsernameTaken)

	w.UsernameValid = boolPtr(true)
	require.NoError(t, w.Next())
	assert.Equal(t, StepProfile, w.Current)
}

func TestWizard_SocialLoginSkipsPassword(t *testing.T) {
	f := completeSellerForm()
	f.Password = ""
	w := NewWizard(f)
	w.UsernameValid = boolPtr(true)

	require.ErrorIs(t, w.GuardFor(StepAccount), ErrPasswordRequired)

	f.SocialLogin = true
	require.NoError(t, w.GuardFor(StepAccount))
}

func TestWizard_PayoutSkippedForBuyers(t *testing.T) {
	f := &RegistrationForm{BuyerType: "private"}
	w := NewWizard(f)
	w.Current = StepProfile

	require.NoError(t, w.Next())
	assert.Equal(t, StepTerms, w.Current, "payout step must be skipped without seller roles")

	w.Prev()
	assert.Equal(t, StepProfile, w.Current)
}

func TestWizard_PayoutRequiredForSellers(t *testing.T) {
	f := completeSellerForm()
	f.TaxAcked = false
	w := NewWizard(f)
	w.Current = StepProfile

	require.NoError(t, w.Next())
	require.Equal(t, StepPayout, w.Current)
	require.ErrorIs(t, w.Next(), ErrTaxNotAcked)

	f.TaxAcked = true
	require.NoError(t, w.Next())
	assert.Equal(t, StepTerms, w.Current)
}

func TestWizard_ValidateAllAggregates(t *testing.T) {
	w := NewWizard(&RegistrationForm{SellerRoles: []string{"chef"}})
	w.UsernameValid = boolPtr(true)

	errs := w.ValidateAll()
	steps := make(map[Step]bool, len(errs))
	for _, se := range errs {
		steps[se.Step] = true
	}
	assert.True(t, steps[StepAccount])
	assert.True(t, steps[StepPayout])
	assert.True(t, steps[StepTerms])
	assert.False(t, steps[StepRole])
}

func TestWizard_ValidateAllCompleteForm(t *testing.T) {
	w := NewWizard(completeSellerForm())
	w.UsernameValid = boolPtr(true)
	assert.Empty(t, w.ValidateAll())
}

func TestWizard_UnknownSellerRole(t *testing.T) {
	w := NewWizard(&RegistrationForm{SellerRoles: []string{"plumber"}})
	err := w.GuardFor(StepRole)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plumber")
}

func TestCheckUsernameFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		ok       bool
		expected string
	}{
		{"too short", "ab", false, "ab"},
		{"uppercase normalized", " Kok.123 ", true, "kok.123"},
		{"bad characters", "kok!@#", false, "kok!@#"},
		{"spaces inside", "de kok", false, "de kok"},
		{"valid with separators", "kok_van-hiernaast.1", true, "kok_van-hiernaast.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, res, ok := CheckUsernameFormat(tt.input)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				require.NotNil(t, res)
				assert.False(t, res.Valid)
				assert.NotEmpty(t, res.Message)
			} else {
				assert.Nil(t, res)
				assert.Equal(t, tt.expected, normalized)
			}
		})
	}
}

func TestCheckEmailFormat(t *testing.T) {
	_, res, ok := CheckEmailFormat("not-an-email")
	require.False(t, ok)
	assert.False(t, res.Valid)

	normalized, res, ok := CheckEmailFormat(" Janneke@Example.COM ")
	require.True(t, ok)
	assert.Nil(t, res)
	assert.Equal(t, "janneke@example.com", normalized)
}
