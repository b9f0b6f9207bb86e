package titles

import (
	"testing"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	r := Default()

	t.Run("salesforce override", func(t *testing.T) {
		title, ok := r.Resolve(model.FormW2, "Form W-2 Wage and Tax Statement\nSALESFORCE, INC.\n415 Mission St")
		require.True(t, ok)
		assert.Equal(t, "SALESFORCE, INC", title)
	})

	t.Run("noise suffix stripped", func(t *testing.T) {
		title, ok := r.Resolve(model.Form1099INT, "FIFTH THIRD BANK\nForm 1099-INT Interest Income")
		require.True(t, ok)
		assert.Equal(t, "FIFTH THIRD BANK", title)
	})

	t.Run("no resolver", func(t *testing.T) {
		_, ok := r.Resolve(model.FormPropertyTax, "Real estate tax bill")
		assert.False(t, ok)
	})

	t.Run("empty result", func(t *testing.T) {
		_, ok := r.Resolve(model.Form1099R, "nothing to see here")
		assert.False(t, ok)
	})

	t.Run("custom resolver", func(t *testing.T) {
		custom := NewRegistry()
		assert.False(t, custom.Has(model.FormPropertyTax))
		custom.Register(model.FormPropertyTax, ResolverFunc(func(string) (string, bool) {
			return "  County Treasurer, N.A  ", true
		}))
		assert.True(t, custom.Has(model.FormPropertyTax))
		title, ok := custom.Resolve(model.FormPropertyTax, "")
		require.True(t, ok)
		assert.Equal(t, "County Treasurer", title)
	})
}

func TestVote(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		expected   string
		ok         bool
	}{
		{"majority", []string{"Acme", "Beta", "Beta"}, "Beta", true},
		{"tie keeps first", []string{"Acme", "Beta"}, "Acme", true},
		{"single", []string{"Acme"}, "Acme", true},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Vote(tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEmployer(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{
			name:     "fca variant",
			text:     "fcaus llc\nWages",
			expected: "FCA US LLC",
			ok:       true,
		},
		{
			name:     "repeated employer line",
			text:     "c Employer's name, address, and ZIP code\nACME WIDGETS INC ACME WIDGETS INC\n123 Main St",
			expected: "ACME WIDGETS INC",
			ok:       true,
		},
		{
			name: "no employer",
			text: "Wages, tips, other compensation",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Employer(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCollapseRepeats(t *testing.T) {
	assert.Equal(t, []string{"ACME", "CO"}, collapseRepeats([]string{"ACME", "CO", "acme", "co"}))
	assert.Equal(t, []string{"ACME", "CO", "LLC"}, collapseRepeats([]string{"ACME", "ACME", "CO", "LLC"}))
	assert.Equal(t, []string{"ONE"}, collapseRepeats([]string{"ONE"}))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("acme", "acme"), 0.0001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 0.0001)
	assert.InDelta(t, 0.5, similarity("abcd", "abxy"), 0.0001)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Loandepot.Com Llc", titleCase("LOANDEPOT.COM LLC"))
	assert.Equal(t, "Department Of Labor", titleCase("DEPARTMENT OF LABOR"))
}

func TestLender(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{"rocket override", "Form 1098 Mortgage Interest Statement\nRocket Mortgage\nDetroit MI", "Rocket Mortgage LLC", true},
		{"phh override", "PHH Mortgage Corporation\nPO Box 5452", "Phh Mortgage Corporation", true},
		{"global fallback", "Payment info\nSummit Lending Bank\n", "Summit Lending Bank", true},
		{"nothing", "Statement for tax year\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lender(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFinalizeLender(t *testing.T) {
	got, ok := finalizeLender("Summit Mortgage Company Borrower info")
	require.True(t, ok)
	assert.Equal(t, "Summit Mortgage Company", got)

	got, ok = finalizeLender("Greenway Mortgage")
	require.True(t, ok)
	assert.Equal(t, "Greenway", got)
}

func TestInstitution(t *testing.T) {
	got, ok := Institution("Filer's name\nUniversity of Example 2024 Form 1098-T\n")
	require.True(t, ok)
	assert.Equal(t, "University of Example", got)

	got, ok = Institution("Main Campus - University of Stuff\n")
	require.True(t, ok)
	assert.Equal(t, "University of Stuff", got)

	_, ok = Institution("Property tax bill")
	assert.False(t, ok)
}

func TestSavingsPlan(t *testing.T) {
	got, ok := SavingsPlan("Your 529 college savings plan")
	require.True(t, ok)
	assert.Equal(t, "529 Plan", got)

	_, ok = SavingsPlan("Plan 5290")
	assert.False(t, ok)
}

func TestChildCareProvider(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"kiddie care", "Paid to MyKiddieCare\nTax ID 12-3456789", "Kiddie Care"},
		{"named preschool", "Little Oak Preschool\nFederal Tax ID 12-3456789", "Little Oak Preschool"},
		{"default", "receipt for services rendered", DefaultChildCareTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChildCareProvider(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHasTaxID(t *testing.T) {
	assert.True(t, HasTaxID("Federal Tax ID: 12-3456789"))
	assert.True(t, HasTaxID("FEIN 12-3456789"))
	assert.False(t, HasTaxID("Thanks for the payment"))
}

func TestCoverage(t *testing.T) {
	got, _ := Coverage("Form 1095-C Employer-Provided Health Insurance Offer and Coverage")
	assert.Equal(t, "1095-C – Employer-Provided Coverage", got)

	got, ok := Coverage("Part II")
	assert.True(t, ok)
	assert.Equal(t, "Form 1095-C", got)
}

func TestGovernmentAgency(t *testing.T) {
	got, ok := GovernmentAgency("DEPARTMENT OF LABOR\nForm 1099-G Certain Government Payments")
	require.True(t, ok)
	assert.Equal(t, "Department Of Labor - Form 1099-G", got)

	_, ok = GovernmentAgency("no form here")
	assert.False(t, ok)
}

func TestHSATrustee(t *testing.T) {
	got, ok := HSATrustee("Trustee's name\nOptum Bank\nDo not cut")
	require.True(t, ok)
	assert.Equal(t, "Optum Bank", got)
}

func TestIssuer(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{"morgan stanley", "Morgan Stanley Capital Management, LLC\nAccount Number 1234", "Morgan Stanley Capital Management, LLC", true},
		{"robinhood", "Robinhood Markets Inc\n85 Willow Rd", "Robinhood Markets Inc", true},
		{"heuristic", "Consolidated 1099 Tax Statement\nAcme Securities LLC\n", "Acme Securities LLC", true},
		{"no header", "Acme Securities LLC\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Issuer(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAlias(t *testing.T) {
	assert.Equal(t, "E*TRADE", Alias("Morgan Stanley Capital Management, LLC"))
	assert.Equal(t, "Robinhood Markets Inc", Alias("Robinhood Markets Inc"))
}

func TestK1(t *testing.T) {
	ein, ok := EIN("Partnership's EIN: 12-3456789")
	require.True(t, ok)
	assert.Equal(t, "12-3456789", ein)

	ein, ok = EIN("Identification 98-7654321")
	require.True(t, ok)
	assert.Equal(t, "98-7654321", ein)

	_, ok = EIN("no identifier")
	assert.False(t, ok)

	assert.Equal(t, "Acme Partners LLC", EntityName("Name: Acme Partners LLC"))
	assert.Equal(t, UnknownEntity, EntityName("12345"))

	assert.Equal(t, "Form 1065 – (EIN 12-3456789)", PartnershipTitle("12-3456789"))
	assert.Equal(t, "Form 1065 – (EIN Unknown-EIN)", PartnershipTitle(""))
}
