package classify

import (
	"regexp"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// Rule is one entry of the classification decision list
type Rule struct {
	Name   string
	Match  func(t *Text) bool
	Result model.Result
}

var (
	income   = func(f model.FormType) model.Result { return model.Result{Category: model.CategoryIncome, FormType: f} }
	expenses = func(f model.FormType) model.Result { return model.Result{Category: model.CategoryExpenses, FormType: f} }
	others   = func(f model.FormType) model.Result { return model.Result{Category: model.CategoryOthers, FormType: f} }
)

var k1Header = regexp.MustCompile(`(?i)schedule\s*k[-–]?\s*1.*form\s*1065`)

var (
	k1Phrases = []string{
		"additional information from schedule k-1",
		"qbi or qualified ptp items subject to partner",
	}
	propertyTaxPhrases = []string{
		"total allowable community college",
		"school district property tax paid",
		"district property tax paid",
		"parcel id property property",
		"axing unit taxrate previous tax",
		"homestead exempt",
		"real property tax proper iy location",
		"property assessment",
	}
	coveragePhrases = []string{
		"form 1095-c",
		"employer-provided health insurance offer and coverage",
		"employee offer of coverage",
		"covered individuals",
		"employer-provided health insurance offer",
		"do not attach to your tax return",
	}
	instructionOnlyPhrases = []string{
		"fees and interest earnings are not considered contributions",
		"contact a competent tax advisor or the irs",
		"retirement plans for small business",
		"civil service retirement benefits",
		"general rule for pensions and annuities",
		"hsas and other tax-favored health plan",
	}
	retirementPhrases = []string{
		"taxable amount iras",
		"contrib or insurance premiums",
		"6 net unrealized appreciation",
		"13 date of 17 local tax withheld 18 name",
		"total employee contributions the irs",
		"2b taxable amount total copy b",
	}
	governmentPhrases = []string{
		"1099 g",
		"1099-g",
	}
	childCarePhrases = []string{
		"child care",
		"day care",
		"to the parents",
		"provider information",
		"total payments paid by",
		"late payment fee late payment fee",
		"assistant business administrator",
		"preschool tuition payments",
		"the student named above has",
		"ach - returned - online payment",
		"registration fee new enrollmeny",
	}
	issuerNoticePhrases = []string{
		"fundrise strives to provide your",
		"#although the fundrise team seeks to",
		"fundrise receives updated information for",
		"fees and interest earnings",
		"if you have questions regarding",
		"contact a competent tax advisor or the irs",
		"contributions or distributions and are not",
		"may result in an increase in tax",
		"reimbursements or refunds for the calendar",
		"rippling",
		"if this form includes amounts belonging to",
		"a spouse is not required to file a",
		"such a legislation enacted after",
		"continued on the back of copy",
	}
	savingsPlanPhrases = []string{
		"indiana 529",
		"529 direct savings plan",
		"education savings authority",
		"college savings",
		"qualified tuition program",
		"investment allocations",
		"investment portfolio",
		"funding information",
		"recurring contribution",
		"bank information",
		"electronic bank transfer",
		"indiana education savings",
		"contribution ebt",
		"please see below for details pertaining to",
	}
	ocrTagMarkers = []string{"#bwnjgwm", "#rippling"}
)

var hsaDistributionFront = compileAll(
	`earnings\s+on\s+excess\s+cont`,
	`fmv\s+on\s+date\s+of\s+death`,
)

var hsaContributionFront = compileAll(
	`form\s+[s§5]\s*498-?\s*sa`,
	`form\s+5498sa`,
	`total\s+contributions\s+made\s+in\s+\d{4}`,
	`fair\s+market\s+value\s+of\s+(account|hsa)`,
	`\b2[\.\-)]?\s*rollover\s+contributions`,
	`\b5[\.\-)]?\s*fair\s+market\s+value\s+of\s+(account|hsa)`,
	`\b7[\.\-)]?\s*ira\s+type`,
	`\b11[\.\-)]?\s*required\s+minimum\s+distribution.*\d{4}`,
)

// box-by-box instruction text printed on the back of W-2, 1099-INT and 1098-T copies
var boxInstructionPhrases = []string{
	"box 1. enter this amount on the wages line of your tax return",
	"box 2. enter this amount on the federal income tax withheld line",
	"box 5. you may be required to report this amount on form 8959",
	"box 6. this amount includes the 1.45% medicare tax withheld",
	"box 8. this amount is not included in box 1, 3, 5, or 7",
	"you must file form 4137",
	"box 10. this amount includes the total dependent care benefits",
	"instructions for form 8949",
	"regulations section 1.6045-1",
	"recipient's taxpayer identification number",
	"fata filing requirement",
	"payer’s routing transit number",
	"refer to the form 1040 instructions",
	"earned income credit",
	"corrected wage and tax statement",
	"credit for excess taxes",
	"instructions for employee  (continued from back of copy c) box 12 (continued)",
	"f—elective deferrals under a section 408(k)(6) salary reduction sep",
	"g—elective deferrals and employer contributions (including  nonelective ",
	"deferrals) to a section 457(b) deferred compensation plan",
	"h—elective deferrals to a section 501(c)(18)(d) tax-exempt  organization ",
	"plan. see the form 1040 instructions for how to deduct.",
	"j—nontaxable sick pay (information only, not included in box 1, 3, or 5)",
	"k—20% excise tax on excess golden parachute payments. see the ",
	"form 1040 instructions.",
	"l—substantiated employee business expense reimbursements ",
	"(nontaxable)",
	"m—uncollected social security or rrta tax on taxable cost  of group-",
	"term life insurance over $50,000 (former employees only). see the form ",
	"1040 instructions.",
	"n—uncollected medicare tax on taxable cost of group-term  life ",
	"insurance over $50,000 (former employees only). see the form 1040 ",
	"instructions.",
	"p—excludable moving expense reimbursements paid directly to a ",
	"member of the u.s. armed forces (not included in box 1, 3, or 5)",
	"q—nontaxable combat pay. see the form 1040 instructions for details ",
	"on reporting this amount.",
	"box 1. shows taxable interest",
	"box 2. shows interest or principal forfeited",
	"box 3. shows interest on u.s. savings bonds",
	"box 4. shows backup withholding",
	"box 5. any amount shown is your share",
	"box 6. shows foreign tax paid",
	"box 7. shows the country or u.s. territory",
	"box 8. shows tax-exempt interest",
	"box 9. shows tax-exempt interest subject",
	"box 10. for a taxable or tax-exempt covered security",
	"box 11. for a taxable covered security",
	"box 12. for a u.s. treasury obligation",
	"box 13. for a tax-exempt covered security",
	"box 14. shows cusip number",
	"boxes 15-17. state tax withheld",
	"you, or the person who can claim you as a dependent, may be able to claim an education credit",
	"student’s taxpayer identification number (tin)",
	"box 1. shows the total payments received by an eligible educational institution",
	"box 2. reserved for future use",
	"box 3. reserved for future use",
	"box 4. shows any adjustment made by an eligible educational institution",
	"box 5. shows the total of all scholarships or grants",
	"tip: you may be able to increase the combined value of an education credit",
	"box 6. shows adjustments to scholarships or grants for a prior year",
	"box 7. shows whether the amount in box 1 includes amounts",
	"box 8. shows whether you are considered to be carrying at least one-half",
	"box 9. shows whether you are considered to be enrolled in a program leading",
	"box 10. shows the total amount of reimbursements or refunds",
	"future developments. for the latest information about developments related to form 1098-t",
}

var (
	dividendFront = []string{
		"form 1099-div",
		"dividends and distributions",
		"1a total ordinary dividends",
		"1b qualified dividends distributions",
		"2a total capital gain distr",
		"specified private activity bond interest dividends",
		"qualified dividends",
		"total capital gain distr",
		"section 1202 gain",
		"section 1250 gain",
	}
	dividendNotices = []string{
		"the information contained herein",
		"please note that we have changed",
		"your redeemed shares has not been",
		"we are requested by trh irs",
	}
	miscFront = []string{
		"form 1099-misc",
		"miscellaneous information",
		"1.rents",
		"2.royalties",
		"3.other income",
		"8.substitute payments in lieu of dividends or interest",
	}
	oidFront = []string{
		"form 1099-oid",
		"original issue discount",
		"2.other periodic interest",
		"5.market discount",
		"6.acquisition premium",
		"8.oid on u.s. treasury obligations",
		"10.bond premium",
		"11.tax-exempt oid",
	}
	brokerFront = []string{
		"form 1099-b",
		"proceeds from broker and barter exchange transactions",
		"1d.proceeds",
		"covered securities",
		"1e.cost or other basis of covered securities",
		"1f.accrued market discount",
		"1g.wash sale loss disallowed",
	}
	coverLetterPhrases = []string{
		"1099 consolidated tax statement for 2023 provides your official tax information",
		"income information that was reported on your december account statement will not have included certain adjustments",
		"you may receive a separate 1099 consolidated tax statement",
		"consider and review both consolidated tax statements when preparing your",
		"for more information on what to expect, visit etrade.com/taxyear",
		"the following tax documents are not included in this statement and are sent individually",
		"forms 1099-q, 1042-s, 2439, 5498, 5498-esa, remic information statement",
	}
	interestFront = []string{
		"3 interest on u.s. savings bonds and treasury obligations",
		"tax-exempt interest",
		"ond premium on treasury obligations",
		"withdrawal penalty",
	}
	interestNotices = []string{
		"box 1. shows taxable interest paid to you",
		"box 2. shows interest or principal forfeited",
		"box 3. shows interest on u.s. savings bonds",
		"box 8. shows tax-exempt interest paid to",
		"box 10. for a taxable or tax-exempt covered security",
		"if you are registered in the account",
		"subject to reporting when paid regardless",
		"if we are required to withhold tax",
	}
	mortgageFront = []string{
		"mortgage insurance premiums",
		"mortgage origination date",
		"number of properties securing the morgage",
		"address or description of property securing",
		"form 1098 mortgage",
		"limits based on the loan amount",
		"refund of overpaid",
		"mortgage insurance important tax information",
		"1 mortgage interest received from",
	}
	mortgageNotices = []string{
		"instructions for payer/borrower",
		"payer’s/borrower’s taxpayer identification number",
		"box 1. shows the mortgage interest received",
		"box 3. shows the date of the mortgage origination",
		"box 5. if an amount is reported in this box",
		"box 8. shows the address or description",
		"this information is being provided to you as",
		"we’re providing the mortgage insurance",
		"if you received this statement as the payer of",
		"if your mortgage payments were subsidized",
	}
)

func lowerHas(phrases []string) func(*Text) bool {
	return func(t *Text) bool { return containsAny(t.Lower, phrases) }
}

func collapsedHas(phrases ...string) func(*Text) bool {
	return func(t *Text) bool { return containsAny(t.Collapsed, phrases) }
}

// gated accepts a front phrase only when the form's amounts confirm it
func gated(form model.FormType, front []string) func(*Text) bool {
	return func(t *Text) bool {
		return containsAny(t.Lower, front) && Confirmed(form, t.Raw)
	}
}

// defaultRules returns the decision list. Order matters: the first match wins.
func defaultRules() []Rule {
	unused := others(model.FormUnused)

	return []Rule{
		{
			Name: "k1",
			Match: func(t *Text) bool {
				if k1Header.MatchString(t.Collapsed) {
					return true
				}
				if strings.Contains(t.Collapsed, "statement a") && strings.Contains(t.Collapsed, "qbi") {
					return true
				}
				return containsAny(t.Collapsed, k1Phrases)
			},
			Result: income(model.FormK1),
		},
		{Name: "property_tax", Match: collapsedHas(propertyTaxPhrases...), Result: expenses(model.FormPropertyTax)},
		{Name: "coverage_1095c", Match: lowerHas(coveragePhrases), Result: others(model.Form1095C)},
		{Name: "instruction_only", Match: collapsedHas(instructionOnlyPhrases...), Result: unused},
		{Name: "retirement_1099r", Match: lowerHas(retirementPhrases), Result: income(model.Form1099R)},
		{Name: "government_1099g", Match: lowerHas(governmentPhrases), Result: income(model.Form1099G)},
		{Name: "child_care", Match: lowerHas(childCarePhrases), Result: expenses(model.FormChildCare)},
		{Name: "issuer_notice", Match: lowerHas(issuerNoticePhrases), Result: unused},
		{
			Name: "savings_529",
			Match: func(t *Text) bool {
				return strings.Contains(t.Alnum, "529") && containsAny(t.Alnum, savingsPlanPhrases)
			},
			Result: expenses(model.Form529Plan),
		},
		{Name: "ocr_tag", Match: func(t *Text) bool { return containsAny(t.Compact, ocrTagMarkers) }, Result: unused},
		{Name: "hsa_1099sa", Match: func(t *Text) bool { return matchesAny(t.Lower, hsaDistributionFront) }, Result: income(model.Form1099SA)},
		{
			Name: "wage_w2",
			Match: func(t *Text) bool {
				return strings.Contains(t.Lower, "wages, tips, other compensation") ||
					(strings.Contains(t.Lower, "employer's name") && strings.Contains(t.Lower, "address"))
			},
			Result: income(model.FormW2),
		},
		{Name: "hsa_5498sa", Match: func(t *Text) bool { return matchesAny(t.Lower, hsaContributionFront) }, Result: expenses(model.Form5498SA)},
		{Name: "boilerplate", Match: (*Text).boilerplate, Result: unused},
		{Name: "tuition_1098t", Match: collapsedHas("1098-t"), Result: expenses(model.Form1098T)},
		{Name: "box_instructions", Match: lowerHas(boxInstructionPhrases), Result: unused},
		{Name: "dividend_1099div", Match: gated(model.Form1099DIV, dividendFront), Result: income(model.Form1099DIV)},
		{
			Name: "dividend_unconfirmed",
			Match: func(t *Text) bool {
				return containsAny(t.Lower, dividendFront) || containsAny(t.Lower, dividendNotices)
			},
			Result: unused,
		},
		{Name: "misc_1099misc", Match: gated(model.Form1099MISC, miscFront), Result: income(model.Form1099MISC)},
		{Name: "misc_unconfirmed", Match: lowerHas(miscFront), Result: unused},
		{Name: "oid_1099oid", Match: gated(model.Form1099OID, oidFront), Result: income(model.Form1099OID)},
		{Name: "oid_unconfirmed", Match: lowerHas(oidFront), Result: unused},
		{Name: "broker_1099b", Match: gated(model.Form1099B, brokerFront), Result: income(model.Form1099B)},
		{Name: "broker_unconfirmed", Match: lowerHas(brokerFront), Result: unused},
		{Name: "cover_letter", Match: lowerHas(coverLetterPhrases), Result: unused},
		{Name: "interest_1099int", Match: lowerHas(interestFront), Result: income(model.Form1099INT)},
		{Name: "interest_notice", Match: lowerHas(interestNotices), Result: unused},
		{Name: "mortgage_1098", Match: lowerHas(mortgageFront), Result: expenses(model.Form1098Mortgage)},
		{Name: "mortgage_notice", Match: lowerHas(mortgageNotices), Result: unused},
		{Name: "fallback_w2", Match: collapsedHas("w-2", "w2"), Result: income(model.FormW2)},
		{Name: "fallback_1099int", Match: collapsedHas("1099-int", "interest income"), Result: income(model.Form1099INT)},
		{Name: "fallback_donation", Match: collapsedHas("donation"), Result: expenses(model.FormDonation)},
	}
}
