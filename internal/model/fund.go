package model

import "strings"

// Unresolved is the sentinel carried by informational fields that could not
// be fetched or parsed from the source.
const Unresolved = "unresolved"

// FundCategory is the normalized fund type.
type FundCategory string

const (
	CategoryEquity      FundCategory = "equity"
	CategoryMixed       FundCategory = "mixed"
	CategoryBond        FundCategory = "bond"
	CategoryIndex       FundCategory = "index"
	CategoryMoneyMarket FundCategory = "money_market"
	CategoryGuaranteed  FundCategory = "guaranteed"
	CategoryQDII        FundCategory = "qdii"
	CategoryLOF         FundCategory = "lof"
	CategoryETF         FundCategory = "etf"
	CategoryUnknown     FundCategory = "unknown"
)

// categoryKeywords is checked in order; the first keyword contained in the
// source's category text wins. Wrapper types (QDII, ETF, LOF) come before the
// asset classes they usually also mention.
var categoryKeywords = []struct {
	keyword  string
	category FundCategory
}{
	{"货币", CategoryMoneyMarket},
	{"QDII", CategoryQDII},
	{"ETF", CategoryETF},
	{"LOF", CategoryLOF},
	{"保本", CategoryGuaranteed},
	{"指数", CategoryIndex},
	{"债券", CategoryBond},
	{"混合", CategoryMixed},
	{"股票", CategoryEquity},
}

// CategoryFromText maps the source's free-form category text (e.g. "混合型-偏股")
// onto a FundCategory. Unmapped or composite types yield CategoryUnknown.
func CategoryFromText(text string) FundCategory {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" || text == strings.ToUpper(Unresolved) {
		return CategoryUnknown
	}
	for _, kw := range categoryKeywords {
		if strings.Contains(text, kw.keyword) {
			return kw.category
		}
	}
	return CategoryUnknown
}

// IsMoneyMarketText reports whether the category text designates a
// money-market fund.
func IsMoneyMarketText(text string) bool {
	return strings.Contains(text, "货币")
}

// SubscriptionStatus is the tri-state purchase status of a fund.
type SubscriptionStatus string

const (
	SubscriptionOpen      SubscriptionStatus = "open"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionUnknown   SubscriptionStatus = "unknown"
)

// SubscriptionStatusFromText maps texts such as "开放申购", "限大额" or "暂停申购".
func SubscriptionStatusFromText(text string) SubscriptionStatus {
	text = strings.TrimSpace(text)
	switch {
	case text == "" || text == Unresolved:
		return SubscriptionUnknown
	case strings.Contains(text, "暂停"), strings.Contains(text, "封闭"):
		return SubscriptionSuspended
	case strings.Contains(text, "开放"), strings.Contains(text, "限"):
		return SubscriptionOpen
	default:
		return SubscriptionUnknown
	}
}

// FundIdentity describes a fund as reported by the source.
type FundIdentity struct {
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	Company            string             `json:"company"`
	Manager            string             `json:"manager"`
	Category           FundCategory       `json:"category"`
	CategoryText       string             `json:"categoryText"`
	IsMoneyMarket      bool               `json:"isMoneyMarket"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	MinSubscription    string             `json:"minSubscription"`
	Alias              string             `json:"alias"`
	LastUpdate         string             `json:"lastUpdate"`
	Themes             []string           `json:"themes"`
}

// NewUnresolvedIdentity returns an identity for code with every informational
// field set to the Unresolved sentinel.
func NewUnresolvedIdentity(code string) FundIdentity {
	return FundIdentity{
		Code:               code,
		Name:               Unresolved,
		Company:            Unresolved,
		Manager:            Unresolved,
		Category:           CategoryUnknown,
		CategoryText:       Unresolved,
		SubscriptionStatus: SubscriptionUnknown,
		MinSubscription:    Unresolved,
		Alias:              Unresolved,
		LastUpdate:         Unresolved,
		Themes:             []string{},
	}
}

// Resolved reports whether the category lookup succeeded. The category
// drives the column schema of NAV pages, so series fetches require it.
func (f FundIdentity) Resolved() bool {
	return f.CategoryText != "" && f.CategoryText != Unresolved
}

// SetCategoryText stores the raw category text and derives Category and
// IsMoneyMarket from it.
func (f *FundIdentity) SetCategoryText(text string) {
	f.CategoryText = text
	f.Category = CategoryFromText(text)
	f.IsMoneyMarket = IsMoneyMarketText(text)
}

// IsUnresolved reports whether a field value is empty or the sentinel.
func IsUnresolved(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == Unresolved || v == "--"
}
