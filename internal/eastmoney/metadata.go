package eastmoney

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ndewijer/fundnav/internal/model"
)

// parseOverview reads the th/td pairs of the overview page's info table into
// identity. Fields absent from the page are left untouched.
func parseOverview(body []byte, identity *model.FundIdentity) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	table := doc.Find("table.info").First()
	if table.Length() == 0 {
		return fmt.Errorf("%w: info table not found", ErrMalformedPage)
	}

	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		label := cellText(th)
		value := cellText(th.Next())
		if model.IsUnresolved(value) {
			return
		}
		switch {
		case strings.HasPrefix(label, "基金简称"):
			identity.Name = value
		case strings.HasPrefix(label, "基金全称"):
			identity.Alias = value
		case strings.HasPrefix(label, "基金类型"):
			identity.SetCategoryText(value)
		case strings.HasPrefix(label, "基金管理人"):
			identity.Company = value
		case strings.HasPrefix(label, "基金经理"):
			identity.Manager = value
		case strings.HasPrefix(label, "申购状态"):
			identity.SubscriptionStatus = model.SubscriptionStatusFromText(value)
		case strings.HasPrefix(label, "最低申购"):
			identity.MinSubscription = value
		case strings.HasPrefix(label, "净值日期"):
			identity.LastUpdate = value
		}
	})

	return nil
}

// mergeSearch fills the fields identity still lacks from a search API
// response. Fields already resolved are kept.
func mergeSearch(body []byte, code string, identity *model.FundIdentity) error {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	if resp.ErrCode != 0 {
		return fmt.Errorf("search api error code %d", resp.ErrCode)
	}

	var item *searchItem
	for i := range resp.Datas {
		if resp.Datas[i].Code.String() == code {
			item = &resp.Datas[i]
			break
		}
	}
	if item == nil || item.FundBaseInfo == nil {
		return fmt.Errorf("fund %s not found in search results", code)
	}
	info := item.FundBaseInfo

	fill := func(dst *string, src flexString) {
		if model.IsUnresolved(*dst) && !model.IsUnresolved(src.String()) {
			*dst = strings.TrimSpace(src.String())
		}
	}

	if !identity.Resolved() && !model.IsUnresolved(info.FundType.String()) {
		identity.SetCategoryText(strings.TrimSpace(info.FundType.String()))
	}
	fill(&identity.Name, info.ShortName)
	fill(&identity.Name, item.Name)
	fill(&identity.Company, info.Company)
	fill(&identity.Manager, info.Manager)
	fill(&identity.MinSubscription, info.MinSubscription)
	fill(&identity.LastUpdate, info.NavDate)

	if identity.SubscriptionStatus == model.SubscriptionUnknown {
		switch {
		case !model.IsUnresolved(info.SubscribeStatus.String()):
			identity.SubscriptionStatus = model.SubscriptionStatusFromText(info.SubscribeStatus.String())
		case info.IsBuy == "1" || strings.EqualFold(info.IsBuy.String(), "true"):
			identity.SubscriptionStatus = model.SubscriptionOpen
		case info.IsBuy == "0" || strings.EqualFold(info.IsBuy.String(), "false"):
			identity.SubscriptionStatus = model.SubscriptionSuspended
		}
	}

	if len(identity.Themes) == 0 {
		for _, theme := range item.Themes {
			if name := strings.TrimSpace(theme.Name.String()); name != "" {
				identity.Themes = append(identity.Themes, name)
			}
		}
	}

	return nil
}
