package testutil

import (
	"fmt"
	"strings"
)

// RegularHeaders is the header row of a regular fund's NAV table.
var RegularHeaders = []string{"净值日期", "单位净值", "累计净值", "日增长率", "申购状态", "赎回状态", "分红送配"}

// MoneyMarketHeaders is the header row of a money-market fund's NAV table.
var MoneyMarketHeaders = []string{"净值日期", "每万份收益", "7日年化收益率（%）", "申购状态", "赎回状态", "分红送配"}

// NavPageBody renders a F10DataApi response envelope around a NAV table.
//
// Example:
//
//	body := testutil.NavPageBody(testutil.RegularHeaders, [][]string{
//	    {"2024-01-05", "1.1000", "2.1000", "0.50%", "开放申购", "开放赎回", ""},
//	}, 1, 1)
func NavPageBody(headers []string, rows [][]string, records, pages int) string {
	var b strings.Builder
	b.WriteString("<table class='w782 comm lsjz'><thead><tr>")
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	return fmt.Sprintf(`var apidata={ content:"%s",records:%d,pages:%d,curpage:1};`, b.String(), records, pages)
}

// NoDataBody renders the envelope the source returns past the last page.
func NoDataBody() string {
	return `var apidata={ content:"<table class='w782 comm lsjz'><thead><tr><th class='first'>净值日期</th><th>单位净值</th></tr></thead><tbody><tr><td colspan='7' align='center'>暂无数据!</td></tr></tbody></table>",records:0,pages:0,curpage:1};`
}

// OverviewHTML renders a fund overview page whose info table holds the given
// label/value pairs in order.
func OverviewHTML(pairs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class='txt_cont'><table class='info w790'>")
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>", pairs[i], pairs[i+1])
	}
	b.WriteString("</table></div></body></html>")
	return b.String()
}

// SearchJSON renders a fund search API response with a single match.
func SearchJSON(code, name, fundType, company, manager string) string {
	return fmt.Sprintf(`{"ErrCode":0,"ErrMsg":null,"Datas":[{"CODE":"%s","NAME":"%s","FundBaseInfo":{"FCODE":"%s","SHORTNAME":"%s","FTYPE":"%s","JJGS":"%s","JJJL":"%s","FSRQ":"2024-01-05","MINSG":10,"SGZT":"开放申购","ISBUY":"1"},"ZTJJInfo":[{"TTYPE":"BK0001","TTYPENAME":"新能源"}]}]}`,
		code, name, code, name, fundType, company, manager)
}
