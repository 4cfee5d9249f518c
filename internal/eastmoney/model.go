package eastmoney

import (
	"bytes"
	"encoding/json"
	"time"
)

// DefaultPageSize is the number of NAV rows requested per page.
const DefaultPageSize = 20

// PageQuery selects one page of NAV history. Pages are numbered from 1 and
// ordered newest first. Nil bounds leave the range open.
type PageQuery struct {
	Page     int
	PageSize int
	Start    *time.Time
	End      *time.Time
}

// RawPage is one page of the NAV history table as text cells, before any
// typing. Pages and Records are the totals reported by the source envelope,
// zero when absent.
type RawPage struct {
	Page    int
	Pages   int
	Records int
	Headers []string
	Rows    [][]string
}

// ColumnCount returns the width of the page, taken from the header row when
// present and from the widest data row otherwise.
func (p RawPage) ColumnCount() int {
	if len(p.Headers) > 0 {
		return len(p.Headers)
	}
	width := 0
	for _, row := range p.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// searchResponse maps the fund search API:
//
//	{"ErrCode":0,"Datas":[{"CODE":"000001","NAME":"...","FundBaseInfo":{...},"ZTJJInfo":[...]}]}
type searchResponse struct {
	ErrCode int          `json:"ErrCode"`
	ErrMsg  *string      `json:"ErrMsg"`
	Datas   []searchItem `json:"Datas"`
}

type searchItem struct {
	Code         flexString    `json:"CODE"`
	Name         flexString    `json:"NAME"`
	FundBaseInfo *fundBaseInfo `json:"FundBaseInfo"`
	Themes       []searchTheme `json:"ZTJJInfo"`
}

type fundBaseInfo struct {
	Code            flexString `json:"FCODE"`
	ShortName       flexString `json:"SHORTNAME"`
	FundType        flexString `json:"FTYPE"`
	Company         flexString `json:"JJGS"`
	Manager         flexString `json:"JJJL"`
	NavDate         flexString `json:"FSRQ"`
	MinSubscription flexString `json:"MINSG"`
	SubscribeStatus flexString `json:"SGZT"`
	IsBuy           flexString `json:"ISBUY"`
}

type searchTheme struct {
	Type flexString `json:"TTYPE"`
	Name flexString `json:"TTYPENAME"`
}

// flexString accepts JSON strings, numbers and null. The search API is not
// consistent about quoting numeric fields.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}
