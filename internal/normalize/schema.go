package normalize

import (
	"fmt"
	"strings"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
)

// Schema identifies the column layout of a NAV history page.
type Schema int

const (
	// SchemaRegular: date, unit NAV, accumulated NAV, daily growth,
	// subscription status, redemption status, dividend (optional).
	SchemaRegular Schema = iota + 1
	// SchemaMoneyMarket: date, yield per 10k units, 7-day annualized yield,
	// subscription status, redemption status, dividend (optional).
	SchemaMoneyMarket
)

func (s Schema) String() string {
	switch s {
	case SchemaRegular:
		return "regular"
	case SchemaMoneyMarket:
		return "money_market"
	default:
		return "unknown"
	}
}

// Columns returns the full column count and the reduced count used when the
// trailing dividend column is absent.
func (s Schema) Columns() (full, reduced int) {
	if s == SchemaMoneyMarket {
		return 6, 5
	}
	return 7, 6
}

// headerMarkers are labels only found in one of the two layouts.
var headerMarkers = map[Schema][]string{
	SchemaRegular:     {"单位净值", "累计净值"},
	SchemaMoneyMarket: {"每万份收益", "7日年化"},
}

// SchemaFor resolves the schema from the fund category.
func SchemaFor(identity model.FundIdentity) (Schema, error) {
	if !identity.Resolved() {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrUnresolvedCategory, identity.Code)
	}
	if identity.IsMoneyMarket {
		return SchemaMoneyMarket, nil
	}
	return SchemaRegular, nil
}

// Validate checks the page against the schema: the column count must be one
// of the schema's widths and the header must not carry the other layout's
// labels.
func Validate(schema Schema, page eastmoney.RawPage) error {
	full, reduced := schema.Columns()
	cols := page.ColumnCount()
	if cols != full && cols != reduced {
		return fmt.Errorf("%w: %s schema expects %d or %d columns, page has %d",
			apperrors.ErrSchemaMismatch, schema, full, reduced, cols)
	}

	other := SchemaRegular
	if schema == SchemaRegular {
		other = SchemaMoneyMarket
	}
	header := strings.Join(page.Headers, "|")
	for _, marker := range headerMarkers[other] {
		if strings.Contains(header, marker) {
			return fmt.Errorf("%w: %s schema but header has %q",
				apperrors.ErrSchemaMismatch, schema, marker)
		}
	}
	return nil
}
