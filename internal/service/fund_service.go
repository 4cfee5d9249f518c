package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/validation"
)

// FundService resolves fund identities.
type FundService struct {
	source eastmoney.Source
	log    zerolog.Logger
}

// NewFundService creates a new FundService backed by source.
func NewFundService(source eastmoney.Source, log zerolog.Logger) *FundService {
	return &FundService{
		source: source,
		log:    log.With().Str("component", "fund_service").Logger(),
	}
}

// GetFundInfo returns the identity of the fund with the given code.
// It never fails: fields the source cannot resolve carry model.Unresolved.
func (s *FundService) GetFundInfo(ctx context.Context, code string) model.FundIdentity {
	normalized, err := validation.NormalizeFundCode(code)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Rejected fund code")
		return model.NewUnresolvedIdentity(code)
	}

	identity := s.source.FetchMetadata(ctx, normalized)
	if !identity.Resolved() {
		s.log.Warn().Str("code", normalized).Msg("Fund category unresolved")
	}
	return identity
}
