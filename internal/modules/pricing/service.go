package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retreatbooking/internal/domain"
)

type PromoValidation struct {
	IsValid            bool   `json:"isValid"`
	PromoCodeID        int64  `json:"promoCodeId"`
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
	InfluencerID       int64  `json:"influencerId"`
	InfluencerName     string `json:"influencerName"`
}

type Service struct {
	promos PromoCodeRepository
}

func NewService(promos PromoCodeRepository) *Service {
	return &Service{promos: promos}
}

// ValidatePromoCode looks up an active code, ignoring case and surrounding
// whitespace.
func (s *Service) ValidatePromoCode(ctx context.Context, code string) (*PromoValidation, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("promo code is required: %w", domain.ErrValidation)
	}

	promo, err := s.promos.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrPromoCodeNotFound
		}
		return nil, err
	}

	out := &PromoValidation{
		IsValid:            true,
		PromoCodeID:        promo.ID,
		Code:               promo.Code,
		DiscountPercentage: promo.DiscountPercentage,
		InfluencerID:       promo.InfluencerID,
	}
	if promo.Influencer != nil {
		out.InfluencerName = promo.Influencer.Name
	}
	return out, nil
}
