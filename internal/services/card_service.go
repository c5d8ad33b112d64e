package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"dompet/internal/cardvault"
	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/uuid"
)

var (
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// cardService handles saved payment-card metadata. Card numbers and CVVs
// are sealed before they are written.
type cardService struct {
	db     *gorm.DB
	sealer *cardvault.Sealer
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB, sealer *cardvault.Sealer) CardServicer {
	return &cardService{db: db, sealer: sealer}
}

// normalizeCardNumber strips spaces and dashes and checks the remaining
// digits.
func normalizeCardNumber(number string) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if len(digits) < 12 || len(digits) > 19 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "card number must have 12 to 19 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "card number must contain digits only")
		}
	}
	return digits, nil
}

func validNetwork(n models.CardNetwork) bool {
	switch n {
	case models.CardNetworkVisa, models.CardNetworkMastercard, models.CardNetworkJCB,
		models.CardNetworkAmex, models.CardNetworkGPN, models.CardNetworkOther:
		return true
	}
	return false
}

// CreateCard stores a new saved card.
func (s *cardService) CreateCard(userID string, in CardInput) (*models.SavedCard, error) {
	if strings.TrimSpace(in.Alias) == "" || strings.TrimSpace(in.HolderName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alias and holder name are required")
	}
	number, err := normalizeCardNumber(in.CardNumber)
	if err != nil {
		return nil, err
	}
	if !cardExpiryPattern.MatchString(in.Expiry) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expiry must be MM/YY")
	}
	if in.CVV != "" && !cvvPattern.MatchString(in.CVV) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "CVV must be 3 or 4 digits")
	}
	if in.Network == "" {
		in.Network = models.CardNetworkOther
	}
	if !validNetwork(in.Network) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported card network")
	}

	card := &models.SavedCard{
		UserID:     userID,
		Alias:      strings.TrimSpace(in.Alias),
		HolderName: strings.TrimSpace(in.HolderName),
		Last4:      number[len(number)-4:],
		Expiry:     in.Expiry,
		Network:    in.Network,
		Color:      in.Color,
		BankName:   in.BankName,
	}
	if card.CardNumberSealed, err = s.sealer.Seal(number); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if card.CVVSealed, err = s.sealer.Seal(in.CVV); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// GetUserCards lists saved cards. Only the last four digits are exposed.
func (s *cardService) GetUserCards(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedCard], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.SavedCard{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.SavedCard
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *cardService) findCard(userID, cardID string) (*models.SavedCard, error) {
	if !uuid.IsValid(cardID) {
		return nil, apperrors.ErrCardNotFound
	}
	var card models.SavedCard
	if err := s.db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// GetCardByID returns one card with its number and CVV unsealed.
func (s *cardService) GetCardByID(userID, cardID string) (*models.SavedCard, error) {
	card, err := s.findCard(userID, cardID)
	if err != nil {
		return nil, err
	}
	if card.CardNumber, err = s.sealer.Open(card.CardNumberSealed); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if card.CVV, err = s.sealer.Open(card.CVVSealed); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// UpdateCard applies a partial edit.
func (s *cardService) UpdateCard(userID, cardID string, fields CardUpdateFields) (*models.SavedCard, error) {
	card, err := s.findCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Alias != nil {
		if strings.TrimSpace(*fields.Alias) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alias cannot be empty")
		}
		updates["alias"] = strings.TrimSpace(*fields.Alias)
	}
	if fields.HolderName != nil {
		if strings.TrimSpace(*fields.HolderName) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "holder name cannot be empty")
		}
		updates["holder_name"] = strings.TrimSpace(*fields.HolderName)
	}
	if fields.CardNumber != nil {
		number, err := normalizeCardNumber(*fields.CardNumber)
		if err != nil {
			return nil, err
		}
		sealed, err := s.sealer.Seal(number)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["card_number_sealed"] = sealed
		updates["last4"] = number[len(number)-4:]
	}
	if fields.Expiry != nil {
		if !cardExpiryPattern.MatchString(*fields.Expiry) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expiry must be MM/YY")
		}
		updates["expiry"] = *fields.Expiry
	}
	if fields.CVV != nil {
		if *fields.CVV != "" && !cvvPattern.MatchString(*fields.CVV) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "CVV must be 3 or 4 digits")
		}
		sealed, err := s.sealer.Seal(*fields.CVV)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["cvv_sealed"] = sealed
	}
	if fields.Network != nil {
		if !validNetwork(*fields.Network) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported card network")
		}
		updates["network"] = *fields.Network
	}
	if fields.Color != nil {
		updates["color"] = *fields.Color
	}
	if fields.BankName != nil {
		updates["bank_name"] = *fields.BankName
	}

	if len(updates) > 0 {
		if err := s.db.Model(card).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.findCard(userID, cardID)
}

// DeleteCard removes a saved card.
func (s *cardService) DeleteCard(userID, cardID string) error {
	card, err := s.findCard(userID, cardID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
