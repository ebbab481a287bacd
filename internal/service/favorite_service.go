package service

import (
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// FavoriteService owns buyer favorites.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	offerRepo    repository.OfferRepository
}

// NewFavoriteService creates a favorite service.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, offerRepo repository.OfferRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, offerRepo: offerRepo}
}

// Toggle flips the favorite flag for an offer. Returns the new state.
func (s *FavoriteService) Toggle(userID, offerID uint) (bool, error) {
	if userID == 0 {
		return false, ErrValidation
	}
	offer, err := s.offerRepo.GetByID(offerID)
	if err != nil {
		return false, err
	}
	if offer == nil {
		return false, ErrNotFound
	}

	exists, err := s.favoriteRepo.Exists(userID, offerID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.favoriteRepo.Remove(userID, offerID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.favoriteRepo.Add(&models.Favorite{UserID: userID, OfferID: offerID}); err != nil {
		return false, err
	}
	return true, nil
}

// ListForUser returns the user's favorites, newest first.
func (s *FavoriteService) ListForUser(userID uint) ([]models.Favorite, error) {
	return s.favoriteRepo.ListByUser(userID)
}

// IsFavorite reports whether the user favorited the offer.
func (s *FavoriteService) IsFavorite(userID, offerID uint) (bool, error) {
	return s.favoriteRepo.Exists(userID, offerID)
}
