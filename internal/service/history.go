package service

import (
	"context"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

type historyService struct {
	historyRepo repository.HistoryRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

// Record appends one audit line. Entries are never edited afterwards.
func (s *historyService) Record(ctx context.Context, userID, orderID int32, detail string) error {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return domain.NewError(domain.KindInvalidInput, "history detail is required")
	}
	entry := &domain.HistoryEntry{UserID: userID, OrderID: orderID, Detail: detail}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return classify(err)
	}
	logger.DebugContext(ctx, "History recorded", "historyID", entry.ID, "orderID", orderID)
	return nil
}

func (s *historyService) ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error) {
	entries, err := s.historyRepo.ListByUser(ctx, userID)
	return entries, classify(err)
}

func (s *historyService) ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error) {
	entries, err := s.historyRepo.ListByOrder(ctx, orderID)
	return entries, classify(err)
}
