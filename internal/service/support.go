package service

import (
	"context"
	"net/mail"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

type supportService struct {
	supportRepo repository.SupportRepository
}

func NewSupportService(supportRepo repository.SupportRepository) SupportService {
	return &supportService{supportRepo: supportRepo}
}

func (s *supportService) Submit(ctx context.Context, req *domain.SupportRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return domain.NewError(domain.KindInvalidInput, "name, email and message are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.NewError(domain.KindInvalidInput, "a valid email is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		req.Type = "general"
	}
	req.Status = domain.SupportStatusPending

	if err := s.supportRepo.Create(ctx, req); err != nil {
		return classify(err)
	}
	logger.Info("Support request submitted", "supportID", req.ID, "type", req.Type)
	return nil
}

func (s *supportService) List(ctx context.Context) ([]domain.SupportRequest, error) {
	reqs, err := s.supportRepo.List(ctx)
	return reqs, classify(err)
}

func (s *supportService) UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error) {
	if status != domain.SupportStatusFinished && status != domain.SupportStatusRejected {
		return nil, domain.NewError(domain.KindInvalidInput, "status must be finished or rejected")
	}
	req, err := s.supportRepo.UpdateStatus(ctx, id, status)
	return req, classify(err)
}
