package service

import (
	"context"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

// ToolUpdate holds the fields an owner may change. Nil means unchanged.
type ToolUpdate struct {
	Name             *string
	Description      *string
	PricePerDayCents *int64
	ImageURL         *string
}

type catalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) GetTool(ctx context.Context, id int32) (*domain.Tool, error) {
	tool, err := s.store.Repos().Tools.GetByID(ctx, id)
	return tool, classify(err)
}

func (s *catalogService) ListActiveTools(ctx context.Context) ([]domain.Tool, error) {
	tools, err := s.store.Repos().Tools.ListActive(ctx)
	return tools, classify(err)
}

func (s *catalogService) ListToolsByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error) {
	tools, err := s.store.Repos().Tools.ListByOwner(ctx, ownerID)
	return tools, classify(err)
}

func validateTool(tool *domain.Tool) error {
	tool.Name = strings.TrimSpace(tool.Name)
	tool.Description = strings.TrimSpace(tool.Description)
	tool.ImageURL = strings.TrimSpace(tool.ImageURL)
	if tool.Name == "" {
		return domain.NewError(domain.KindInvalidInput, "tool name is required")
	}
	if tool.PricePerDayCents <= 0 {
		return domain.NewError(domain.KindInvalidInput, "price per day must be positive")
	}
	return nil
}

func (s *catalogService) CreateTool(ctx context.Context, ownerID int32, tool *domain.Tool) error {
	logger.EnterMethod("CatalogService.CreateTool", "ownerID", ownerID)
	if err := validateTool(tool); err != nil {
		logger.ExitMethodWithError("CatalogService.CreateTool", err)
		return err
	}
	tool.OwnerID = ownerID
	tool.Status = domain.ToolStatusActive

	err := s.store.WithinTx(ctx, func(repos *repository.Repos) error {
		owner, err := repos.Users.GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := repos.Tools.Create(ctx, tool); err != nil {
			return err
		}
		tool.OwnerName = owner.FullName
		if tool.OwnerName == "" {
			tool.OwnerName = owner.Username
		}
		return nil
	})
	if err != nil {
		err = classify(err)
		logger.ExitMethodWithError("CatalogService.CreateTool", err)
		return err
	}
	logger.ExitMethod("CatalogService.CreateTool", "toolID", tool.ID)
	return nil
}

func (s *catalogService) UpdateTool(ctx context.Context, ownerID, toolID int32, update ToolUpdate) (*domain.Tool, error) {
	logger.EnterMethod("CatalogService.UpdateTool", "ownerID", ownerID, "toolID", toolID)

	var updated *domain.Tool
	err := s.store.WithinTx(ctx, func(repos *repository.Repos) error {
		tool, err := repos.Tools.GetForUpdate(ctx, toolID)
		if err != nil {
			return err
		}
		if tool.OwnerID != ownerID {
			return domain.NewError(domain.KindForbidden, "only the owner can modify tool %d", toolID)
		}
		if update.Name != nil {
			tool.Name = *update.Name
		}
		if update.Description != nil {
			tool.Description = *update.Description
		}
		if update.PricePerDayCents != nil {
			tool.PricePerDayCents = *update.PricePerDayCents
		}
		if update.ImageURL != nil {
			tool.ImageURL = *update.ImageURL
		}
		if err := validateTool(tool); err != nil {
			return err
		}
		if err := repos.Tools.Update(ctx, tool); err != nil {
			return err
		}
		updated = tool
		return nil
	})
	if err != nil {
		err = classify(err)
		logger.ExitMethodWithError("CatalogService.UpdateTool", err)
		return nil, err
	}
	logger.ExitMethod("CatalogService.UpdateTool")
	return updated, nil
}

// DeactivateTool soft-deletes a tool. It refuses while the tool still has
// pending or active rentals.
func (s *catalogService) DeactivateTool(ctx context.Context, ownerID, toolID int32) error {
	logger.EnterMethod("CatalogService.DeactivateTool", "ownerID", ownerID, "toolID", toolID)

	err := s.store.WithinTx(ctx, func(repos *repository.Repos) error {
		tool, err := repos.Tools.GetForUpdate(ctx, toolID)
		if err != nil {
			return err
		}
		if tool.OwnerID != ownerID {
			return domain.NewError(domain.KindForbidden, "only the owner can deactivate tool %d", toolID)
		}
		if !tool.IsActive() {
			return nil
		}
		open, err := repos.Rentals.CountOpenByTool(ctx, toolID)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrToolInUse
		}
		return repos.Tools.Deactivate(ctx, toolID)
	})
	if err != nil {
		err = classify(err)
		logger.ExitMethodWithError("CatalogService.DeactivateTool", err)
		return err
	}
	logger.ExitMethod("CatalogService.DeactivateTool")
	return nil
}
