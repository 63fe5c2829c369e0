package http

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

// accessGuard decides who may see or move a rental: its renter, the owner of
// the rented tool, or an admin.
type accessGuard struct {
	catalog service.CatalogService
}

func (g accessGuard) isToolOwner(ctx context.Context, c Caller, toolID int32) (bool, error) {
	tool, err := g.catalog.GetTool(ctx, toolID)
	if err != nil {
		return false, err
	}
	return tool.OwnerID == c.UserID, nil
}

func (g accessGuard) party(ctx context.Context, c Caller, customerID, toolID int32) error {
	if c.IsAdmin() || c.UserID == customerID {
		return nil
	}
	owner, err := g.isToolOwner(ctx, c, toolID)
	if err != nil {
		return err
	}
	if !owner {
		return domain.NewError(domain.KindForbidden, "not a party to this rental")
	}
	return nil
}

func (g accessGuard) rental(ctx context.Context, c Caller, r *domain.Rental) error {
	return g.party(ctx, c, r.RenterID, r.ToolID)
}

func (g accessGuard) order(ctx context.Context, c Caller, o *domain.Order) error {
	return g.party(ctx, c, o.UserID, o.ToolID)
}

// self allows a caller to read their own records; admins may read anyone's.
func (g accessGuard) self(c Caller, userID int32) error {
	if c.IsAdmin() || c.UserID == userID {
		return nil
	}
	return domain.NewError(domain.KindForbidden, "cannot access another user's records")
}

func (g accessGuard) toolOwner(ctx context.Context, c Caller, toolID int32) error {
	if c.IsAdmin() {
		return nil
	}
	owner, err := g.isToolOwner(ctx, c, toolID)
	if err != nil {
		return err
	}
	if !owner {
		return domain.NewError(domain.KindForbidden, "only the tool owner can see its rentals")
	}
	return nil
}
