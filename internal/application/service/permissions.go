package service

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
)

// Permissions are the register capabilities granted to a staff member,
// carried explicitly instead of re-read from storage at every check.
type Permissions struct {
	Register     bool
	Global       bool
	ChangePrice  bool
	Void         bool
	StockReceive bool
}

// Names returns the granted permission names for token claims
func (p Permissions) Names() []string {
	var names []string
	if p.Register {
		names = append(names, "register")
	}
	if p.Global {
		names = append(names, "global")
	}
	if p.ChangePrice {
		names = append(names, "change_price")
	}
	if p.Void {
		names = append(names, "void")
	}
	if p.StockReceive {
		names = append(names, "stock_receive")
	}
	return names
}

// PermissionsFromRole flattens a role row into a Permissions value
func PermissionsFromRole(role *entity.RolePermission) Permissions {
	if role == nil {
		return Permissions{}
	}
	return Permissions{
		Register:     role.Register,
		Global:       role.Global,
		ChangePrice:  role.ChangePrice,
		Void:         role.Void,
		StockReceive: role.StockReceive,
	}
}

// StaffContext is the acting operator for a request: who they are, where
// they belong and what they may do.
type StaffContext struct {
	StaffCode      string
	AffiliateStore string
	Permissions    Permissions
}

// PermissionGate loads staff and answers permission questions scoped to
// store affiliation.
type PermissionGate struct{}

// NewPermissionGate creates a permission gate
func NewPermissionGate() *PermissionGate {
	return &PermissionGate{}
}

// Load resolves a staff code into its acting context
func (g *PermissionGate) Load(ctx context.Context, reg *repository.Registry, staffCode string) (*StaffContext, error) {
	staff, err := reg.Staffs.GetByStaffCode(ctx, staffCode)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff " + staffCode)
	}
	return &StaffContext{
		StaffCode:      staff.StaffCode,
		AffiliateStore: staff.AffiliateStore,
		Permissions:    PermissionsFromRole(&staff.Permission),
	}, nil
}

// checkStore enforces store affiliation; the global permission lifts it.
func (g *PermissionGate) checkStore(sc *StaffContext, storeCode string) error {
	if sc.AffiliateStore == storeCode || sc.Permissions.Global {
		return nil
	}
	return apperror.NewPermissionError("staff is not affiliated with this store")
}

// CheckRegister allows registering sales at the given store
func (g *PermissionGate) CheckRegister(sc *StaffContext, storeCode string) error {
	if !sc.Permissions.Register {
		return apperror.NewPermissionError("staff may not register sales")
	}
	return g.checkStore(sc, storeCode)
}

// CheckChangePrice allows discounting or re-pricing lines
func (g *PermissionGate) CheckChangePrice(sc *StaffContext) error {
	if !sc.Permissions.ChangePrice {
		return apperror.NewPermissionError("staff may not change prices or apply discounts")
	}
	return nil
}

// CheckVoid allows returns and voids at the given store
func (g *PermissionGate) CheckVoid(sc *StaffContext, storeCode string) error {
	if !sc.Permissions.Void {
		return apperror.NewPermissionError("staff may not process returns")
	}
	return g.checkStore(sc, storeCode)
}

// CheckStockReceive allows booking received goods at the given store
func (g *PermissionGate) CheckStockReceive(sc *StaffContext, storeCode string) error {
	if !sc.Permissions.StockReceive {
		return apperror.NewPermissionError("staff may not receive stock")
	}
	return g.checkStore(sc, storeCode)
}
