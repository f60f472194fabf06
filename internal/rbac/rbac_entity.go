package rbac

import "time"

// RolePermission grants Action on Resource to Role. Action "*" grants all.
type RolePermission struct {
	ID        uint   `gorm:"primaryKey"`
	Role      string `gorm:"size:32;not null;uniqueIndex:uq_role_permission"`
	Resource  string `gorm:"size:64;not null;uniqueIndex:uq_role_permission"`
	Action    string `gorm:"size:32;not null;uniqueIndex:uq_role_permission"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string { return "role_permissions" }

// RoleInheritance makes Role inherit every permission of Parent.
type RoleInheritance struct {
	Role   string
	Parent string
}
