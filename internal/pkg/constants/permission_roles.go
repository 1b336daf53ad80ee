package constants

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:        {Buyer, Seller, Admin, Superadmin},
	CreateListing:   {Seller, Admin, Superadmin},
	EditListing:     {Seller, Admin, Superadmin},
	CancelListing:   {Seller, Admin, Superadmin},
	PlaceBid:        {Buyer, Admin, Superadmin},
	AcceptBid:       {Seller, Admin, Superadmin},
	ManagePrices:    {Admin, Superadmin},
	ImportCatalysts: {Admin, Superadmin},
	ManageOverrides: {Admin, Superadmin},
	ManageCMS:       {Admin, Superadmin},
	AssignRole:      {Admin, Superadmin},
	RemoveUser:      {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
