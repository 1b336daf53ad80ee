package constants

const (
	ViewData        = "view_data"
	CreateListing   = "create_listing"
	EditListing     = "edit_listing"
	CancelListing   = "cancel_listing"
	PlaceBid        = "place_bid"
	AcceptBid       = "accept_bid"
	ManagePrices    = "manage_prices"
	ImportCatalysts = "import_catalysts"
	ManageOverrides = "manage_overrides"
	ManageCMS       = "manage_cms"
	AssignRole      = "assign_role"
	RemoveUser      = "remove_user"
)
