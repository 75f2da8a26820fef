package dto

// AssetResponse is a catalog asset entry.
type AssetResponse struct {
	ID       string `json:"id"`
	OrgID    string `json:"org_id"`
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
	IsActive bool   `json:"is_active"`
}

// AccountResponse is a system user entry.
type AccountResponse struct {
	ID       string `json:"id"`
	OrgID    string `json:"org_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Protocol string `json:"protocol"`
	IsActive bool   `json:"is_active"`
}

// OrganizationResponse is an org scope entry.
type OrganizationResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
