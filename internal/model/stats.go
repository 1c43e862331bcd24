package model

// DashboardStats is derived from the customer list and never persisted.
type DashboardStats struct {
	TotalCustomers        int        `json:"totalCustomers"`
	NewCustomersThisMonth int        `json:"newCustomersThisMonth"`
	BirthdaysThisMonth    int        `json:"birthdaysThisMonth"`
	GrowthRate            int        `json:"growthRate"` // percent of customers registered this month
	LastRegistrations     []Customer `json:"lastRegistrations"`
}
