package stats

import (
	"math"
	"sort"
	"time"

	"github.com/bgbarbearia/barbershop-admin/internal/model"
)

// LastRegistrationsLimit caps DashboardStats.LastRegistrations.
const LastRegistrationsLimit = 5

// ComputeStats derives the dashboard figures from customers as seen at now.
// Month and year comparisons happen in now's location. The input slice is not modified.
func ComputeStats(customers []model.Customer, now time.Time) model.DashboardStats {
	loc := now.Location()
	year, month := now.Year(), now.Month()

	out := model.DashboardStats{
		TotalCustomers:    len(customers),
		LastRegistrations: make([]model.Customer, 0, LastRegistrationsLimit),
	}

	for _, c := range customers {
		created := c.CreatedAt.In(loc)
		if created.Year() == year && created.Month() == month {
			out.NewCustomersThisMonth++
		}
		if c.BirthDate != nil && !c.BirthDate.IsZero() && c.BirthDate.Month() == month {
			out.BirthdaysThisMonth++
		}
	}

	if out.TotalCustomers > 0 {
		out.GrowthRate = int(math.Round(float64(out.NewCustomersThisMonth) / float64(out.TotalCustomers) * 100))
	}

	sorted := make([]model.Customer, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > LastRegistrationsLimit {
		sorted = sorted[:LastRegistrationsLimit]
	}
	out.LastRegistrations = append(out.LastRegistrations, sorted...)

	return out
}
