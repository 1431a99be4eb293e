package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/internal/catalog"
)

// DishTotal is the per-dish rollup the kitchen cooks from: how many plates of
// a dish across all bookings of the day, and how many guests those bookings
// cover.
type DishTotal struct {
	FoodItemID    uuid.UUID `json:"food_item_id"`
	Name          string    `json:"name"`
	DietType      string    `json:"diet_type"`
	TotalQuantity int       `json:"total_quantity"`
	TotalGuests   int       `json:"total_guests"`
	Bookings      int       `json:"bookings"`
}

// CategoryGroup groups dish totals under a catalog category, in the order
// categories are first encountered across the day's bookings.
type CategoryGroup struct {
	Category string      `json:"category"`
	Dishes   []DishTotal `json:"dishes"`
}

// ReportSummary is the day-level rollup.
type ReportSummary struct {
	Bookings       int `json:"bookings"`
	TotalGuests    int `json:"total_guests"`
	DistinctDishes int `json:"distinct_dishes"`
}

// Report is the preparation sheet for one service day.
type Report struct {
	Date       string          `json:"date"`
	Categories []CategoryGroup `json:"categories"`
	Summary    ReportSummary   `json:"summary"`
}

// PrepAggregator builds preparation reports by recomputing on read. No state
// is cached, so repeated calls over unchanged bookings give identical output.
type PrepAggregator struct {
	repo   BookingRepo
	foods  catalog.FoodItemRepo
	logger apt.Logger
}

func NewPrepAggregator(repo BookingRepo, foods catalog.FoodItemRepo, logger apt.Logger) *PrepAggregator {
	return &PrepAggregator{repo: repo, foods: foods, logger: logger}
}

// ReportForDate aggregates all non-cancelled bookings of the given day into
// one preparation report. A day with no bookings yields an empty report.
func (a *PrepAggregator) ReportForDate(ctx context.Context, day time.Time) (*Report, error) {
	bookings, err := a.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("cannot list bookings for date: %w", err)
	}

	dishes, err := a.resolveDishes(ctx, bookings)
	if err != nil {
		return nil, err
	}

	return buildReport(day, bookings, dishes), nil
}

// UpcomingReports builds one report per distinct event date from the given
// day onward, ascending. A positive days value limits the look-ahead window,
// days <= 0 covers every future date with a booking.
func (a *PrepAggregator) UpcomingReports(ctx context.Context, from time.Time, days int) ([]*Report, error) {
	bookings, err := a.repo.ListUpcoming(ctx, from, days)
	if err != nil {
		return nil, fmt.Errorf("cannot list upcoming bookings: %w", err)
	}

	dishes, err := a.resolveDishes(ctx, bookings)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*Booking)
	for _, b := range bookings {
		day := b.EventDay()
		byDay[day] = append(byDay[day], b)
	}

	daysSorted := make([]string, 0, len(byDay))
	for day := range byDay {
		daysSorted = append(daysSorted, day)
	}
	sort.Strings(daysSorted)

	reports := make([]*Report, 0, len(daysSorted))
	for _, dayStr := range daysSorted {
		day, err := time.Parse(DateLayout, dayStr)
		if err != nil {
			continue
		}
		reports = append(reports, buildReport(day, byDay[dayStr], dishes))
	}
	return reports, nil
}

// resolveDishes loads every referenced food item once. Dangling references
// are logged and skipped rather than failing the whole report.
func (a *PrepAggregator) resolveDishes(ctx context.Context, bookings []*Booking) (map[uuid.UUID]*catalog.FoodItem, error) {
	dishes := make(map[uuid.UUID]*catalog.FoodItem)
	for _, b := range bookings {
		for _, item := range b.Items {
			if _, seen := dishes[item.FoodItemID]; seen {
				continue
			}
			food, err := a.foods.Get(ctx, item.FoodItemID)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve food item: %w", err)
			}
			if food == nil {
				a.logger.Error("booking references missing food item", "food_item_id", item.FoodItemID.String(), "booking_id", b.ID.String())
				continue
			}
			dishes[item.FoodItemID] = food
		}
	}
	return dishes, nil
}

// buildReport is the pure aggregation core: cancelled bookings contribute
// nothing, each dish accumulates quantity per line item, and a booking's
// guest count is added to a dish at most once.
func buildReport(day time.Time, bookings []*Booking, dishes map[uuid.UUID]*catalog.FoodItem) *Report {
	report := &Report{
		Date:       day.Format(DateLayout),
		Categories: []CategoryGroup{},
	}

	totals := make(map[uuid.UUID]*DishTotal)
	var categoryOrder []string
	dishOrder := make(map[string][]uuid.UUID)

	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		report.Summary.Bookings++
		report.Summary.TotalGuests += b.GuestCount

		counted := make(map[uuid.UUID]bool, len(b.Items))
		for _, item := range b.Items {
			food, ok := dishes[item.FoodItemID]
			if !ok {
				continue
			}

			dt, ok := totals[item.FoodItemID]
			if !ok {
				dt = &DishTotal{
					FoodItemID: item.FoodItemID,
					Name:       food.Name,
					DietType:   food.DietType,
				}
				totals[item.FoodItemID] = dt

				category := food.Category
				if _, seen := dishOrder[category]; !seen {
					categoryOrder = append(categoryOrder, category)
				}
				dishOrder[category] = append(dishOrder[category], item.FoodItemID)
			}

			dt.TotalQuantity += item.Quantity
			if !counted[item.FoodItemID] {
				dt.TotalGuests += b.GuestCount
				dt.Bookings++
				counted[item.FoodItemID] = true
			}
		}
	}

	for _, category := range categoryOrder {
		group := CategoryGroup{Category: category}
		for _, id := range dishOrder[category] {
			group.Dishes = append(group.Dishes, *totals[id])
		}
		report.Categories = append(report.Categories, group)
	}
	report.Summary.DistinctDishes = len(totals)

	return report
}
