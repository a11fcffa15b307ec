// Package types holds the restaurant directory data model shared by the API
// client, the view state, the offline cache and the mock server.
package types

import "strings"

// Category is a restaurant tag such as "Italia" or "Modern".
type Category struct {
	Name string `json:"name"`
}

// MenuItem is a single food or drink entry.
type MenuItem struct {
	Name string `json:"name"`
}

// Menus groups a restaurant's menu into foods and drinks.
type Menus struct {
	Foods  []MenuItem `json:"foods"`
	Drinks []MenuItem `json:"drinks"`
}

// Review is a customer review embedded in a Restaurant.
// Reviews have no identity of their own; the reviewer name is not unique.
type Review struct {
	Name   string `json:"name"`
	Review string `json:"review"`
	Date   string `json:"date"`
	Rating int    `json:"rating,omitempty"`
}

// Restaurant is a directory entry as returned by the list, search and detail
// endpoints. List and search responses omit categories, menus and reviews.
type Restaurant struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	City            string     `json:"city"`
	Address         string     `json:"address,omitempty"`
	PictureID       string     `json:"pictureId,omitempty"`
	Rating          float64    `json:"rating"`
	Categories      []Category `json:"categories,omitempty"`
	Menus           *Menus     `json:"menus,omitempty"`
	CustomerReviews []Review   `json:"customerReviews,omitempty"`
}

// CategoryNames returns the category names in order.
func (r Restaurant) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Matches reports whether term occurs (case-insensitively) in the name, city,
// description or any category or menu item of the restaurant.
func (r Restaurant) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{r.Name, r.City, r.Description}
	fields = append(fields, r.CategoryNames()...)
	if r.Menus != nil {
		for _, m := range r.Menus.Foods {
			fields = append(fields, m.Name)
		}
		for _, m := range r.Menus.Drinks {
			fields = append(fields, m.Name)
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Summary strips the heavy embedded lists, producing the shape the list and
// search endpoints return.
func (r Restaurant) Summary() Restaurant {
	return Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		PictureID:   r.PictureID,
		Rating:      r.Rating,
	}
}

// Cities returns the distinct cities of restaurants in first-seen order.
func Cities(restaurants []Restaurant) []string {
	seen := make(map[string]bool, len(restaurants))
	var cities []string
	for _, r := range restaurants {
		if seen[r.City] {
			continue
		}
		seen[r.City] = true
		cities = append(cities, r.City)
	}
	return cities
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Review string `json:"review"`
	Rating int    `json:"rating,omitempty"`
}
