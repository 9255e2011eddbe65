// Package domain holds the dashboard entities. Field names and JSON keys
// match the form configurations so submitted values decode directly.
package domain

// Task frequencies.
const (
	FrequencyOnce   = "once"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Admin roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Task is a chore members complete for points and coins.
type Task struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Frequency     string  `json:"frequency"`
	Deadline      string  `json:"deadline,omitempty"`
	Category      string  `json:"category,omitempty"`
	RequiredBadge string  `json:"requiredBadge,omitempty"`
	Points        float64 `json:"points"`
	Coins         float64 `json:"coins"`
	Image         string  `json:"image,omitempty"`
	Active        bool    `json:"active"`
}

func (t Task) EntityID() string { return t.ID }
func (t Task) WithID(id string) Task {
	t.ID = id
	return t
}
func (t Task) DisplayName() string { return t.Title }

// Badge is awarded to members and can gate tasks.
type Badge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image"`
	Points      float64 `json:"points"`
}

func (b Badge) EntityID() string { return b.ID }
func (b Badge) WithID(id string) Badge {
	b.ID = id
	return b
}
func (b Badge) DisplayName() string { return b.Name }

// ShopItem is bought with coins.
type ShopItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Available   bool    `json:"available"`
}

func (s ShopItem) EntityID() string { return s.ID }
func (s ShopItem) WithID(id string) ShopItem {
	s.ID = id
	return s
}
func (s ShopItem) DisplayName() string { return s.Name }

// Admin is a dashboard account. Password holds the bcrypt hash once stored.
type Admin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

func (a Admin) EntityID() string { return a.ID }
func (a Admin) WithID(id string) Admin {
	a.ID = id
	return a
}
func (a Admin) DisplayName() string { return a.Name }

// Public drops the password hash.
func (a Admin) Public() Admin {
	a.Password = ""
	return a
}

// Category groups tasks and shop items. Categories feed the category picker.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Category) EntityID() string { return c.ID }
func (c Category) WithID(id string) Category {
	c.ID = id
	return c
}
func (c Category) DisplayName() string { return c.Name }
