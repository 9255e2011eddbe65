package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/provider"
	"github.com/goliatone/go-formengine/pkg/session"
)

// TaskResource manages tasks with the task form.
func TaskResource(p provider.Provider[domain.Task]) *Resource[domain.Task] {
	return &Resource[domain.Task]{
		Name:     "tasks",
		Title:    "Tasks",
		Singular: "task",
		FormID:   "task",
		Provider: p,
		Columns: []Column[domain.Task]{
			{Label: "Title", Value: func(t domain.Task) string { return t.Title }},
			{Label: "Frequency", Value: func(t domain.Task) string { return t.Frequency }},
			{Label: "Deadline", Value: func(t domain.Task) string { return t.Deadline }},
			{Label: "Points", Value: func(t domain.Task) string { return number(t.Points) }},
			{Label: "Coins", Value: func(t domain.Task) string { return number(t.Coins) }},
			{Label: "Active", Value: func(t domain.Task) string { return yesNo(t.Active) }},
		},
	}
}

// BadgeResource manages badges with the badge form.
func BadgeResource(p provider.Provider[domain.Badge]) *Resource[domain.Badge] {
	return &Resource[domain.Badge]{
		Name:     "badges",
		Title:    "Badges",
		Singular: "badge",
		FormID:   "badge",
		Provider: p,
		Columns: []Column[domain.Badge]{
			{Label: "Name", Value: func(b domain.Badge) string { return b.Name }},
			{Label: "Points", Value: func(b domain.Badge) string { return number(b.Points) }},
		},
	}
}

// ShopItemResource manages shop items with the shop-item form.
func ShopItemResource(p provider.Provider[domain.ShopItem]) *Resource[domain.ShopItem] {
	return &Resource[domain.ShopItem]{
		Name:     "shop-items",
		Title:    "Shop",
		Singular: "shop item",
		FormID:   "shop-item",
		Provider: p,
		Columns: []Column[domain.ShopItem]{
			{Label: "Name", Value: func(s domain.ShopItem) string { return s.Name }},
			{Label: "Price", Value: func(s domain.ShopItem) string { return number(s.Price) }},
			{Label: "Quantity", Value: func(s domain.ShopItem) string { return number(s.Quantity) }},
			{Label: "Available", Value: func(s domain.ShopItem) string { return yesNo(s.Available) }},
		},
	}
}

// AdminResource manages admin accounts. Passwords are stored as bcrypt
// hashes; leaving them blank while editing keeps the current one.
func AdminResource(p provider.Provider[domain.Admin]) *Resource[domain.Admin] {
	return &Resource[domain.Admin]{
		Name:     "admins",
		Title:    "Admins",
		Singular: "admin",
		FormID:   "admin",
		Provider: p,
		Columns: []Column[domain.Admin]{
			{Label: "Name", Value: func(a domain.Admin) string { return a.Name }},
			{Label: "Email", Value: func(a domain.Admin) string { return a.Email }},
			{Label: "Role", Value: func(a domain.Admin) string { return a.Role }},
		},
		EditForm: optionalPasswords,
		Prepare: func(ctx context.Context, values model.Values, existing *domain.Admin) error {
			return prepareAdmin(ctx, p, values, existing)
		},
		Present: domain.Admin.Public,
	}
}

func optionalPasswords(cfg model.FormConfig) model.FormConfig {
	for i, field := range cfg.Fields {
		if field.Kind == model.FieldKindPassword {
			cfg.Fields[i].Required = false
		}
	}
	return cfg
}

// prepareAdmin enforces unique emails and replaces the plain password with
// its hash. The confirmation never reaches the provider.
func prepareAdmin(ctx context.Context, p provider.Provider[domain.Admin], values model.Values, existing *domain.Admin) error {
	email, _ := values["email"].(string)
	admins, err := p.List(ctx)
	if err != nil {
		return err
	}
	for _, other := range admins {
		if existing != nil && other.ID == existing.ID {
			continue
		}
		if strings.EqualFold(other.Email, strings.TrimSpace(email)) {
			return provider.NewValidationError("email", "Email is already in use")
		}
	}

	password, _ := values["password"].(string)
	confirm, _ := values["confirmPassword"].(string)
	delete(values, "confirmPassword")
	if password == "" {
		if existing != nil {
			values["password"] = existing.Password
		}
		return nil
	}
	if confirm != password {
		return provider.NewValidationError("confirmPassword", "Confirm password must match password")
	}
	hash, err := session.HashPassword(password)
	if err != nil {
		return err
	}
	values["password"] = hash
	return nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
