package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/square-key-labs/hostline-ai/src/menu"
	"github.com/square-key-labs/hostline-ai/src/session"
)

func (r *Registry) getMenuCategories(ctx context.Context, sess *session.CallSession, _ json.RawMessage) string {
	catalog := sess.EnsureMenu(ctx)
	return menu.SummarizeCategories(catalog)
}

func (r *Registry) getMenuByCategory(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		Category string `json:"category"`
	}
	if !decode(args, &in) || in.Category == "" {
		return argsFallback
	}

	catalog := sess.EnsureMenu(ctx)
	names, ok := menu.LookupCategory(catalog, in.Category)
	if !ok {
		r.log.Warn("Category '%s' not found", in.Category)
		return fmt.Sprintf("Category '%s' not available", in.Category)
	}
	return strings.Join(names, ", ")
}

func (r *Registry) getItemPrice(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		ItemName string `json:"item_name"`
	}
	if !decode(args, &in) || in.ItemName == "" {
		return argsFallback
	}

	catalog := sess.EnsureMenu(ctx)
	price, ok := menu.LookupPrice(catalog, in.ItemName)
	if !ok {
		return fmt.Sprintf("I couldn't find: %s", in.ItemName)
	}
	return fmt.Sprintf("$%.2f", price)
}

func (r *Registry) getItemPrices(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		ItemNames []string `json:"item_names"`
	}
	if !decode(args, &in) || len(in.ItemNames) == 0 {
		return argsFallback
	}

	catalog := sess.EnsureMenu(ctx)

	var parts, missing []string
	total := 0.0
	found := 0
	for _, name := range in.ItemNames {
		price, ok := menu.LookupPrice(catalog, name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: $%.2f", name, price))
		total += price
		found++
	}

	if found == 0 {
		return fmt.Sprintf("I couldn't find: %s", strings.Join(missing, ", "))
	}

	answer := strings.Join(parts, ", ")
	if found > 1 {
		answer += fmt.Sprintf(". Total: $%.2f", total)
	}
	if len(missing) > 0 {
		answer += fmt.Sprintf(". I couldn't find: %s", strings.Join(missing, ", "))
	}
	return answer
}

func (r *Registry) searchMenuItems(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		Queries []string `json:"queries"`
	}
	if !decode(args, &in) || len(in.Queries) == 0 {
		return argsFallback
	}

	catalog := sess.EnsureMenu(ctx)
	results := menu.SearchItems(catalog, in.Queries)

	var parts []string
	for _, result := range results {
		switch {
		case result.Resolved():
			parts = append(parts, fmt.Sprintf("%s ($%.2f)", result.Match.Name, result.Match.Price))
		case len(result.Suggestions) > 0:
			var options []string
			for _, item := range result.Suggestions {
				options = append(options, fmt.Sprintf("%s ($%.2f)", item.Name, item.Price))
			}
			parts = append(parts, fmt.Sprintf("For '%s', did you mean: %s? Please confirm before I add it.",
				result.Query, strings.Join(options, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("I couldn't find: %s", result.Query))
		}
	}
	return strings.Join(parts, "\n")
}
