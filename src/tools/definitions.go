package tools

import "github.com/square-key-labs/hostline-ai/src/dialog"

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func stringListProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
	}
}

// Definitions returns the JSON-schema descriptions of every tool, in the
// shape the dialogue manager expects
func (r *Registry) Definitions() []dialog.Tool {
	fn := func(name, description string, parameters map[string]interface{}) dialog.Tool {
		return dialog.Tool{
			Type: "function",
			Function: dialog.ToolFunction{
				Name:        name,
				Description: description,
				Parameters:  parameters,
			},
		}
	}

	return []dialog.Tool{
		fn(GetMenuCategories,
			"Get a short summary of the menu categories when the customer asks what's available.",
			objectSchema(nil)),
		fn(GetMenuByCategory,
			"List the items in one menu category.",
			objectSchema(map[string]interface{}{
				"category": stringProp("Category name, e.g. \"Chicken\" or \"Beef\""),
			}, "category")),
		fn(GetItemPrice,
			"Get the price of a single menu item. Use only when the customer asks how much something costs.",
			objectSchema(map[string]interface{}{
				"item_name": stringProp("Menu item name"),
			}, "item_name")),
		fn(GetItemPrices,
			"Get the prices of several menu items at once, with a total.",
			objectSchema(map[string]interface{}{
				"item_names": stringListProp("Menu item names"),
			}, "item_names")),
		fn(SearchMenuItems,
			"Find menu items from approximate spoken names. Confident matches resolve automatically; "+
				"otherwise ranked suggestions come back for the customer to confirm.",
			objectSchema(map[string]interface{}{
				"queries": stringListProp("Spoken item names to look up"),
			}, "queries")),
		fn(SearchKnowledgeBase,
			"Search the restaurant FAQs for hours, policies, location, delivery and similar questions.",
			objectSchema(map[string]interface{}{
				"query": stringProp("Keywords, e.g. \"hours\" or \"delivery\""),
			}, "query")),
		fn(CheckCurrentTime,
			"Get the current date and time in the restaurant's timezone. Use it to check opening hours "+
				"and to convert relative times like \"in 20 minutes\" or \"tomorrow at 7 PM\".",
			objectSchema(nil)),
		fn(PlaceOrder,
			"Place a pickup order once the items, the customer's name and optionally a pickup time are confirmed. "+
				"Does not end the call.",
			objectSchema(map[string]interface{}{
				"items":         stringListProp("Confirmed item names to order"),
				"customer_name": stringProp("Customer's name (must ask first)"),
				"pickup_time":   stringProp("Requested pickup time, e.g. \"11:30 AM\". Defaults to 20 minutes from now."),
			}, "items", "customer_name")),
		fn(MakeReservation,
			"Book a table after collecting name, date, time and party size.",
			objectSchema(map[string]interface{}{
				"customer_name":  stringProp("Customer's name"),
				"date":           stringProp("Reservation date, YYYY-MM-DD"),
				"time":           stringProp("Reservation time, 24-hour HH:MM"),
				"party_size":     map[string]interface{}{"type": "integer", "description": "Number of people"},
				"customer_phone": stringProp("Optional contact number; defaults to the caller's number"),
			}, "customer_name", "date", "time", "party_size")),
		fn(TransferToManager,
			"Transfer the call to the store manager when the customer asks for a person. "+
				"Say you are transferring before calling this.",
			objectSchema(nil)),
		fn(EndCall,
			"Hang up after the customer says goodbye. Say the goodbye first, then call this; "+
				"it waits for the goodbye to finish before disconnecting.",
			objectSchema(nil)),
		fn(SaveConversation,
			"Persist the conversation transcript. Normally invoked automatically at call end.",
			objectSchema(nil)),
		fn(SendMenuPictures,
			"Text the menu pictures to the caller's phone.",
			objectSchema(nil)),
		fn(RequestCallback,
			"Arrange a manager callback within 5 minutes when a transfer is not possible or not wanted.",
			objectSchema(map[string]interface{}{
				"customer_name": stringProp("Customer's name"),
				"reason":        stringProp("Why the customer wants a callback"),
			}, "customer_name")),
	}
}
