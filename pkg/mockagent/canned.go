package mockagent

import (
	"encoding/json"
	"strings"
)

// cannedReply picks a built-in reply flow by keyword. Every flow ends with
// the done sentinel, matching what the real backend emits.
func cannedReply(message string) []string {
	lower := strings.ToLower(message)

	var frames []string
	switch {
	case strings.Contains(lower, "error"):
		frames = []string{errorFrame("The agent backend is unavailable right now.")}

	case strings.Contains(lower, "cart"):
		frames = []string{uiFrame(cannedCart)}

	case strings.Contains(lower, "checkout"):
		frames = []string{
			uiFrame(cannedCheckout),
			dataFrame(map[string]any{"delta": "Your checkout link is ready. "}),
			dataFrame(map[string]any{"delta": "The cart has been finalized."}),
		}

	case strings.Contains(lower, "ship"):
		frames = append(
			deltaFrames("Here are the shipping options for your cart. "),
			uiFrame(cannedShipping),
		)

	case strings.Contains(lower, "install") || strings.Contains(lower, "guide"):
		frames = []string{uiFrame(cannedGuides)}

	case strings.Contains(lower, "order"):
		frames = append(
			deltaFrames("Here is your recent order history. "),
			uiFrame(cannedOrders),
		)

	case strings.Contains(lower, "compatible") || strings.Contains(lower, "fit"):
		frames = append(
			deltaFrames("Good news, that part fits your model. "),
			uiFrame(cannedCompatibility),
		)

	case strings.Contains(lower, "part") || strings.Contains(lower, "find") || strings.Contains(lower, "search"):
		frames = append(
			deltaFrames("I found a few parts that match. "),
			uiFrame(cannedProducts),
		)

	default:
		frames = deltaFrames("I can help you find parts, check compatibility with your appliance model, walk through installation, or manage your cart and orders. What do you need?")
	}

	return append(frames, doneFrame())
}

// dataFrame encodes v as a single data frame.
func dataFrame(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return "data: " + string(b) + "\n\n"
}

// deltaFrames streams text word by word the way the token-level backend does.
func deltaFrames(text string) []string {
	words := strings.SplitAfter(text, " ")
	frames := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		frames = append(frames, dataFrame(map[string]any{"delta": w}))
	}
	return frames
}

// uiFrame wraps a widget payload in the actions.stateDelta.ui envelope.
func uiFrame(ui map[string]any) string {
	return dataFrame(map[string]any{
		"actions": map[string]any{
			"stateDelta": map[string]any{
				"ui": ui,
			},
		},
	})
}

func errorFrame(text string) string {
	return "event: error\ndata: " + text + "\n\n"
}

func doneFrame() string {
	return "data: [DONE]\n\n"
}

var cannedProducts = map[string]any{
	"type":  "product_list",
	"title": "Search results",
	"items": []any{
		map[string]any{"part_number": "W10190965", "name": "Ice Maker Assembly", "category": "refrigerator"},
		map[string]any{"part_number": "WPW10348269", "name": "Dishrack Wheel", "category": "dishwasher"},
		map[string]any{"part_number": "W10295370A", "name": "Water Filter", "category": "refrigerator"},
	},
}

var cannedCompatibility = map[string]any{
	"type":         "compatibility",
	"part_number":  "W10190965",
	"model_number": "WRS325SDHZ",
	"compatible":   true,
	"part":         map[string]any{"part_number": "W10190965", "name": "Ice Maker Assembly", "category": "refrigerator"},
	"model":        map[string]any{"model_number": "WRS325SDHZ", "brand": "Whirlpool"},
}

var cannedGuides = map[string]any{
	"type": "installation_guides",
	"part": map[string]any{"part_number": "W10190965", "name": "Ice Maker Assembly", "category": "refrigerator"},
	"guides": []any{
		map[string]any{
			"title": "Replacing the ice maker assembly",
			"steps": []any{
				"Unplug the refrigerator.",
				"Remove the ice bin and the two mounting screws.",
				"Unplug the wiring harness and pull the old unit free.",
				"Mount the new assembly and reconnect the harness.",
			},
		},
	},
	"replace_text": "Here is the installation guide for W10190965.",
}

var cannedCart = map[string]any{
	"type":    "cart",
	"cart_id": "a3a4d18e-4c9e-4f7b-9a5f-2f1f4f9d2c31",
	"items": []any{
		map[string]any{
			"part_number":      "W10190965",
			"name":             "Ice Maker Assembly",
			"category":         "refrigerator",
			"quantity":         2,
			"unit_price_cents": 8499,
		},
	},
	"replace_text": "You have 2 items in your cart.",
}

var cannedShipping = map[string]any{
	"type":        "shipping",
	"zip_code":    "60607",
	"total_items": 2,
	"options": []any{
		map[string]any{"service": "Standard", "eta_days": "4-7", "cost_cents": 899},
		map[string]any{"service": "Expedited", "eta_days": "2-3", "cost_cents": 1649},
	},
}

var cannedCheckout = map[string]any{
	"type":                "checkout",
	"checkout_session_id": "2b6f0c5d-71e1-4f36-9d27-6a12c4c5de90",
	"checkout_url":        "http://localhost:3000/checkout?session=2b6f0c5d-71e1-4f36-9d27-6a12c4c5de90",
}

var cannedOrders = map[string]any{
	"type": "order_history",
	"orders": []any{
		map[string]any{
			"status":     "created",
			"created_at": "2026-08-12T16:41:00Z",
			"items": []any{
				map[string]any{"part_number": "W10295370A", "name": "Water Filter", "quantity": 1, "unit_price_cents": 4299},
			},
		},
	},
	"offset":   0,
	"has_more": false,
}
