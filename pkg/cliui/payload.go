package cliui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/partdeck/partdeck/pkg/agent"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderPayload renders a structured widget payload as terminal text.
// Unrecognized payload types render as an empty string; the payload is still
// carried on the message for callers that want the raw fields.
func RenderPayload(p *agent.UIPayload) string {
	if p == nil {
		return ""
	}

	switch p.Type {
	case "product_list":
		return renderProductList(p.Fields)
	case "product_detail":
		return renderProduct(field(p.Fields, "product"))
	case "compatibility":
		return renderCompatibility(p.Fields)
	case "compatible_models":
		return renderCompatibleModels(p.Fields)
	case "compatible_parts":
		return renderCompatibleParts(p.Fields)
	case "installation_guides":
		return renderInstallationGuides(p.Fields)
	case "cart":
		return renderCart(p.Fields)
	case "shipping":
		return renderShipping(p.Fields)
	case "checkout":
		return renderCheckout(p.Fields)
	case "order_history":
		return renderOrderHistory(p.Fields)
	case "model_list":
		return renderModelList(p.Fields)
	default:
		return ""
	}
}

func renderProductList(fields map[string]any) string {
	var b strings.Builder
	if title := str(fields, "title"); title != "" {
		b.WriteString(titleStyle.Render(title) + "\n")
	}
	items := list(fields, "items")
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No parts found.") + "\n")
		return b.String()
	}
	for _, it := range items {
		m := obj(it)
		fmt.Fprintf(&b, "  %s  %s %s\n",
			str(m, "part_number"),
			str(m, "name"),
			dimStyle.Render("("+str(m, "category")+")"),
		)
	}
	return b.String()
}

func renderProduct(product map[string]any) string {
	if product == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(str(product, "name")) + "\n")
	fmt.Fprintf(&b, "  Part number: %s\n", str(product, "part_number"))
	fmt.Fprintf(&b, "  Category:    %s\n", str(product, "category"))
	return b.String()
}

func renderCompatibility(fields map[string]any) string {
	compatible, _ := fields["compatible"].(bool)
	mark := FailMark
	verdict := "is not compatible with"
	if compatible {
		mark = SuccessMark
		verdict = "is compatible with"
	}
	return fmt.Sprintf("%s %s %s %s\n",
		mark,
		str(fields, "part_number"),
		verdict,
		str(fields, "model_number"),
	)
}

func renderCompatibleModels(fields map[string]any) string {
	var b strings.Builder
	part := obj(fields["part"])
	b.WriteString(titleStyle.Render("Compatible models for "+str(part, "part_number")) + "\n")
	models := list(fields, "models")
	if len(models) == 0 {
		b.WriteString(dimStyle.Render("No compatible models on record.") + "\n")
		return b.String()
	}
	for _, m := range models {
		mm := obj(m)
		fmt.Fprintf(&b, "  %s %s\n", str(mm, "model_number"), dimStyle.Render("("+str(mm, "brand")+")"))
	}
	return b.String()
}

func renderCompatibleParts(fields map[string]any) string {
	var b strings.Builder
	model := obj(fields["model"])
	b.WriteString(titleStyle.Render("Compatible parts for "+str(model, "model_number")) + "\n")
	parts := list(fields, "parts")
	if len(parts) == 0 {
		b.WriteString(dimStyle.Render("No compatible parts on record.") + "\n")
		return b.String()
	}
	for _, p := range parts {
		pm := obj(p)
		fmt.Fprintf(&b, "  %s  %s %s\n",
			str(pm, "part_number"),
			str(pm, "name"),
			dimStyle.Render("("+str(pm, "category")+")"),
		)
	}
	return b.String()
}

func renderInstallationGuides(fields map[string]any) string {
	guides := list(fields, "guides")
	if len(guides) == 0 {
		return ""
	}
	var b strings.Builder
	for _, g := range guides {
		gm := obj(g)
		md := "## " + str(gm, "title") + "\n\n"
		for i, s := range list(gm, "steps") {
			step, _ := s.(string)
			md += fmt.Sprintf("%d. %s\n", i+1, step)
		}
		rendered, err := RenderMarkdown(md)
		if err != nil {
			rendered = md
		}
		b.WriteString(rendered)
	}
	return b.String()
}

func renderCart(fields map[string]any) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cart") + "\n")
	items := list(fields, "items")
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("Your cart is empty.") + "\n")
		return b.String()
	}
	for _, it := range items {
		m := obj(it)
		line := fmt.Sprintf("  %dx %s  %s", num(m, "quantity"), str(m, "part_number"), str(m, "name"))
		if cents, ok := cents(m, "unit_price_cents"); ok {
			line += "  " + dimStyle.Render(FormatCents(cents)+" each")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderShipping(fields map[string]any) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Shipping to "+str(fields, "zip_code")) + "\n")
	for _, o := range list(fields, "options") {
		m := obj(o)
		fmt.Fprintf(&b, "  %s: %s %s\n",
			str(m, "service"),
			dimStyle.Render(str(m, "eta_days")+" days"),
			func() string {
				if c, ok := cents(m, "cost_cents"); ok {
					return FormatCents(c)
				}
				return ""
			}(),
		)
	}
	return b.String()
}

func renderCheckout(fields map[string]any) string {
	url := str(fields, "checkout_url")
	if url == "" {
		return ""
	}
	return titleStyle.Render("Checkout ready") + "\n  " + url + "\n"
}

func renderOrderHistory(fields map[string]any) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Order history") + "\n")
	orders := list(fields, "orders")
	if len(orders) == 0 {
		b.WriteString(dimStyle.Render("No orders yet.") + "\n")
		return b.String()
	}
	for _, o := range orders {
		om := obj(o)
		fmt.Fprintf(&b, "  %s %s\n",
			str(om, "created_at"),
			dimStyle.Render("("+str(om, "status")+")"),
		)
		for _, it := range list(om, "items") {
			m := obj(it)
			fmt.Fprintf(&b, "    %dx %s  %s\n", num(m, "quantity"), str(m, "part_number"), str(m, "name"))
		}
	}
	return b.String()
}

func renderModelList(fields map[string]any) string {
	var b strings.Builder
	if title := str(fields, "title"); title != "" {
		b.WriteString(titleStyle.Render(title) + "\n")
	}
	for _, it := range list(fields, "items") {
		m := obj(it)
		fmt.Fprintf(&b, "  %s %s\n", str(m, "model_number"), dimStyle.Render("("+str(m, "brand")+")"))
	}
	return b.String()
}

// JSON decoding yields map[string]any values; these helpers pull typed fields
// out without panicking on absent or mistyped data.

func field(fields map[string]any, key string) map[string]any {
	return obj(fields[key])
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) int64 {
	f, _ := m[key].(float64)
	return int64(f)
}

func list(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

func cents(m map[string]any, key string) (int64, bool) {
	f, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
