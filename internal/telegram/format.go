package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalplan/internal/checkout"
	"vitalplan/internal/domain"
	"vitalplan/internal/marketplace"
	"vitalplan/internal/metrics"
	"vitalplan/internal/onboarding"
)

const helpText = `🌿 *VitalPlan*

/start - set up your profile
/profile - edit your profile
/goals - choose wellness goals
/plan - generate a diet plan
/pdf - download your plan as PDF
/market [category] [search] - browse products
/recommend - products for your goals
/cart - view your cart
/vendor <id> - choose a vendor
/pay <method> - choose a payment method
/checkout - place your order
/orders - order history
/scan - analyze a food photo
/cancel - abort the current step`

const profileFormat = "Send your profile as `key=value` pairs separated by `;`, e.g.\n" +
	"`name=Sam; email=sam@example.com; age=30; height=170; weight=70; gender=female; activity=moderate`\n\n" +
	"Optional keys: `restrictions`, `allergies` (comma lists), `location`, `bio`."

// md escapes user or model supplied text for legacy Markdown messages.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// emphasize wraps s in a Markdown marker such as "*" or "_". Legacy Markdown
// has no escaping inside an entity, so text with markup characters is sent
// escaped and unstyled instead.
func emphasize(marker, s string) string {
	if strings.ContainsAny(s, "_*`[") {
		return md(s)
	}
	return marker + s + marker
}

func formatPlanMarkdown(plan *domain.DietPlan) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Your Diet Plan*\n")
	sb.WriteString(fmt.Sprintf("_%d kcal · P %.0fg · C %.0fg · F %.0fg_\n\n",
		plan.TotalCalories, plan.Macros.Protein, plan.Macros.Carbs, plan.Macros.Fat))

	for _, m := range plan.Meals {
		sb.WriteString(fmt.Sprintf("*%s*: %s (%d kcal", titleCase(string(m.Type)), md(m.Name), m.Calories))
		if m.PrepTime > 0 {
			sb.WriteString(fmt.Sprintf(", %d min", m.PrepTime))
		}
		sb.WriteString(")\n")
		if len(m.Ingredients) > 0 {
			sb.WriteString(emphasize("_", strings.Join(m.Ingredients, ", ")) + "\n")
		}
	}

	if len(plan.Supplements) > 0 {
		sb.WriteString("\n💊 *Supplements*\n")
		for _, s := range plan.Supplements {
			sb.WriteString(fmt.Sprintf("• %s: %s, %s ($%s)\n", md(s.Name), md(s.Dosage), md(s.Timing), s.Price.StringFixed(2)))
		}
	}
	return sb.String()
}

func formatCartMarkdown(items []domain.OrderItem, q checkout.Quote, payment string) string {
	if len(items) == 0 {
		return "🛒 Your cart is empty."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Cart* (%d items)\n\n", q.ItemCount))
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("• %s × %d  $%s\n", md(it.Name), it.Quantity, it.LineTotal().StringFixed(2)))
	}
	sb.WriteString(fmt.Sprintf("\nSubtotal: $%s\n", q.Subtotal.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Delivery (%s): $%s\n", md(q.Vendor.Name), q.DeliveryFee.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Tax: $%s\n", q.Tax.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("*Total: $%s*\n", q.GrandTotal.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("\nDelivery in %s · Payment: %s", md(q.Vendor.DeliveryTime), md(payment)))
	return sb.String()
}

func formatOrdersMarkdown(orders []domain.Order) string {
	if len(orders) == 0 {
		return "📦 No orders yet."
	}
	var sb strings.Builder
	sb.WriteString("📦 *Your Orders*\n\n")
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("*%s* · %s · %s\n", o.CreatedAt.Format("2006-01-02"), md(string(o.Status)), md(string(o.Vendor))))
		sb.WriteString(fmt.Sprintf("%d lines · $%s\n", len(o.Items), o.Total.StringFixed(2)))
		sb.WriteString(emphasize("_", o.DeliveryAddress) + "\n\n")
	}
	return sb.String()
}

func formatItemsMarkdown(res marketplace.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛍 *Marketplace* (showing %d of %d)\n\n", len(res.Items), res.Total))
	if len(res.Items) == 0 {
		sb.WriteString("_No products match._\n")
	}
	for _, it := range res.Items {
		sb.WriteString(fmt.Sprintf("%s by %s\n$%s", emphasize("*", it.Name), md(it.Brand), it.Price.StringFixed(2)))
		if s := marketplace.Savings(it); s.IsPositive() {
			sb.WriteString(fmt.Sprintf(" (save $%s)", s.StringFixed(2)))
		}
		sb.WriteString(fmt.Sprintf(" · ⭐ %.1f (%d)", it.Rating, it.Reviews))
		if !it.InStock {
			sb.WriteString(" · _out of stock_")
		}
		sb.WriteString(fmt.Sprintf("\n`%s`\n\n", it.ID))
	}
	return sb.String()
}

func formatFoodMarkdown(f domain.ScannedFood) string {
	var sb strings.Builder
	sb.WriteString("🔍 " + emphasize("*", f.Name))
	if f.Brand != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", md(f.Brand)))
	}
	sb.WriteString(fmt.Sprintf("\n%d kcal per %s\n", f.Calories, md(f.ServingSize)))
	sb.WriteString(fmt.Sprintf("Protein %.1fg · Carbs %.1fg · Fat %.1fg\n", f.Macros.Protein, f.Macros.Carbs, f.Macros.Fat))
	if f.Confidence > 0 {
		sb.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", f.Confidence*100))
	}
	for _, in := range f.Insights {
		sb.WriteString(fmt.Sprintf("• %s\n", md(in)))
	}
	return sb.String()
}

func formatGoalsMarkdown(goals []domain.Goal) string {
	var sb strings.Builder
	sb.WriteString("🎯 *Choose your goals*\n\n")
	for _, opt := range onboarding.GoalOptions() {
		mark := "⬜"
		for _, g := range goals {
			if g.Type == opt.Type {
				mark = fmt.Sprintf("✅ (%s)", g.Priority)
			}
		}
		sb.WriteString(fmt.Sprintf("%s *%s*\n_%s_\n", mark, opt.Title, opt.Description))
	}
	return sb.String()
}

func formatUsageMarkdown(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	return sb.String()
}

// parseProfile applies `key=value; ...` pairs on top of base. Unknown keys
// and malformed numbers are reported; range checks are left to profile
// validation.
func parseProfile(text string, base onboarding.ProfileInput) (onboarding.ProfileInput, error) {
	in := base
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return in, fmt.Errorf("expected key=value, got %q", part)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "name":
			in.Name = value
		case "email":
			in.Email = value
		case "age":
			in.Age, err = strconv.Atoi(value)
		case "height":
			in.Height, err = strconv.ParseFloat(value, 64)
		case "weight":
			in.Weight, err = strconv.ParseFloat(value, 64)
		case "gender":
			in.Gender = domain.Gender(strings.ToLower(value))
		case "activity", "activity_level":
			in.ActivityLevel = domain.ActivityLevel(strings.ToLower(value))
		case "restrictions", "dietary_restrictions":
			in.DietaryRestrictions = splitList(value)
		case "allergies":
			in.Allergies = splitList(value)
		case "location":
			in.Location = value
		case "bio":
			in.Bio = value
		default:
			return in, fmt.Errorf("unknown profile field %q", key)
		}
		if err != nil {
			return in, fmt.Errorf("invalid %s %q", key, value)
		}
	}
	return in, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatFieldErrors(err error) string {
	fe, ok := err.(onboarding.FieldErrors)
	if !ok {
		return "❌ " + md(err.Error())
	}
	var sb strings.Builder
	sb.WriteString("❌ *Please fix your profile:*\n")
	for _, field := range []string{"name", "email", "age", "height", "weight", "gender", "activity_level"} {
		if msg, ok := fe[field]; ok {
			sb.WriteString(fmt.Sprintf("• %s\n", md(msg)))
		}
	}
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
