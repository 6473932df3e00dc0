package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"vitalplan/internal/api"
	"vitalplan/internal/app"
	"vitalplan/internal/database"
	"vitalplan/internal/domain"
	"vitalplan/internal/marketplace"
	"vitalplan/internal/metrics"
	"vitalplan/internal/planner"
	"vitalplan/internal/report"
	"vitalplan/internal/scanner"
)

const localOwner = "local"

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if err := c.client.Login(ctx, api.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	u, err := c.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	u, err := c.client.Register(ctx, api.Registration{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Registered and logged in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	u, err := c.client.RestoreSession(ctx)
	if errors.Is(err, api.ErrNoSession) {
		fmt.Println("Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Printf("Age %d · %.0f cm · %.0f kg · %s\n", u.Age, u.Height, u.Weight, u.ActivityLevel)
	for _, g := range u.Goals {
		fmt.Printf("  goal: %s (%s)\n", g.Title, g.Priority)
	}
	return nil
}

// sessionUser returns the signed-in user, or nil when working offline.
func (c *cli) sessionUser(ctx context.Context) *domain.User {
	u, err := c.client.RestoreSession(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrNoSession) {
			zap.S().Warnw("continuing without session", "error", err)
		}
		return nil
	}
	return &u
}

func ownerOf(u *domain.User) string {
	if u == nil || u.ID == "" {
		return localOwner
	}
	return "user-" + u.ID
}

// parseGoals reads "type[:priority],..." into toggles applied in order.
func parseGoals(s string) ([]domain.Goal, error) {
	var goals []domain.Goal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, p, ok := strings.Cut(part, ":")
		g := domain.Goal{Type: domain.GoalType(t), Priority: domain.PriorityMedium}
		if ok {
			g.Priority = domain.Priority(p)
			if !g.Priority.Valid() {
				return nil, fmt.Errorf("invalid priority %q for goal %s", p, t)
			}
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (c *cli) plan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	goalsFlag := fs.String("goals", "", "comma list of goal[:priority], e.g. muscle-building:high,glowing-skin")
	pdfPath := fs.String("pdf", "", "also write the plan as PDF to this path")
	fs.Parse(args)

	db, err := database.NewDB(c.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	metricsStore := metrics.NewStore(db.SQL)

	generator, closeGenerator, err := app.NewGenerator(ctx, c.cfg, metricsStore)
	if err != nil {
		return err
	}
	defer closeGenerator()

	user := c.sessionUser(ctx)
	store := app.New(app.Deps{
		Generator: generator,
		Analyzer:  app.NewAnalyzer(c.cfg, nil),
		Archive:   c.archive,
		Owner:     ownerOf(user),
	})
	defer store.Close()
	c.client.SetUnauthorizedHook(store.HandleUnauthorized)
	if user != nil {
		store.SetUser(*user)
	}

	requested, err := parseGoals(*goalsFlag)
	if err != nil {
		return err
	}
	// Without --goals the signed-in user's saved goals are used.
	if len(requested) > 0 {
		if err := store.SelectGoals(requested); err != nil {
			return err
		}
	}

	fmt.Println("🧑‍🍳 Generating your diet plan...")
	plan, err := store.GeneratePlan(ctx)
	if err != nil {
		return err
	}
	printPlan(plan)

	if *pdfPath != "" {
		st := store.Snapshot()
		return writePDF(*pdfPath, &plan, st.User, st.Goals)
	}
	return nil
}

func printPlan(plan domain.DietPlan) {
	fmt.Printf("\nDiet plan · %d kcal · P %.0fg · C %.0fg · F %.0fg\n\n",
		plan.TotalCalories, plan.Macros.Protein, plan.Macros.Carbs, plan.Macros.Fat)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, m := range plan.Meals {
		fmt.Fprintf(w, "%s\t%s\t%d kcal\t%d min\n", m.Type, m.Name, m.Calories, m.PrepTime)
	}
	w.Flush()
	if len(plan.Supplements) > 0 {
		fmt.Println("\nSupplements:")
		for _, s := range plan.Supplements {
			fmt.Fprintf(w, "  %s\t%s\t%s\t$%s\n", s.Name, s.Dosage, s.Timing, s.Price.StringFixed(2))
		}
		w.Flush()
	}
}

func writePDF(path string, plan *domain.DietPlan, user *domain.User, goals []domain.Goal) error {
	data, err := report.Export(plan, user, goals)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("📄 Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

func (c *cli) exportPlan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-plan", flag.ExitOnError)
	owner := fs.String("owner", "", "archive owner, e.g. chat-42 (default: the signed-in user or local)")
	out := fs.String("out", "", "output path (default: VitalPlan-Diet-Plan-<date>.pdf)")
	fs.Parse(args)

	user := c.sessionUser(ctx)
	if *owner == "" {
		*owner = ownerOf(user)
	}
	if *out == "" {
		*out = report.FileName(time.Now())
	}

	plan, err := c.archive.Latest(*owner)
	if err != nil {
		return err
	}
	return writePDF(*out, &plan, user, plan.Goals)
}

func (c *cli) catalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	category := fs.String("category", string(marketplace.CategoryAll), "category filter")
	search := fs.String("search", "", "search term")
	sortBy := fs.String("sort", "featured", "featured, price-low, price-high, rating or reviews")
	recommend := fs.String("recommend", "", "rank for goals instead, e.g. healthy-aging:high")
	fs.Parse(args)

	var items []domain.MarketplaceItem
	total := 0
	if *recommend != "" {
		goals, err := parseGoals(*recommend)
		if err != nil {
			return err
		}
		items = marketplace.Recommendations(goals, 0)
		total = len(items)
	} else {
		res := marketplace.Search(marketplace.Query{
			Term:     *search,
			Category: domain.Category(*category),
			Sort:     marketplace.ParseSort(*sortBy),
		})
		items, total = res.Items, res.Total
	}

	fmt.Printf("Showing %d of %d products\n\n", len(items), total)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tRATING\tSTOCK")
	for _, it := range items {
		stock := "yes"
		if !it.InStock {
			stock = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t$%s\t%.1f (%s)\t%s\n", it.ID, it.Name, it.Price.StringFixed(2), it.Rating, humanize.Comma(int64(it.Reviews)), stock)
	}
	return w.Flush()
}

func (c *cli) scan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	camera := fs.String("camera", "", "read frames from this image file as the camera source")
	remote := fs.Bool("remote", false, "analyze with the backend instead of the mock")
	fs.Parse(args)

	var uploader scanner.Uploader
	if *remote {
		if !c.client.HasSession() {
			return api.ErrNoSession
		}
		uploader = c.client
	}
	store := app.New(app.Deps{
		Generator: planner.NewMockGenerator(),
		Analyzer:  app.NewAnalyzer(c.cfg, uploader),
		Camera:    scanner.FileCamera{Default: *camera},
	})
	defer store.Close()
	c.client.SetUnauthorizedHook(store.HandleUnauthorized)

	fmt.Println("🔍 Analyzing...")
	var (
		food domain.ScannedFood
		err  error
	)
	if *camera != "" {
		if err := store.StartCamera(ctx); err != nil {
			return fmt.Errorf("%s: %w", store.Snapshot().Banner, err)
		}
		food, err = store.CaptureAndAnalyze(ctx)
	} else {
		if fs.NArg() != 1 {
			return errors.New("usage: vitalplan scan [--remote] <image> | --camera <image>")
		}
		data, rerr := os.ReadFile(fs.Arg(0))
		if rerr != nil {
			return rerr
		}
		food, err = store.AnalyzeUpload(ctx, data, fs.Arg(0))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", scanner.AnalyzeErrorMessage, err)
	}

	fmt.Printf("%s · %d kcal per %s\n", food.Name, food.Calories, food.ServingSize)
	fmt.Printf("Protein %.1fg · Carbs %.1fg · Fat %.1fg\n", food.Macros.Protein, food.Macros.Carbs, food.Macros.Fat)
	for _, in := range food.Insights {
		fmt.Printf("  • %s\n", in)
	}
	return nil
}

// itemFlags collects repeated --item id[:qty] values.
type itemFlags []string

func (f *itemFlags) String() string     { return strings.Join(*f, ",") }
func (f *itemFlags) Set(v string) error { *f = append(*f, v); return nil }

func (c *cli) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	var items itemFlags
	fs.Var(&items, "item", "marketplace item as id[:qty], repeatable")
	address := fs.String("address", "", "delivery address")
	vendor := fs.String("vendor", "amazon", "amazon, walmart or local")
	payment := fs.String("payment", "card", "card, paypal, apple-pay or google-pay")
	fs.Parse(args)

	deps := app.Deps{
		Generator: planner.NewMockGenerator(),
		Analyzer:  app.NewAnalyzer(c.cfg, nil),
	}
	user := c.sessionUser(ctx)
	if user != nil {
		deps.Backend = c.client
	}
	store := app.New(deps)
	defer store.Close()
	c.client.SetUnauthorizedHook(store.HandleUnauthorized)
	if user != nil {
		store.SetUser(*user)
	}

	for _, raw := range items {
		id, q, _ := strings.Cut(raw, ":")
		qty := 1
		if q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return fmt.Errorf("invalid quantity in %q", raw)
			}
			qty = n
		}
		if err := store.AddMarketplaceItem(id, qty); err != nil {
			return err
		}
	}
	if err := store.SelectVendor(domain.VendorID(*vendor)); err != nil {
		return err
	}
	if err := store.SelectPaymentMethod(*payment); err != nil {
		return err
	}

	q, err := store.Quote()
	if err != nil {
		return err
	}
	fmt.Printf("Subtotal $%s · Delivery $%s · Tax $%s · Total $%s\n",
		q.Subtotal.StringFixed(2), q.DeliveryFee.StringFixed(2), q.Tax.StringFixed(2), q.GrandTotal.StringFixed(2))

	o, err := store.PlaceOrder(ctx, *address)
	if err != nil {
		if st := store.Snapshot(); st.Notice != "" {
			fmt.Println(st.Notice)
		}
		return err
	}
	fmt.Printf("✅ Order %s placed with %s, delivering to %s\n", o.ID, q.Vendor.Name, o.DeliveryAddress)
	return nil
}

func (c *cli) orders(ctx context.Context) error {
	if !c.client.HasSession() {
		return api.ErrNoSession
	}
	orders, err := c.client.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLACED\tSTATUS\tVENDOR\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%s\n", o.ID, humanize.Time(o.CreatedAt), o.Status, o.Vendor, o.Total.StringFixed(2))
	}
	return w.Flush()
}

func (c *cli) metricsCleanup(args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	db, err := database.NewDB(c.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	affected, err := metrics.NewStore(db.SQL).Cleanup(*days)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}
