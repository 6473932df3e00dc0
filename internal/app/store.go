// Package app holds the single application-state object that every front
// end drives. All mutation goes through Store methods.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"vitalplan/internal/api"
	"vitalplan/internal/cart"
	"vitalplan/internal/checkout"
	"vitalplan/internal/domain"
	"vitalplan/internal/marketplace"
	"vitalplan/internal/metrics"
	"vitalplan/internal/onboarding"
	"vitalplan/internal/planner"
	"vitalplan/internal/scanner"
)

// ErrStale is returned when a plan or scan result arrives after it was
// superseded or cancelled. The result is discarded.
var ErrStale = errors.New("result superseded")

// ErrCartChanged is returned when the cart was modified while an order was
// being submitted to the backend.
var ErrCartChanged = errors.New("cart changed during checkout")

// User-facing notices.
const (
	NoticePlanFailed     = "Failed to generate diet plan. Please try again."
	NoticeOrderPlaced    = "Order placed successfully!"
	NoticeOrderFailed    = "Failed to place order. Please try again."
	NoticeSessionExpired = "Your session has expired. Please log in again."
	noticeAddedFormat    = "%d item(s) added to cart!"
)

// Backend is the subset of the REST client the store syncs through.
type Backend interface {
	CreateOrder(ctx context.Context, o domain.Order) (api.OrderReceipt, error)
}

// PlanSaver archives generated plans.
type PlanSaver interface {
	Save(owner string, plan domain.DietPlan) error
}

// Deps are the collaborators of a Store. Generator and Analyzer are
// required; the rest are optional.
type Deps struct {
	Generator planner.Generator
	Analyzer  scanner.Analyzer
	Camera    scanner.Camera
	Backend   Backend
	Archive   PlanSaver
	// Owner keys archived plans, e.g. "chat-42".
	Owner string
	Clock func() time.Time
}

// Store owns the session state. It is safe for concurrent use; long
// operations run outside the lock and apply their result only if still
// current.
type Store struct {
	deps Deps

	mu            sync.Mutex
	machine       *onboarding.Machine
	user          *domain.User
	profileErrors onboarding.FieldErrors
	cart          []domain.OrderItem
	cartVersion   uint64
	orders        []domain.Order
	vendor        domain.VendorID
	payment       string
	favorites     marketplace.Favorites
	notice        string

	plan        *domain.DietPlan
	planGen     uint64
	planCancel  context.CancelFunc
	planLoading bool

	camera     *scanner.Session
	scan       *domain.ScannedFood
	scanGen    uint64
	scanCancel context.CancelFunc
	analyzing  bool
}

// New creates a Store at Home, step 0, with an empty cart.
func New(deps Deps) *Store {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Store{
		deps:    deps,
		machine: onboarding.New(),
		vendor:  checkout.DefaultVendor,
		payment: checkout.DefaultPaymentMethod,
		camera:  scanner.NewSession(deps.Camera),
	}
}

// State is a deep copy of the store for rendering.
type State struct {
	View          onboarding.View
	Step          onboarding.Step
	EditOnly      bool
	User          *domain.User
	Goals         []domain.Goal
	CanContinue   bool
	ProfileErrors onboarding.FieldErrors

	Cart          []domain.OrderItem
	CartCount     int
	Orders        []domain.Order
	Vendor        domain.VendorID
	PaymentMethod string
	Favorites     []string

	Plan        *domain.DietPlan
	PlanLoading bool

	Scan         *domain.ScannedFood
	Analyzing    bool
	CameraActive bool
	Facing       scanner.Facing
	Banner       string

	Notice string
}

// Snapshot returns a copy of the current state that shares nothing with
// the store.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		View:          s.machine.View(),
		Step:          s.machine.Step(),
		EditOnly:      s.machine.EditOnly(),
		Goals:         cloneGoals(s.machine.Goals()),
		CanContinue:   s.machine.CanContinue(),
		Cart:          append([]domain.OrderItem(nil), s.cart...),
		CartCount:     cart.ItemCount(s.cart),
		Vendor:        s.vendor,
		PaymentMethod: s.payment,
		Favorites:     s.favorites.IDs(),
		PlanLoading:   s.planLoading,
		Analyzing:     s.analyzing,
		CameraActive:  s.camera.Scanning(),
		Facing:        s.camera.Facing(),
		Banner:        s.camera.Banner(),
		Notice:        s.notice,
	}
	if s.user != nil {
		u := cloneUser(*s.user)
		st.User = &u
	}
	if len(s.profileErrors) > 0 {
		st.ProfileErrors = make(onboarding.FieldErrors, len(s.profileErrors))
		for k, v := range s.profileErrors {
			st.ProfileErrors[k] = v
		}
	}
	for _, o := range s.orders {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		st.Orders = append(st.Orders, o)
	}
	if s.plan != nil {
		p := clonePlan(*s.plan)
		st.Plan = &p
	}
	if s.scan != nil {
		f := cloneFood(*s.scan)
		st.Scan = &f
	}
	return st
}

// DismissNotice clears the last notice.
func (s *Store) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}

// SetUser installs a user loaded from the backend, e.g. on session restore.
func (s *Store) SetUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cu := cloneUser(u)
	s.user = &cu
	if len(u.Goals) > 0 {
		s.machine.SetGoals(u.Goals)
	}
}

// HandleUnauthorized ends the session: the user is dropped and the login
// view is shown. It is installed as the API client's 401 hook.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.cancelPlanLocked()
	s.cancelScanLocked()
	_ = s.machine.Navigate(onboarding.ViewLogin)
	s.notice = NoticeSessionExpired
	zap.S().Infow("session expired, navigating to login", "owner", s.deps.Owner)
}

// Close releases the camera and cancels in-flight work.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPlanLocked()
	s.cancelScanLocked()
	return s.camera.Close()
}

// Navigation

// GetStarted restarts onboarding at the profile form.
func (s *Store) GetStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveViewLocked(onboarding.ViewProfile)
	s.machine.GetStarted()
}

// Navigate switches views. Leaving the plans view cancels a pending
// generation; leaving the scanner releases the camera and cancels analysis.
func (s *Store) Navigate(target onboarding.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !target.Valid() {
		return onboarding.ErrUnknownView
	}
	s.leaveViewLocked(target)
	return s.machine.Navigate(target)
}

func (s *Store) leaveViewLocked(target onboarding.View) {
	current := s.machine.View()
	if current == target {
		return
	}
	switch current {
	case onboarding.ViewPlans:
		s.cancelPlanLocked()
	case onboarding.ViewScanner:
		s.cancelScanLocked()
		s.camera.Reset()
	}
}

// Profile and goals

// SubmitProfile validates and saves the profile. Field errors are kept in
// the state for inline display and also returned.
func (s *Store) SubmitProfile(in onboarding.ProfileInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.machine.SubmitProfile(in, s.user, s.deps.Clock())
	if err != nil {
		var fe onboarding.FieldErrors
		if errors.As(err, &fe) {
			s.profileErrors = fe
		}
		return err
	}
	s.profileErrors = nil
	s.user = &u
	return nil
}

// ProfileForm returns the form prefilled from the current user.
func (s *Store) ProfileForm() onboarding.ProfileInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return onboarding.NewProfileInput(s.user)
}

func (s *Store) ToggleGoal(t domain.GoalType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.ToggleGoal(t); err != nil {
		return err
	}
	s.syncUserGoalsLocked()
	return nil
}

// SelectGoals replaces the goal selection, keeping ids of goals that were
// already selected.
func (s *Store) SelectGoals(goals []domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.SelectGoals(goals); err != nil {
		return err
	}
	s.syncUserGoalsLocked()
	return nil
}

func (s *Store) SetGoalPriority(t domain.GoalType, p domain.Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.SetPriority(t, p); err != nil {
		return err
	}
	s.syncUserGoalsLocked()
	return nil
}

// ContinueFromGoals completes onboarding and shows the plans view.
func (s *Store) ContinueFromGoals() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.ContinueFromGoals()
}

func (s *Store) syncUserGoalsLocked() {
	if s.user != nil {
		s.user.Goals = s.machine.Goals()
	}
}

// Cart

// AddToCart validates untyped lines and merges them into the cart. Either
// every line is added or none is.
func (s *Store) AddToCart(raws []cart.RawLine) (int, error) {
	items, err := cart.Lines(raws)
	if err != nil {
		return 0, err
	}
	s.AddItems(items)
	return len(items), nil
}

// AddItems merges already validated lines into the cart.
func (s *Store) AddItems(items []domain.OrderItem) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.Merge(s.cart, items)
	s.cartVersion++
	s.notice = fmt.Sprintf(noticeAddedFormat, len(items))
}

// AddPlanToCart adds every meal and supplement of the current plan.
func (s *Store) AddPlanToCart() (int, error) {
	s.mu.Lock()
	if s.plan == nil {
		s.mu.Unlock()
		return 0, errors.New("no diet plan to add")
	}
	items := cart.PlanLines(*s.plan)
	s.mu.Unlock()

	s.AddItems(items)
	return len(items), nil
}

// AddScanToCart adds the current scan result as a grocery line.
func (s *Store) AddScanToCart() error {
	s.mu.Lock()
	if s.scan == nil {
		s.mu.Unlock()
		return errors.New("no scanned food to add")
	}
	item := cart.ScanLine(*s.scan)
	s.mu.Unlock()

	s.AddItems([]domain.OrderItem{item})
	return nil
}

// AddMarketplaceItem adds qty units of a catalog product.
func (s *Store) AddMarketplaceItem(id string, qty int) error {
	it, err := marketplace.Lookup(id)
	if err != nil {
		return err
	}
	line, err := marketplace.Line(it, qty)
	if err != nil {
		return err
	}
	s.AddItems([]domain.OrderItem{line})
	return nil
}

// ToggleFavorite flips a marketplace favorite and reports the new state.
func (s *Store) ToggleFavorite(id string) bool {
	return s.favorites.Toggle(id)
}

func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.RemoveItem(s.cart, id)
	s.cartVersion++
}

// SetQuantity changes a line's quantity; q ≤ 0 removes it.
func (s *Store) SetQuantity(id string, q int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.SetQuantity(s.cart, id, q)
	s.cartVersion++
}

// Checkout

func (s *Store) SelectVendor(v domain.VendorID) error {
	if _, err := checkout.LookupVendor(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendor = v
	return nil
}

func (s *Store) SelectPaymentMethod(id string) error {
	for _, p := range checkout.PaymentMethods() {
		if p.ID == id {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.payment = id
			return nil
		}
	}
	return fmt.Errorf("%w: %q", checkout.ErrUnknownPayment, id)
}

// Quote prices the cart for the selected vendor.
func (s *Store) Quote() (checkout.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checkout.NewQuote(s.cart, s.vendor)
}

// PlaceOrder turns the cart into a pending order. On success the cart is
// emptied and the order is prepended to the history in one step; on any
// failure neither changes. With a backend configured the order is submitted
// first and only applied once accepted.
func (s *Store) PlaceOrder(ctx context.Context, address string) (domain.Order, error) {
	s.mu.Lock()
	req := checkout.Request{
		Items:         s.cart,
		Vendor:        s.vendor,
		Address:       address,
		PaymentMethod: s.payment,
	}
	if s.user != nil {
		req.UserID = s.user.ID
	}
	version := s.cartVersion
	order, err := checkout.PlaceOrder(req, s.deps.Clock())
	s.mu.Unlock()
	if err != nil {
		return domain.Order{}, err
	}

	if s.deps.Backend != nil {
		receipt, err := s.deps.Backend.CreateOrder(ctx, order)
		if err != nil {
			zap.S().Errorw("failed to submit order", "owner", s.deps.Owner, "error", err)
			if !errors.Is(err, api.ErrUnauthorized) {
				s.setNotice(NoticeOrderFailed)
			}
			return domain.Order{}, err
		}
		if receipt.OrderID != "" {
			order.ID = receipt.OrderID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cartVersion != version {
		return domain.Order{}, ErrCartChanged
	}
	s.cart = nil
	s.cartVersion++
	s.orders = append([]domain.Order{order}, s.orders...)
	s.notice = NoticeOrderPlaced

	total, _ := order.Total.Float64()
	metrics.RecordOrder(string(order.Vendor), total)
	zap.S().Infow("order placed", "owner", s.deps.Owner, "order_id", order.ID, "vendor", order.Vendor, "total", order.Total.StringFixed(2))
	return order, nil
}

func (s *Store) setNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

// Diet plan

// GeneratePlan replaces the current plan. A newer request, navigation away
// from the plans view or ctx cancellation makes this call return ErrStale
// or the context error, and its result is dropped.
func (s *Store) GeneratePlan(ctx context.Context) (domain.DietPlan, error) {
	s.mu.Lock()
	s.cancelPlanLocked()
	s.planGen++
	gen := s.planGen
	runCtx, cancel := context.WithCancel(ctx)
	s.planCancel = cancel
	s.planLoading = true
	goals := s.machine.Goals()
	var user *domain.User
	if s.user != nil {
		u := cloneUser(*s.user)
		user = &u
	}
	s.mu.Unlock()
	defer cancel()

	start := time.Now()
	plan, err := s.deps.Generator.Generate(runCtx, goals, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.planGen {
		metrics.RecordPlan(metrics.OutcomeCancelled, 0)
		return domain.DietPlan{}, ErrStale
	}
	s.planCancel = nil
	s.planLoading = false

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordPlan(metrics.OutcomeCancelled, 0)
			return domain.DietPlan{}, err
		}
		metrics.RecordPlan(metrics.OutcomeError, 0)
		zap.S().Errorw("plan generation failed", "owner", s.deps.Owner, "error", err)
		s.notice = NoticePlanFailed
		return domain.DietPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}

	if user != nil {
		plan.UserID = user.ID
	}
	plan.Goals = goals
	plan = planner.Finalize(plan)
	s.plan = &plan
	metrics.RecordPlan(metrics.OutcomeOK, time.Since(start))

	if s.deps.Archive != nil && s.deps.Owner != "" {
		if err := s.deps.Archive.Save(s.deps.Owner, plan); err != nil {
			zap.S().Warnw("failed to archive plan", "owner", s.deps.Owner, "error", err)
		}
	}
	return clonePlan(plan), nil
}

// CancelPlan abandons a pending generation.
func (s *Store) CancelPlan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPlanLocked()
}

func (s *Store) cancelPlanLocked() {
	if s.planCancel != nil {
		s.planCancel()
		s.planCancel = nil
	}
	if s.planLoading {
		s.planGen++
		s.planLoading = false
	}
}

// Scanner

// StartCamera opens the camera. A failure is reported through the banner
// and the upload path stays available.
func (s *Store) StartCamera(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.Start(ctx)
}

func (s *Store) StopCamera() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.Stop()
}

func (s *Store) SwitchCamera(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.SwitchCamera(ctx)
}

// CaptureAndAnalyze grabs a frame, releases the camera and analyzes it.
func (s *Store) CaptureAndAnalyze(ctx context.Context) (domain.ScannedFood, error) {
	s.mu.Lock()
	img, err := s.camera.Capture()
	s.mu.Unlock()
	if err != nil {
		metrics.RecordScan("camera", metrics.OutcomeError)
		return domain.ScannedFood{}, err
	}
	return s.analyze(ctx, img, "camera")
}

// AnalyzeUpload checks that data is an image and analyzes it.
func (s *Store) AnalyzeUpload(ctx context.Context, data []byte, filename string) (domain.ScannedFood, error) {
	img, err := scanner.NewImage(data, filename)
	if err != nil {
		s.mu.Lock()
		s.camera.SetBanner(scanner.AnalyzeErrorMessage)
		s.mu.Unlock()
		metrics.RecordScan("upload", metrics.OutcomeError)
		return domain.ScannedFood{}, err
	}
	return s.analyze(ctx, img, "upload")
}

func (s *Store) analyze(ctx context.Context, img scanner.Image, source string) (domain.ScannedFood, error) {
	s.mu.Lock()
	s.cancelScanLocked()
	s.scanGen++
	gen := s.scanGen
	runCtx, cancel := context.WithCancel(ctx)
	s.scanCancel = cancel
	s.analyzing = true
	s.camera.SetBanner("")
	s.mu.Unlock()
	defer cancel()

	food, err := s.deps.Analyzer.Analyze(runCtx, img)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.scanGen {
		metrics.RecordScan(source, metrics.OutcomeCancelled)
		return domain.ScannedFood{}, ErrStale
	}
	s.scanCancel = nil
	s.analyzing = false

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordScan(source, metrics.OutcomeCancelled)
			return domain.ScannedFood{}, err
		}
		metrics.RecordScan(source, metrics.OutcomeError)
		zap.S().Errorw("food analysis failed", "owner", s.deps.Owner, "source", source, "error", err)
		s.camera.SetBanner(scanner.AnalyzeErrorMessage)
		return domain.ScannedFood{}, fmt.Errorf("failed to analyze image: %w", err)
	}

	metrics.RecordScan(source, metrics.OutcomeOK)
	s.scan = &food
	return cloneFood(food), nil
}

// ResetScan clears the result and banner and releases the camera.
func (s *Store) ResetScan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelScanLocked()
	s.scan = nil
	s.camera.Reset()
}

func (s *Store) cancelScanLocked() {
	if s.scanCancel != nil {
		s.scanCancel()
		s.scanCancel = nil
	}
	if s.analyzing {
		s.scanGen++
		s.analyzing = false
	}
}
