// Package report renders a diet plan as a printable A4 PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"vitalplan/internal/domain"
)

var ErrNoPlan = errors.New("no diet plan to export")

const (
	marginLeft  = 20.0
	marginRight = 20.0
	indent      = 25.0
	topY        = 20.0
	lineReserve = 10.0
	fontFamily  = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	accent = rgb{16, 185, 129}
	muted  = rgb{75, 85, 99}
	ink    = rgb{17, 24, 39}
)

// FileName is the suggested download name for a plan exported on date.
func FileName(date time.Time) string {
	return fmt.Sprintf("VitalPlan-Diet-Plan-%s.pdf", date.Format("2006-01-02"))
}

// Export renders plan for user. It does no I/O; the caller decides where the
// bytes go.
func Export(plan *domain.DietPlan, user *domain.User, goals []domain.Goal) ([]byte, error) {
	doc, err := render(plan, user, goals)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writer tracks the vertical cursor and breaks pages. maxY is the lowest
// baseline written so far.
type writer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	y      float64
	maxY   float64
}

func (w *writer) style(size float64, c rgb) {
	w.pdf.SetFont(fontFamily, "", size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *writer) put(x float64, s string, advance float64) {
	w.pdf.Text(x, w.y, s)
	w.maxY = max(w.maxY, w.y)
	w.y += advance
}

func (w *writer) text(x float64, s string, advance float64) {
	w.put(x, w.tr(s), advance)
}

// wrapped writes s broken to the printable width, starting a new page
// whenever the next line would not fit.
func (w *writer) wrapped(x float64, s string, advance float64) {
	for _, line := range w.pdf.SplitText(w.tr(s), w.width-marginRight-x) {
		w.ensure(lineReserve)
		w.put(x, line, advance)
	}
}

func (w *writer) centered(s string, advance float64) {
	s = w.tr(s)
	w.put((w.width-w.pdf.GetStringWidth(s))/2, s, advance)
}

// ensure starts a new page when the cursor is within reserve of the bottom.
func (w *writer) ensure(reserve float64) {
	if w.y > w.height-reserve {
		w.pdf.AddPage()
		w.y = topY
	}
}

func render(plan *domain.DietPlan, user *domain.User, goals []domain.Goal) (*fpdf.Fpdf, error) {
	w, err := layout(plan, user, goals)
	if err != nil {
		return nil, err
	}
	return w.pdf, nil
}

func layout(plan *domain.DietPlan, user *domain.User, goals []domain.Goal) (*writer, error) {
	if plan == nil {
		return nil, ErrNoPlan
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("VitalPlan Diet Plan", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	w := &writer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  width,
		height: height,
		y:      topY,
	}

	name := "User"
	if user != nil && user.Name != "" {
		name = user.Name
	}

	w.style(24, accent)
	w.centered("Your Personalized Diet Plan", 15)

	w.style(12, muted)
	w.text(marginLeft, "Generated for: "+name, 8)
	w.text(marginLeft, "Date: "+plan.GeneratedAt.Format("January 2, 2006"), 15)

	w.style(16, ink)
	w.text(marginLeft, "Your Goals:", 10)
	w.style(11, ink)
	for _, g := range goals {
		w.wrapped(indent, fmt.Sprintf("• %s (%s priority)", g.Title, g.Priority), 6)
	}
	w.y += 10

	w.ensure(50)
	w.style(16, ink)
	w.text(marginLeft, "Daily Nutrition Summary:", 10)
	w.style(11, ink)
	w.text(indent, fmt.Sprintf("Total Calories: %d", plan.TotalCalories), 6)
	w.text(indent, fmt.Sprintf("Protein: %gg", plan.Macros.Protein), 6)
	w.text(indent, fmt.Sprintf("Carbohydrates: %gg", plan.Macros.Carbs), 6)
	w.text(indent, fmt.Sprintf("Fat: %gg", plan.Macros.Fat), 15)

	w.ensure(50)
	w.style(16, ink)
	w.text(marginLeft, "Meal Plan:", 10)
	for _, m := range plan.Meals {
		w.ensure(40)
		writeMeal(w, m)
	}

	w.ensure(60)
	w.style(16, ink)
	w.text(marginLeft, "Recommended Supplements:", 10)
	for _, s := range plan.Supplements {
		w.ensure(30)
		w.style(12, accent)
		w.text(marginLeft, s.Name, 6)
		w.style(10, muted)
		w.text(marginLeft, "Dosage: "+s.Dosage, 4)
		w.text(marginLeft, "Timing: "+s.Timing, 4)
		w.wrapped(marginLeft, "Benefits: "+strings.Join(s.Benefits, ", "), 4)
		w.y += 6
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return w, nil
}

func writeMeal(w *writer, m domain.Meal) {
	w.style(14, accent)
	w.text(marginLeft, fmt.Sprintf("%s: %s", titleCase(string(m.Type)), m.Name), 8)

	w.style(10, muted)
	w.text(marginLeft, fmt.Sprintf("%d calories | Prep time: %d min | Difficulty: %s", m.Calories, m.PrepTime, m.Difficulty), 8)

	w.text(marginLeft, "Ingredients:", 5)
	for _, ing := range m.Ingredients {
		w.wrapped(indent, "• "+ing, 4)
	}
	w.y += 8

	if len(m.Instructions) > 0 {
		w.ensure(20)
		w.text(marginLeft, "Instructions:", 5)
		for i, step := range m.Instructions {
			w.wrapped(indent, fmt.Sprintf("%d. %s", i+1, step), 4)
		}
	}
	w.y += 10
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
