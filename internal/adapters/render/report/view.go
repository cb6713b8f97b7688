package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type BalanceReport struct {
	Account domain.Account
	Balance domain.Balance
}

type AccountsReport struct {
	Accounts []domain.Account
	ActiveID domain.AccountID
}

type CountriesReport struct {
	Countries []domain.Country
}

type ApplicationsReport struct {
	Applications []domain.Application
}

type PricesReport struct {
	Table domain.PriceTable
}

type LimitsReport struct {
	Rows []domain.LimitRow
}

type RentalsReport struct {
	Rentals []domain.Rental
}

type HistoryReport struct {
	Records []domain.HistoryRecord
	// Scope names the account the history belongs to; empty means all accounts.
	Scope string
}

func (r BalanceReport) render(s styles, _ Options) string {
	lines := []string{
		s.title.Render("Balance"),
		s.account.Render(accountTitle(r.Account)),
		s.detail.Render("balance: ") + s.money.Render(r.Balance.Balance.StringFixed(2)),
		s.detail.Render("hold:    ") + s.money.Render(r.Balance.Hold.StringFixed(2)),
		s.detail.Render(fmt.Sprintf("channels: %d/%d active", r.Balance.ActiveChannels, r.Balance.Channels)),
	}
	if rating := strings.TrimSpace(r.Balance.Rating); rating != "" {
		lines = append(lines, s.detail.Render("rating: "+rating))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r AccountsReport) render(s styles, opts Options) string {
	lines := []string{
		s.title.Render("Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(r.Accounts))),
	}
	if len(r.Accounts) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured. Add one with `smsman account add`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([][]string, 0, len(r.Accounts))
	for _, account := range r.Accounts {
		marker := " "
		label := s.detail.Render(account.Label)
		if account.ID == r.ActiveID {
			marker = s.active.Render("*")
			label = s.active.Render(account.Label)
		}
		token := s.muted.Render("stored")
		if !account.HasToken() {
			token = s.warning.Render("missing")
		}
		rows = append(rows, []string{marker, label, s.muted.Render(string(account.ID)), token, s.muted.Render(formatAge(account.CreatedAt, opts.Now))})
	}

	lines = append(lines, s.section.Render(table(s, []string{"", "LABEL", "ID", "TOKEN", "ADDED"}, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r CountriesReport) render(s styles, _ Options) string {
	rows := make([][]string, 0, len(r.Countries))
	for _, country := range r.Countries {
		rows = append(rows, []string{strconv.Itoa(int(country.ID)), country.Code, country.Title})
	}
	return catalogView(s, "Countries", rows)
}

func (r ApplicationsReport) render(s styles, _ Options) string {
	rows := make([][]string, 0, len(r.Applications))
	for _, app := range r.Applications {
		rows = append(rows, []string{strconv.Itoa(int(app.ID)), app.Code, app.Title})
	}
	return catalogView(s, "Services", rows)
}

func catalogView(s styles, title string, rows [][]string) string {
	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("entries: %d", len(rows))),
	}
	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("Nothing available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(table(s, []string{"ID", "CODE", "NAME"}, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r PricesReport) render(s styles, _ Options) string {
	lines := []string{s.title.Render("Prices")}
	if r.Table.Shape == domain.PriceShapeEmpty || len(r.Table.Rows) == 0 {
		lines = append(lines, s.empty.Render("No prices available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([][]string, 0, len(r.Table.Rows))
	for _, row := range r.Table.Rows {
		rows = append(rows, []string{
			row.CountryName,
			row.ApplicationName,
			s.money.Render(row.Cost.StringFixed(2)),
			strconv.Itoa(row.Count),
		})
	}

	lines = append(lines,
		s.header.Render(fmt.Sprintf("rows: %d", len(rows))),
		s.section.Render(table(s, []string{"COUNTRY", "SERVICE", "COST", "NUMBERS"}, rows)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r LimitsReport) render(s styles, _ Options) string {
	lines := []string{s.title.Render("Availability")}
	if len(r.Rows) == 0 {
		lines = append(lines, s.empty.Render("No availability data."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	most := 0
	for _, row := range r.Rows {
		if row.Numbers > most {
			most = row.Numbers
		}
	}

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		count := lipgloss.NewStyle().Foreground(interpolateColor(float64(row.Numbers), 0, float64(most))).Render(strconv.Itoa(row.Numbers))
		rows = append(rows, []string{row.CountryName, row.ApplicationName, renderProgressBar(row.Numbers, most, 16, s), count})
	}

	lines = append(lines, s.section.Render(table(s, []string{"COUNTRY", "SERVICE", "", "NUMBERS"}, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r RentalsReport) render(s styles, opts Options) string {
	lines := []string{
		s.title.Render("Active rentals"),
		s.header.Render(fmt.Sprintf("rentals: %d", len(r.Rentals))),
	}
	if len(r.Rentals) == 0 {
		lines = append(lines, s.empty.Render("No active rentals."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([][]string, 0, len(r.Rentals))
	for _, rental := range r.Rentals {
		rows = append(rows, []string{
			strconv.FormatInt(int64(rental.RequestID), 10),
			s.number.Render(domain.FormatNumber(rental.Number)),
			rental.ServiceName,
			rental.CountryName,
			statusBadge(rental.Status),
			codeCell(s, rental.SMSCode),
			s.muted.Render(formatAge(rental.CreatedAt, opts.Now)),
		})
	}

	lines = append(lines, s.section.Render(table(s, []string{"REQUEST", "NUMBER", "SERVICE", "COUNTRY", "STATUS", "CODE", "CREATED"}, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r HistoryReport) render(s styles, opts Options) string {
	header := fmt.Sprintf("records: %d", len(r.Records))
	if r.Scope != "" {
		header += " (" + r.Scope + ")"
	}
	lines := []string{
		s.title.Render("History"),
		s.header.Render(header),
	}
	if len(r.Records) == 0 {
		lines = append(lines, s.empty.Render("No history yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([][]string, 0, len(r.Records))
	for _, record := range r.Records {
		rows = append(rows, []string{
			s.muted.Render(formatAge(record.ResolvedAt, opts.Now)),
			s.number.Render(domain.FormatNumber(record.Number)),
			record.ServiceName,
			record.CountryName,
			statusBadge(record.Status),
			codeCell(s, record.SMSCode),
		})
	}

	lines = append(lines, s.section.Render(table(s, []string{"RESOLVED", "NUMBER", "SERVICE", "COUNTRY", "STATUS", "CODE"}, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func table(s styles, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = s.column.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), " ")
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(headers, s.header))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountTitle(account domain.Account) string {
	label := strings.TrimSpace(account.Label)
	if label == "" {
		return string(account.ID)
	}
	return fmt.Sprintf("%s (%s)", label, account.ID)
}

func statusBadge(status domain.RentalStatus) string {
	return lipgloss.NewStyle().Bold(true).Foreground(StatusColor(string(status))).Render(string(status))
}

func codeCell(s styles, code string) string {
	if code == "" {
		return s.muted.Render("-")
	}
	return s.code.Render(code)
}

func renderProgressBar(value, max, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if max > 0 {
		filled = int(math.Round(float64(width) * float64(value) / float64(max)))
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

// FormatAge renders at relative to now, or as a timestamp when now is zero.
func FormatAge(at, now time.Time) string {
	return formatAge(at, now)
}

func formatAge(at, now time.Time) string {
	if at.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return at.Format("2006-01-02 15:04")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// 240 (faded grey) at min up to 255 (bright white) at max.
	return lipgloss.Color(strconv.Itoa(int(240 + 15*normalized)))
}
