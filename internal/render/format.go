package render

import (
	"html"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// jakarta is used for display dates; falls back to a fixed +07:00 zone when
// tzdata is unavailable.
var jakarta = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}()

// FormatNumber groups digits the way id-ID does: 5000000 -> "5.000.000".
func FormatNumber(n int64) string {
	return idPrinter.Sprintf("%d", n)
}

// FormatRupiah renders "IDR 5.000.000".
func FormatRupiah(n int64) string {
	return "IDR " + FormatNumber(n)
}

// FormatDate renders a long Indonesian date, e.g. "2 Januari 2025".
func FormatDate(t time.Time) string {
	t = t.In(jakarta)
	return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatDateOr formats t, or returns fallback when t is nil or zero.
func FormatDateOr(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return FormatDate(*t)
}

// Escape makes s safe for HTML text and attribute positions.
func Escape(s string) string {
	return html.EscapeString(s)
}
