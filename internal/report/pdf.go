package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/wafreport/wafreport/internal/baseline"
	"github.com/wafreport/wafreport/internal/models"
)

const (
	defaultFontFamily = "Helvetica"
	utf8FontFamily    = "report"
)

// pdfWriter renders one weekly report document.
type pdfWriter struct {
	meta  models.Metadata
	stats *models.Statistics
	delta *baseline.Delta

	// fontPath points to a TTF with CJK coverage. The core fonts only
	// encode cp1252, so Chinese application and location names need a
	// registered UTF-8 font to render.
	fontPath string

	font       string
	noCompress bool
}

func (pw *pdfWriter) render() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!pw.noCompress)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("%s WAF Weekly Report", pw.meta.ProjectName), true)
	pdf.SetAuthor(pw.meta.ReportOwner, true)
	// Fixed at the reporting instant so the same input always produces
	// the same bytes.
	pdf.SetCreationDate(pw.meta.GeneratedAt)
	pdf.SetModificationDate(pw.meta.GeneratedAt)
	pdf.SetAutoPageBreak(true, 20)

	pw.font = defaultFontFamily
	if pw.fontPath != "" {
		if _, err := os.Stat(pw.fontPath); err == nil {
			pdf.AddUTF8Font(utf8FontFamily, "", pw.fontPath)
			pdf.AddUTF8Font(utf8FontFamily, "B", pw.fontPath)
			pdf.AddUTF8Font(utf8FontFamily, "I", pw.fontPath)
			pw.font = utf8FontFamily
		} else {
			slog.Warn("report font not found, using core fonts", "path", pw.fontPath)
		}
	}

	pw.addCover(pdf)
	pw.addProtectionSummary(pdf)
	pw.addApplications(pdf)
	pw.addGeoAccess(pdf)
	pw.addSourceAccess(pdf)
	if err := pw.addAttackTypes(pdf); err != nil {
		return nil, err
	}
	pw.addAttackers(pdf)
	pw.addUncaught(pdf)
	pw.addReportInfo(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (pw *pdfWriter) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(pw.font, "B", 14)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, 10, "  "+title, "", 1, "L", true, 0, "")
	pdf.Ln(4)
}

func (pw *pdfWriter) addCover(pdf *gofpdf.Fpdf) {
	pdf.AddPage()

	pdf.Ln(30)
	pdf.SetFont(pw.font, "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 12, pw.meta.ProjectName, "", 1, "C", false, 0, "")
	pdf.SetFont(pw.font, "B", 16)
	pdf.CellFormat(0, 10, "Web Application Firewall Weekly Report", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont(pw.font, "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 7, fmt.Sprintf("Reporting period: %s to %s", pw.meta.PeriodStart, pw.meta.PeriodEnd), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Prepared for: "+pw.meta.ReportOwner, "", 1, "C", false, 0, "")

	rate := pw.stats.Summary.InterceptRate()
	grade := protectionGrade(rate)
	color := gradeColor(grade)

	pdf.Ln(12)
	pdf.SetFont(pw.font, "B", 48)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.CellFormat(0, 24, grade, "", 1, "C", false, 0, "")
	pdf.SetFont(pw.font, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Attack interception rate: %s%%", pw.stats.Summary.InterceptRateString()), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont(pw.font, "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"During this period the firewall served %d requests across %d protected applications, "+
			"denied %d malicious requests and blocked %d blacklisted sources. %s",
		pw.stats.Summary.TotalRequests, len(pw.stats.Applications),
		pw.stats.Summary.TotalDenied, pw.stats.Summary.BlacklistDenied,
		postureSummary(rate)), "", "C", false)
}

func (pw *pdfWriter) addProtectionSummary(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Protection Summary")

	s := pw.stats.Summary
	rows := []struct {
		label string
		value string
	}{
		{"Total requests", fmt.Sprintf("%d", s.TotalRequests)},
		{"Denied requests", fmt.Sprintf("%d", s.TotalDenied)},
		{"Blacklist denials", fmt.Sprintf("%d", s.BlacklistDenied)},
		{"Attacks not blocked", fmt.Sprintf("%d", s.Uncaught)},
		{"Interception rate", s.InterceptRateString() + "%"},
	}

	pdf.SetFont(pw.font, "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(80, 8, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "This Period", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 10)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(80, 7, row.label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 7, row.value, "1", 1, "C", true, 0, "")
	}

	if pw.delta != nil {
		pdf.Ln(5)
		pdf.SetFont(pw.font, "B", 11)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(0, 8, fmt.Sprintf("Change since the period ending %s", pw.delta.PeriodEnd), "", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont(pw.font, "", 10)
		deltaRows := []struct {
			label string
			value string
			good  bool
		}{
			{"Requests", signedCount(pw.delta.Requests), true},
			{"Denied requests", signedCount(pw.delta.Denied), true},
			{"Attacks not blocked", signedCount(pw.delta.Uncaught), pw.delta.Uncaught <= 0},
			{"Interception rate", fmt.Sprintf("%+.2f pp", pw.delta.InterceptRate), pw.delta.InterceptRate >= 0},
		}
		for _, row := range deltaRows {
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(80, 7, row.label, "1", 0, "L", false, 0, "")
			if row.good {
				pdf.SetTextColor(22, 163, 74)
			} else {
				pdf.SetTextColor(220, 38, 38)
			}
			pdf.CellFormat(50, 7, row.value, "1", 1, "C", false, 0, "")
		}
	}
}

func (pw *pdfWriter) addApplications(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Protected Applications")

	if len(pw.stats.Applications) == 0 {
		pw.addEmptyNote(pdf, "No applications were active during this period.")
		return
	}

	pdf.SetFont(pw.font, "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(45, 8, "Application", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Domains", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Ports", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Requests", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 8, "Denied", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 9)
	for i, app := range pw.stats.Applications {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(45, 7, truncate(app.Name, 26), "1", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, truncate(app.Domains, 38), "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 7, truncate(app.Ports, 10), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", app.Requests), "1", 0, "C", true, 0, "")
		if app.Denied > 0 {
			pdf.SetTextColor(220, 38, 38)
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", app.Denied), "1", 1, "C", true, 0, "")
	}
}

func (pw *pdfWriter) addGeoAccess(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Top Visitor Locations")

	if len(pw.stats.GeoTop) == 0 {
		pw.addEmptyNote(pdf, "No geographic access data was recorded during this period.")
		return
	}

	pdf.SetFont(pw.font, "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(15, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 8, "Location", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Requests", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 10)
	for i, geo := range pw.stats.GeoTop {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(110, 7, truncate(geo.Location(), 60), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", geo.Requests), "1", 1, "C", true, 0, "")
	}
}

func (pw *pdfWriter) addSourceAccess(pdf *gofpdf.Fpdf) {
	pdf.Ln(8)
	pw.addSectionHeader(pdf, "Top Source Addresses")

	if len(pw.stats.SourceTop) == 0 {
		pw.addEmptyNote(pdf, "No per-address access data was recorded during this period.")
		return
	}

	pdf.SetFont(pw.font, "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(15, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 8, "Source IP", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Requests", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 10)
	for i, src := range pw.stats.SourceTop {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(110, 7, src.IP, "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", src.Requests), "1", 1, "C", true, 0, "")
	}
}

func (pw *pdfWriter) addAttackTypes(pdf *gofpdf.Fpdf) error {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Attack Type Distribution")

	if len(pw.stats.AttackTypes) == 0 {
		pw.addEmptyNote(pdf, "No attacks were observed during this period.")
		return nil
	}

	png, err := attackTypePieChart(pw.stats.AttackTypes)
	if err != nil {
		return err
	}
	if png != nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("attack-types", opts, bytes.NewReader(png))
		pageW, _ := pdf.GetPageSize()
		size := 110.0
		pdf.ImageOptions("attack-types", (pageW-size)/2, pdf.GetY(), size, size, true, opts, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont(pw.font, "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(110, 8, "Attack Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Attacks", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 10)
	for i, at := range pw.stats.AttackTypes {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(110, 7, at.Name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", at.Count), "1", 1, "C", true, 0, "")
	}
	return nil
}

func (pw *pdfWriter) addAttackers(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Top Attacking Addresses")

	if len(pw.stats.AttackerTop) == 0 {
		pw.addEmptyNote(pdf, "No attacking addresses were recorded during this period.")
		return
	}

	pdf.SetFont(pw.font, "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(15, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "Source IP", "1", 0, "L", true, 0, "")
	pdf.CellFormat(75, 8, "Attack Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Attacks", "1", 1, "C", true, 0, "")

	pdf.SetFont(pw.font, "", 10)
	for i, atk := range pw.stats.AttackerTop {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 7, atk.IP, "1", 0, "L", true, 0, "")
		pdf.CellFormat(75, 7, truncate(atk.TypeName, 42), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", atk.Count), "1", 1, "C", true, 0, "")
	}
}

func (pw *pdfWriter) addUncaught(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Attacks Not Blocked")

	if len(pw.stats.Uncaught) == 0 {
		pdf.SetFont(pw.font, "", 10)
		pdf.SetTextColor(22, 163, 74)
		pdf.CellFormat(0, 8, "Every observed attack in this period was blocked.", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont(pw.font, "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, "The firewall observed the following attacks but did not block them. "+
		"Each entry should be reviewed and either covered by a rule or marked as accepted.", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(pw.font, "B", 8)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(28, 8, "Time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Application", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Source IP", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Target", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Attack Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Origin", "1", 1, "L", true, 0, "")

	pdf.SetFont(pw.font, "", 8)
	for i, ua := range pw.stats.Uncaught {
		if i%2 == 0 {
			pdf.SetFillColor(255, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		target := ua.Host + ua.Path
		origin := ua.Country
		if ua.City != "" {
			origin += " " + ua.City
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(28, 7, ua.OccurredAt.Format("01-02 15:04"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, truncate(ua.Application, 18), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, truncate(ua.SourceIP, 18), "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 7, truncate(target, 26), "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, 7, truncate(ua.TypeName, 22), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, truncate(origin, 18), "1", 1, "L", true, 0, "")
	}
}

func (pw *pdfWriter) addReportInfo(pdf *gofpdf.Fpdf) {
	pdf.Ln(12)
	pdf.SetFont(pw.font, "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s for %s. Reporting window: %s to %s (%d days).",
		pw.meta.GeneratedAt.Format("2006-01-02 15:04 MST"), pw.meta.ReportOwner,
		pw.meta.PeriodStart, pw.meta.PeriodEnd, pw.meta.LookbackDays), "", 1, "L", false, 0, "")
	if pw.meta.Version != "" {
		pdf.CellFormat(0, 5, "wafreport "+pw.meta.Version, "", 1, "L", false, 0, "")
	}
}

func (pw *pdfWriter) addEmptyNote(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont(pw.font, "I", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}

// truncate shortens s to at most maxLen runes. Location and application
// names are frequently CJK, so the cut must never land inside a
// multibyte sequence.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
