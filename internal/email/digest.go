package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rokko/warranty-tracker/internal/domain"
)

// DigestDateLayout renders expiry dates as dd/mm/yyyy.
const DigestDateLayout = "02/01/2006"

type digestRow struct {
	Product string
	Brand   string
	Expires string
}

type digestData struct {
	Lang    string
	Heading string
	Text    digestText
	Rows    []digestRow
}

// digestText holds the translated strings of one locale.
type digestText struct {
	Intro   string
	Product string
	Brand   string
	Expires string
	Footer  string

	subject func(n int, lead string) string
	heading func(lead string) string
	lead    func(days int) string
}

var digestTexts = map[string]digestText{
	"en": {
		Intro:   "The following warranties are expiring soon. Log in to Rokko to view details.",
		Product: "Product",
		Brand:   "Brand",
		Expires: "Expires",
		Footer:  "You're receiving this because warranty reminders are enabled in your Rokko account.",
		subject: func(n int, lead string) string {
			noun := "warranty"
			if n != 1 {
				noun = "warranties"
			}
			return fmt.Sprintf("%d %s expiring %s", n, noun, lead)
		},
		heading: func(lead string) string { return "Expiring " + lead },
		lead:    leadTime("today", "in 1 day", "in %d days"),
	},
	"hr": {
		Intro:   "Sljedeće garancije uskoro ističu. Prijavite se u Rokko za detalje.",
		Product: "Proizvod",
		Brand:   "Marka",
		Expires: "Ističe",
		Footer:  "Ovu poruku primate jer su podsjetnici za garancije uključeni u vašem Rokko računu.",
		subject: func(n int, lead string) string { return fmt.Sprintf("Garancije koje ističu %s: %d", lead, n) },
		heading: func(lead string) string { return "Ističe " + lead },
		lead:    leadTime("danas", "za 1 dan", "za %d dana"),
	},
	"sr": {
		Intro:   "Sledeće garancije uskoro ističu. Prijavite se u Rokko za detalje.",
		Product: "Proizvod",
		Brand:   "Marka",
		Expires: "Ističe",
		Footer:  "Ovu poruku primate jer su podsetnici za garancije uključeni u vašem Rokko nalogu.",
		subject: func(n int, lead string) string { return fmt.Sprintf("Garancije koje ističu %s: %d", lead, n) },
		heading: func(lead string) string { return "Ističe " + lead },
		lead:    leadTime("danas", "za 1 dan", "za %d dana"),
	},
	"de": {
		Intro:   "Die folgenden Garantien laufen bald ab. Melden Sie sich bei Rokko an, um Details zu sehen.",
		Product: "Produkt",
		Brand:   "Marke",
		Expires: "Läuft ab",
		Footer:  "Sie erhalten diese E-Mail, weil Garantie-Erinnerungen in Ihrem Rokko-Konto aktiviert sind.",
		subject: func(n int, lead string) string {
			if n == 1 {
				return fmt.Sprintf("1 Garantie läuft %s ab", lead)
			}
			return fmt.Sprintf("%d Garantien laufen %s ab", n, lead)
		},
		heading: func(lead string) string { return "Läuft " + lead + " ab" },
		lead:    leadTime("heute", "in 1 Tag", "in %d Tagen"),
	},
	"si": {
		Intro:   "Naslednje garancije kmalu potečejo. Prijavite se v Rokko za podrobnosti.",
		Product: "Izdelek",
		Brand:   "Znamka",
		Expires: "Poteče",
		Footer:  "To sporočilo prejemate, ker imate v računu Rokko vklopljene opomnike za garancije.",
		subject: func(n int, lead string) string { return fmt.Sprintf("Garancije, ki potečejo %s: %d", lead, n) },
		heading: func(lead string) string { return "Poteče " + lead },
		lead:    leadTime("danes", "čez 1 dan", "čez %d dni"),
	},
}

// textFor returns the strings for locale, falling back to English.
func textFor(locale string) (string, digestText) {
	if t, ok := digestTexts[locale]; ok {
		return locale, t
	}
	return domain.DefaultLocale, digestTexts[domain.DefaultLocale]
}

func leadTime(today, one, many string) func(int) string {
	return func(days int) string {
		switch days {
		case 0:
			return today
		case 1:
			return one
		default:
			return fmt.Sprintf(many, days)
		}
	}
}

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<body style="background:#0a0a0a;font-family:'Helvetica Neue',Arial,sans-serif;margin:0;padding:40px 20px">
  <div style="max-width:560px;margin:0 auto">
    <h1 style="color:#ffffff;font-size:22px;font-weight:700;letter-spacing:6px;text-transform:uppercase;margin-bottom:4px">ROKKO</h1>
    <p style="color:#444;font-size:10px;letter-spacing:3px;text-transform:uppercase;margin-bottom:40px">WARRANTY TRACKER</p>
    <p style="color:#888;font-size:11px;letter-spacing:2px;text-transform:uppercase;margin-bottom:8px">⚠️ {{.Heading}}</p>
    <p style="color:#555;font-size:12px;margin-bottom:24px">{{.Text.Intro}}</p>
    <table style="width:100%;border-collapse:collapse;border:1px solid #1a1a1a">
      <thead>
        <tr style="background:#111">
          <th style="padding:10px 16px;text-align:left;color:#444;font-size:10px">{{.Text.Product}}</th>
          <th style="padding:10px 16px;text-align:left;color:#444;font-size:10px">{{.Text.Brand}}</th>
          <th style="padding:10px 16px;text-align:left;color:#444;font-size:10px">{{.Text.Expires}}</th>
        </tr>
      </thead>
      <tbody>
{{- range .Rows}}
        <tr>
          <td style="padding:12px 16px;border-bottom:1px solid #1a1a1a;color:#ffffff">{{.Product}}</td>
          <td style="padding:12px 16px;border-bottom:1px solid #1a1a1a;color:#888888">{{.Brand}}</td>
          <td style="padding:12px 16px;border-bottom:1px solid #1a1a1a;color:#ff3131">{{.Expires}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
    <p style="color:#333;font-size:10px;margin-top:40px">{{.Text.Footer}}</p>
  </div>
</body>
</html>
`))

// DigestSubject builds the subject line for n warranties expiring in days,
// in the given locale. Unknown locales get English.
func DigestSubject(locale string, n, days int) string {
	_, t := textFor(locale)
	return "⚠️ " + t.subject(n, t.lead(days))
}

// RenderDigest renders the HTML body of a reminder digest. Missing brands
// are shown as an em dash.
func RenderDigest(locale string, warranties []*domain.Warranty, days int) (string, error) {
	lang, t := textFor(locale)
	data := digestData{
		Lang:    lang,
		Heading: t.heading(t.lead(days)),
		Text:    t,
		Rows:    make([]digestRow, 0, len(warranties)),
	}
	for _, w := range warranties {
		brand := "—"
		if w.Brand != nil && *w.Brand != "" {
			brand = *w.Brand
		}
		data.Rows = append(data.Rows, digestRow{
			Product: w.ProductName,
			Brand:   brand,
			Expires: w.WarrantyExpires.Format(DigestDateLayout),
		})
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
