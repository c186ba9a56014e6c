package seed

import (
	"time"

	"github.com/shisei-sport/clubsite/content"
	rt "github.com/shisei-sport/clubsite/richtext"
)

// Demo returns the sample club content used for local development.
func Demo(now time.Time) []content.Draft {
	day := func(n int) time.Time { return now.AddDate(0, 0, -n).Truncate(time.Hour) }

	return []content.Draft{
		{
			Collection: content.CollectionNews, ID: "clubkampioenschap", Locale: "nl",
			Title: "Clubkampioenschap", Slug: "clubkampioenschap", PublishedAt: day(2), Published: true,
			Body: rt.NewRoot(
				rt.P(
					rt.T("Op zaterdag strijden alle jeugdleden om de titel van "),
					rt.T("clubkampioen", rt.FormatBold),
					rt.T(". Ouders en supporters zijn van harte welkom in de sporthal."),
				),
				rt.H("h2", rt.T("Programma")),
				rt.OL(
					rt.LI(rt.T("09:00 weging")),
					rt.LI(rt.T("10:00 poules tot 12 jaar")),
					rt.LI(rt.T("13:30 finales")),
				),
				rt.P(rt.T("Inschrijven kan via de "), rt.A("/contact", false, rt.T("contactpagina")), rt.T(".")),
			),
		},
		{
			Collection: content.CollectionNews, ID: "clubkampioenschap", Locale: "en",
			Title: "Club championship", Slug: "clubkampioenschap", PublishedAt: day(2), Published: true,
			Body: rt.NewRoot(
				rt.P(
					rt.T("On Saturday all youth members compete for the title of "),
					rt.T("club champion", rt.FormatBold),
					rt.T(". Parents and supporters are welcome."),
				),
			),
		},
		{
			Collection: content.CollectionNews, ID: "nieuwe-dojo", Locale: "nl",
			Title: "Nieuwe matten in de dojo", Slug: "nieuwe-dojo", PublishedAt: day(12), Published: true,
			Body: rt.NewRoot(
				rt.P(rt.T("Dankzij de sponsoractie liggen er sinds deze week nieuwe tatami in de dojo.")),
				rt.Q(rt.T("Veilig vallen begint bij goede matten.", rt.FormatItalic)),
				rt.VideoEmbed(map[string]any{
					"url":         "https://www.youtube.com/watch?v=k3Jd8Xq2pLm",
					"title":       "Ukemi oefeningen",
					"description": "Valtechnieken voor beginners.",
				}),
			),
		},
		{
			Collection: content.CollectionEvents, ID: "zomerkamp", Locale: "nl",
			Title: "Zomerkamp", Slug: "zomerkamp", PublishedAt: day(5), Published: true,
			Body: rt.NewRoot(
				rt.P(rt.T("Drie dagen judo, spel en kampvuur voor leden van 8 tot 16 jaar.")),
				rt.UL(rt.LI(rt.T("Slaapzak")), rt.LI(rt.T("Judopak")), rt.LI(rt.T("Zaklamp"))),
				rt.P(rt.A("https://www.judobond.nl", true, rt.T("Meer over de judobond"))),
			),
		},
		{
			Collection: content.CollectionInstructors, ID: "sensei-jan", Locale: "nl",
			Title: "Sensei Jan", Slug: "sensei-jan", PublishedAt: day(60), Published: true,
			Body: rt.NewRoot(
				rt.P(rt.T("Jan geeft sinds 1998 les en is houder van de "), rt.T("4e dan", rt.FormatBold), rt.T(".")),
			),
		},
	}
}
