package views

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// HomeData is what the home page shows.
type HomeData struct {
	Slides   []lekka.SlideItem
	Interval time.Duration
}

// HomePage renders the landing page: beta banner, hero and screenshot carousel.
func HomePage(d HomeData) g.Node {
	return page(pageProps{
		description: "Labour Lekka helps small businesses manage workers, attendance and payments reliably, even when you're offline.",
	},
		siteNav(
			A(Href(PathTeam), g.Text("Team")),
			A(Href(PathPrivacy), g.Text("Privacy Policy")),
		),
		Main(
			betaBanner(),
			Section(Class("hero"),
				heroCard(),
				carousel(d),
			),
		),
		siteFooter(),
		Script(Src(Asset("scripts/carousel.js")), Defer()),
	)
}

func betaBanner() g.Node {
	return Div(Class("beta-banner"), Role("note"),
		H3(g.Text("Beta Testing Phase")),
		P(
			g.Text("Labour Lekka is currently in closed beta testing. We're working hard to deliver a stable, reliable experience."),
			Span(Class("cta"), g.Text("Request access now to become an early tester and help us build the best labour management solution!")),
		),
	)
}

func heroCard() g.Node {
	return Div(Class("hero-card"),
		H1(g.Text("Manage labour, even offline")),
		P(g.Text("Labour Lekka helps small businesses manage workers, attendance and payments reliably, even when you're offline.")),
		Div(Class("hero-actions"),
			A(Href(lekka.PlayStoreURL), Target("_blank"), Rel("noopener noreferrer"),
				Aria("label", "Download Labour Lekka on Google Play"),
				Img(Src(Asset("google-play-badge.svg")), Alt("Get it on Google Play")),
			),
			A(Class("request-access"), Href(lekka.RequestAccessURL), g.Text("Request access")),
		),
		P(Class("fine-print"), g.Text("(Closed test, selected users only)")),
	)
}

// carousel renders every slide; only the active one is opaque.
func carousel(d HomeData) g.Node {
	if len(d.Slides) == 0 {
		return nil
	}

	interval := d.Interval
	if interval <= 0 {
		interval = lekka.DefaultInterval
	}

	from := "?slide=" + strconv.Itoa(lekka.ActiveIndex(d.Slides))

	return Div(
		Div(Class("carousel"), Data("interval", strconv.FormatInt(interval.Milliseconds(), 10)),
			Aria("roledescription", "carousel"),
			g.Map(d.Slides, func(s lekka.SlideItem) g.Node {
				return Div(
					activeClass("slide", s.Active),
					Data("index", strconv.Itoa(s.Index)),
					Img(Src(Asset(s.Src)), Alt(s.Alt), Loading("lazy")),
				)
			}),
		),
		Div(Class("carousel-controls"),
			carouselButton(PathCarousel+"/prev"+from, "prev", "Previous screenshot", g.Raw("&lsaquo;")),
			g.Map(d.Slides, func(s lekka.SlideItem) g.Node {
				return Form(Method("post"), Action(PathCarousel+"/"+strconv.Itoa(s.Index)),
					Button(Type("submit"),
						activeClass("dot", s.Active),
						Data("index", strconv.Itoa(s.Index)),
						Aria("label", "Show screenshot "+strconv.Itoa(s.Index+1)),
						g.Raw("&bull;"),
					),
				)
			}),
			carouselButton(PathCarousel+"/next"+from, "next", "Next screenshot", g.Raw("&rsaquo;")),
		),
	)
}

func carouselButton(action, step, label string, glyph g.Node) g.Node {
	return Form(Method("post"), Action(action), Data("step", step),
		Button(Type("submit"), Aria("label", label), glyph),
	)
}

func activeClass(base string, active bool) g.Node {
	if active {
		return Class(base + " active")
	}
	return Class(base)
}
