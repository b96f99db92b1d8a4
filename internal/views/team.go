package views

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// Member is a contributor prepared for display: either AvatarImage or
// AvatarInitials is set.
type Member struct {
	lekka.Contributor
	AvatarImage    string
	AvatarInitials string
	Delay          time.Duration
}

// TeamData is what the team page shows.
type TeamData struct {
	Members []Member
}

// NewTeamData resolves avatars and fade-in delays for team. exists reports
// whether an image is present under the asset root.
func NewTeamData(team []lekka.Contributor, exists func(string) bool) TeamData {
	members := make([]Member, len(team))
	for i, ct := range team {
		image, initials := ct.Avatar(exists)
		members[i] = Member{
			Contributor:    ct,
			AvatarImage:    image,
			AvatarInitials: initials,
			Delay:          lekka.FadeDelay(i),
		}
	}
	return TeamData{Members: members}
}

// TeamPage renders the contributor roster.
func TeamPage(d TeamData) g.Node {
	return page(pageProps{
		title:       "Team",
		description: "The people behind Labour Lekka.",
		bodyClass:   "view-team",
	},
		siteNav(
			A(Href(PathHome), g.Text("Home")),
			A(Href(PathPrivacyPage), Target("_blank"), Rel("noopener noreferrer"), g.Text("Privacy")),
		),
		Main(
			Div(Class("team-header fade-in"), animationDelay(lekka.HeaderFadeDelay),
				H1(g.Text("The People Behind Labour Lekka")),
				P(g.Text("Built by a small team solving real problems for households and businesses")),
			),
			Div(Class("team-grid"),
				g.Map(d.Members, contributorCard),
			),
			Div(Class("closing-note"),
				P(g.Text("Labour Lekka is built by a small, dedicated group working to solve real-world challenges. "+
					"Our focus is simple: create tools that work reliably, respect user needs, and make daily "+
					"work management easier for households, rural areas, and small businesses.")),
			),
		),
		siteFooter(),
	)
}

func contributorCard(m Member) g.Node {
	return Article(Class("contributor fade-in"), animationDelay(m.Delay),
		Div(Class("avatar"),
			g.If(m.AvatarImage != "",
				Img(Src(Asset(m.AvatarImage)), Alt(m.Name), Loading("lazy")),
			),
			g.If(m.AvatarImage == "",
				Span(Class("initials"), Aria("hidden", "true"), g.Text(m.AvatarInitials)),
			),
		),
		H3(g.Text(m.Name)),
		P(Class("role"), g.Text(m.Role)),
		P(Class("description"), g.Text(m.Description)),
	)
}

func animationDelay(d time.Duration) g.Node {
	return Style(fmt.Sprintf("animation-delay: %dms", d.Milliseconds()))
}
