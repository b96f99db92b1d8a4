package lekka

import "time"

// Fade-in stagger for the team page.
const (
	HeaderFadeDelay = 100 * time.Millisecond
	cardFadeStep    = 100 * time.Millisecond
)

// Contributor is one person on the team page. Image is a path relative to
// the static asset root.
type Contributor struct {
	Name        string
	Role        string
	Description string
	Image       string
	Initials    string
}

// Avatar picks what the card shows: the photo when exists reports the image
// asset present, otherwise the initials. A nil exists selects initials.
func (c Contributor) Avatar(exists func(path string) bool) (image string, initials string) {
	if c.Image != "" && exists != nil && exists(c.Image) {
		return c.Image, ""
	}
	return "", c.Initials
}

// FadeDelay returns the fade-in delay of the card at position index.
func FadeDelay(index int) time.Duration {
	if index < 0 {
		return 0
	}
	return time.Duration(index) * cardFadeStep
}

// Team returns the contributor roster in display order.
func Team() []Contributor {
	return []Contributor{
		{
			Name:        "Suryanarayan Hegde",
			Role:        "Vision Behind Labour Lekka",
			Description: "The idea for Labour Lekka began with his real-world requirement and persistent belief that wage tracking could be simpler and more transparent. His practical thinking and continuous guidance laid the foundation for what the platform stands for today.",
			Image:       "team/suryanarayan.jpeg",
			Initials:    "SH",
		},
		{
			Name:        "Nandana M D",
			Role:        "Development & Engineering",
			Description: "Turned an idea into a working product. From architecture to deployment, he built Labour Lekka with a focus on reliability, simplicity, and an offline-first experience that genuinely serves its users.",
			Image:       "team/nandana.jpg",
			Initials:    "NM",
		},
		{
			Name:        "Sunidhi Hegde",
			Role:        "UI & Design Direction",
			Description: "Shaped the visual identity and overall user experience of Labour Lekka. Her attention to clarity and detail ensures the platform feels intuitive, approachable, and thoughtfully designed.",
			Image:       "team/sunidhi.jpeg",
			Initials:    "SH",
		},
		{
			Name:        "Sumanth S H",
			Role:        "Marketing & Outreach",
			Description: "Helps carry the vision forward by connecting the platform with the people it was built for. Through outreach and awareness efforts, he works to build trust and visibility around Labour Lekka.",
			Image:       "team/sumanth.jpeg",
			Initials:    "SS",
		},
		{
			Name:        "Siddanth M S",
			Role:        "Marketing Strategy & Audience Insights",
			Description: "Provided valuable marketing insights and strategic guidance on how to connect with the core audience. His understanding of user needs and market positioning helps Labour Lekka reach the right people effectively.",
			Image:       "team/siddanth.jpeg",
			Initials:    "SM",
		},
		{
			Name:        "Sanath Udupa",
			Role:        "Product Feedback & Testing",
			Description: "Played a vital role in refining the product through honest feedback and thorough testing. His suggestions and attention to detail continue to strengthen the platform's stability and usability.",
			Image:       "team/sanath.jpeg",
			Initials:    "SU",
		},
	}
}
