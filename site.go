package lekka

// External links.
const (
	PlayStoreURL     = "https://play.google.com/store/apps/details?id=com.nmd.labourlekka"
	RequestAccessURL = "mailto:thisisnandanmd@gmail.com?subject=Request%20Access%20to%20Labour%20Lekka"
)

// Static pages served from the asset root.
const (
	PrivacyPageFile      = "privacy-policy.html"
	DataDeletionPageFile = "data-deletion.html"
)

// DefaultSlides returns the app screenshots shown on the home page.
func DefaultSlides() []Slide {
	return []Slide{
		{Src: "screens/workers.svg", Alt: "Worker list with daily wages"},
		{Src: "screens/attendance.svg", Alt: "Attendance marked offline"},
		{Src: "screens/payments.svg", Alt: "Payment summary per worker"},
	}
}
