package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	g "maragu.dev/gomponents"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/hints"
	"github.com/NandanaMD/labourlekka-web/internal/views"
)

// sendPage renders n as the response body.
func sendPage(c *fiber.Ctx, status int, n g.Node) error {
	var buf bytes.Buffer
	if err := views.Render(&buf, n); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

// handleHome renders the landing page. ?slide= picks this visitor's slide;
// without it the shared rotation position is shown.
func (s *Server) handleHome(c *fiber.Ctx) error {
	s.leavePolicy(c)
	return sendPage(c, fiber.StatusOK, views.HomePage(views.HomeData{
		Slides:   s.slidesFor(c),
		Interval: s.carousel.Interval(),
	}))
}

func (s *Server) handleTeam(c *fiber.Ctx) error {
	s.leavePolicy(c)
	return sendPage(c, fiber.StatusOK, views.TeamPage(views.NewTeamData(lekka.Team(), s.assets.Exists)))
}

// handleView resolves a URL fragment passed as ?fragment=. Browsers keep the
// fragment to themselves, so links that only know the fragment come here.
func (s *Server) handleView(c *fiber.Ctx) error {
	path := views.PathHome
	if lekka.ResolveView(c.Query("fragment")) == lekka.ViewTeam {
		path = views.PathTeam
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func (s *Server) staticPage(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return filesystem.SendFile(c, http.FS(s.assets), "/"+name)
	}
}

// ---------------------------------------------------------------------------
// Policy viewer
// ---------------------------------------------------------------------------

// session returns the visitor's viewer session, issuing a cookie for new ones.
func (s *Server) session(c *fiber.Ctx) *session {
	sess, created := s.sessions.get(c.Cookies(sessionCookie))
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    sess.id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			MaxAge:   int(sessionTTL / time.Second),
		})
	}
	return sess
}

// openViewer starts a fetch on the server context. The returned channel
// yields the document unless the session was closed or reopened meanwhile.
func (s *Server) openViewer(sess *session) <-chan lekka.Document {
	ctx, cancel := context.WithTimeout(s.ctx, s.fetchTimeout)
	results := sess.viewer.Open(ctx)

	out := make(chan lekka.Document, 1)
	go func() {
		defer cancel()
		defer close(out)

		doc, ok := <-results
		if !ok {
			s.log.Debugw("dropped policy fetch for closed viewer", "session", sess.id)
			return
		}
		if doc.Fallback {
			s.log.Warnw("policy fetch failed, showing fallback", "error", doc.Err)
		}
		out <- doc
	}()
	return out
}

func (s *Server) handlePrivacy(c *fiber.Ctx) error {
	sess := s.session(c)

	if sess.viewer.State() == lekka.ViewerClosed {
		results := s.openViewer(sess)
		timer := time.NewTimer(s.loadWait)
		select {
		case <-results:
		case <-timer.C:
		}
		timer.Stop()
	}

	return s.sendPolicy(c, sess, fiber.StatusOK, "")
}

// sendPolicy renders the viewer page for sess in its current state.
func (s *Server) sendPolicy(c *fiber.Ctx, sess *session, status int, alert string) error {
	html, loaded, err := sess.viewer.Render(c.UserContext())
	if err != nil {
		s.log.Errorw("rendering policy", "error", err)
		html, err = s.renderer.Render(c.UserContext(), lekka.FallbackPolicy)
		if err != nil {
			return err
		}
	}

	data := views.PolicyData{HTML: html, Alert: alert, State: lekka.ViewerReady}
	if !loaded {
		data.State = sess.viewer.State()
		data.Refresh = loadingRefresh
	}
	return sendPage(c, status, views.PolicyPage(data))
}

// handlePrivacyClose discards the visitor's policy text and returns home.
func (s *Server) handlePrivacyClose(c *fiber.Ctx) error {
	s.leavePolicy(c)
	return c.Redirect(views.PathHome, fiber.StatusSeeOther)
}

// leavePolicy closes the visitor's viewer, if any, so the next /privacy
// fetches the policy again. No session is created.
func (s *Server) leavePolicy(c *fiber.Ctx) {
	id := c.Cookies(sessionCookie)
	if id == "" {
		return
	}
	if sess, ok := s.sessions.lookup(id); ok {
		sess.viewer.Close()
	}
}

// handleExport sends the policy as a PDF. Failures re-render the open viewer
// with an alert; the viewer state is not touched.
func (s *Server) handleExport(c *fiber.Ctx) error {
	sess, ok := s.sessions.lookup(c.Cookies(sessionCookie))
	if !ok || sess.viewer.State() != lekka.ViewerReady {
		return c.Redirect(views.PathPrivacy, fiber.StatusSeeOther)
	}

	html, _, err := sess.viewer.Render(c.UserContext())
	if err == nil && html == "" {
		err = lekka.ErrEmptyDocument
	}
	var res *lekka.ExportResult
	if err == nil {
		res, err = s.export(c.UserContext(), html, s.capturePageBase(c))
	}
	if err != nil {
		s.log.Errorw("policy export failed", "error", err, "hint", exportHint(err))
		return s.sendPolicy(c, sess, fiber.StatusInternalServerError, views.ExportFailedAlert)
	}

	s.log.Infow("policy exported", "pages", res.Pages, "bytes", len(res.PDF))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	return c.Status(fiber.StatusOK).Send(res.PDF)
}

// capturePageBase is the origin the export browser loads /static from.
// The request's own origin is used only when neither PublicURL nor a
// listener address is known.
func (s *Server) capturePageBase(c *fiber.Ctx) string {
	if s.captureBase != "" {
		return s.captureBase
	}
	return baseHref(c.BaseURL())
}

func (s *Server) export(ctx context.Context, policyHTML, base string) (*lekka.ExportResult, error) {
	doc, err := views.String(views.CaptureDocument(policyHTML, s.captureCSS, base))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.exportTimeout)
	defer cancel()
	return s.exporter.Export(ctx, doc)
}

// exportHint returns operator guidance for browser and timeout failures.
func exportHint(err error) string {
	switch {
	case errors.Is(err, lekka.ErrBrowserConnect):
		return hints.ForBrowserConnect(os.Getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	default:
		return ""
	}
}

// handlePolicyMarkdown serves the raw policy document.
func (s *Server) handlePolicyMarkdown(c *fiber.Ctx) error {
	b, err := s.assets.LoadFile(assets.PolicyFile)
	if errors.Is(err, assets.ErrFileNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.Send(b)
}

// ---------------------------------------------------------------------------
// Carousel
// ---------------------------------------------------------------------------

type carouselState struct {
	Index      int               `json:"index"`
	IntervalMS int64             `json:"interval_ms"`
	Slides     []lekka.SlideItem `json:"slides"`
}

func (s *Server) handleCarousel(c *fiber.Ctx) error {
	items := s.carousel.Items()
	return c.JSON(carouselState{
		Index:      lekka.ActiveIndex(items),
		IntervalMS: s.carousel.Interval().Milliseconds(),
		Slides:     items,
	})
}

// slidesFor returns the slides with the visitor's ?slide= active, falling
// back to the shared position when it is absent or out of range.
func (s *Server) slidesFor(c *fiber.Ctx) []lekka.SlideItem {
	if i, err := strconv.Atoi(c.Query("slide")); err == nil {
		if items, err := s.carousel.ItemsAt(i); err == nil {
			return items
		}
	}
	return s.carousel.Items()
}

// The navigation handlers never move the shared carousel; each visitor's
// position travels in the ?slide= of the redirect.

func (s *Server) handleCarouselNext(c *fiber.Ctx) error {
	return s.redirectToSlide(c, s.carousel.Step(lekka.ActiveIndex(s.slidesFor(c)), 1))
}

func (s *Server) handleCarouselPrev(c *fiber.Ctx) error {
	return s.redirectToSlide(c, s.carousel.Step(lekka.ActiveIndex(s.slidesFor(c)), -1))
}

func (s *Server) handleCarouselJump(c *fiber.Ctx) error {
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid slide index")
	}
	if _, err := s.carousel.ItemsAt(i); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return s.redirectToSlide(c, i)
}

func (s *Server) redirectToSlide(c *fiber.Ctx, i int) error {
	return c.Redirect(views.PathHome+"?slide="+strconv.Itoa(i), fiber.StatusSeeOther)
}
