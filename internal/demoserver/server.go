// Package demoserver is an in-memory fake of the study session backend.
package demoserver

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studydeck/internal/api"
)

const maxUpload = 32 << 20

// Server serves the session endpoints from memory.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*Session
	log      *zap.SugaredLogger
	router   chi.Router
	gen      Generator
}

// New creates a server seeded with the given sessions. A nil logger
// disables request logging.
func New(log *zap.SugaredLogger, seed ...*Session) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		sessions: make(map[string]*Session),
		log:      log,
		gen:      notesGenerator{},
	}
	for _, sess := range seed {
		s.sessions[sess.ID] = sess.clone()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index())
	r.Post("/start", s.start())
	r.Route("/session/{sid}", func(r chi.Router) {
		r.Get("/", s.page())
		r.Get("/export", s.export())
		r.Post("/delete", s.remove())
		r.Post("/duration", s.duration())
		r.Post("/pin", s.pin())
		r.Post("/toggle-covered/{bid}", s.toggleCovered())
		r.Post("/mcq/{bid}", s.mcq())
		r.Post("/mcq_asked/{bid}", s.mcqAsked())
	})
	s.router = r
	return s
}

// UseGenerator replaces the question generator. Generation errors fall back
// to questions built from the block's notes.
func (s *Server) UseGenerator(g Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen = g
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Session returns a copy of the named session.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.clone(), true
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("demo request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get("X-Request-ID"),
			"latency", time.Since(start),
		)
	})
}

// withSession runs fn under the lock with the session named in the path,
// or answers 404.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chi.URLParam(r, "sid")]
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	fn(sess)
}

func (s *Server) withBlock(w http.ResponseWriter, r *http.Request, fn func(*Session, *Block)) {
	s.withSession(w, r, func(sess *Session) {
		b := sess.block(chi.URLParam(r, "bid"))
		if b == nil {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		fn(sess, b)
	})
}

func redirectToSession(w http.ResponseWriter, r *http.Request, sid string) {
	http.Redirect(w, r, "/session/"+sid, http.StatusSeeOther)
}

func (s *Server) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var list []*Session
		for _, sess := range s.sessions {
			list = append(list, sess.clone())
		}
		s.mu.Unlock()
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, list); err != nil {
			s.log.Warnw("render index", "error", err)
		}
	}
}

func (s *Server) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap *Session
		s.withSession(w, r, func(sess *Session) { snap = sess.clone() })
		if snap == nil {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, snap); err != nil {
			s.log.Warnw("render session", "sid", snap.ID, "error", err)
		}
	}
}

func (s *Server) toggleCovered() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := false
		s.withBlock(w, r, func(sess *Session, b *Block) {
			b.Covered = !b.Covered
			done = true
		})
		if done {
			redirectToSession(w, r, chi.URLParam(r, "sid"))
		}
	}
}

func (s *Server) mcq() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			snap *Session
			blk  *Block
			gen  Generator
		)
		s.withBlock(w, r, func(sess *Session, b *Block) {
			snap = sess.clone()
			blk = snap.block(b.ID)
			gen = s.gen
		})
		if blk == nil {
			return
		}

		items, err := gen.Generate(r.Context(), snap, blk)
		if err != nil || len(items) == 0 {
			s.log.Warnw("question generation fell back to notes", "sid", snap.ID, "block", blk.ID, "error", err)
			items = generateMCQs(snap, blk)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}
}

func (s *Server) mcqAsked() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item api.MCQItem
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&item); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		item.Question = strings.TrimSpace(item.Question)
		if item.Question == "" {
			http.Error(w, "question is required", http.StatusBadRequest)
			return
		}
		if len(item.Options) > 6 {
			item.Options = item.Options[:6]
		}

		ok := false
		s.withBlock(w, r, func(sess *Session, b *Block) {
			ok = true
			for _, a := range b.Asked {
				if a.Question == item.Question {
					return
				}
			}
			b.Asked = append(b.Asked, item)
		})
		if ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = io.WriteString(w, "OK")
		}
	}
}

func (s *Server) duration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minutes, err := strconv.Atoi(r.FormValue("minutes"))
		if err != nil {
			http.Error(w, "minutes must be an integer", http.StatusBadRequest)
			return
		}
		done := false
		s.withSession(w, r, func(sess *Session) {
			sess.rescale(minutes)
			done = true
		})
		if done {
			redirectToSession(w, r, chi.URLParam(r, "sid"))
		}
	}
}

func (s *Server) pin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}
		done := false
		s.withSession(w, r, func(sess *Session) {
			sess.togglePin(text)
			done = true
		})
		if done {
			redirectToSession(w, r, chi.URLParam(r, "sid"))
		}
	}
}

func (s *Server) export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out string
		s.withSession(w, r, func(sess *Session) { out = renderExport(sess) })
		if out == "" {
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(chi.URLParam(r, "sid"))))
		_, _ = io.WriteString(w, out)
	}
}

func (s *Server) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		s.mu.Lock()
		_, ok := s.sessions[sid]
		delete(s.sessions, sid)
		s.mu.Unlock()
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("session_name"))
		if name == "" {
			http.Error(w, "session name is required", http.StatusBadRequest)
			return
		}
		minutes, err := strconv.Atoi(r.FormValue("minutes"))
		if err != nil || minutes <= 0 {
			minutes = 60
		}

		var texts []string
		for _, fh := range r.MultipartForm.File["notes"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "unreadable notes", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				http.Error(w, "unreadable notes", http.StatusBadRequest)
				return
			}
			texts = append(texts, string(data))
		}
		if len(texts) == 0 {
			http.Error(w, "at least one notes file is required", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		for _, sess := range s.sessions {
			if strings.EqualFold(sess.Name, name) {
				s.mu.Unlock()
				http.Error(w, "a session with that name already exists", http.StatusConflict)
				return
			}
		}
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		s.sessions[id] = &Session{ID: id, Name: name, Blocks: planFromMarkdown(texts, minutes)}
		s.mu.Unlock()

		s.log.Infow("session started", "sid", id, "name", name, "minutes", minutes)
		redirectToSession(w, r, id)
	}
}

// renderExport writes the session report: covered and remaining blocks,
// pinned notes, then the asked questions grouped by block with answers.
func renderExport(sess *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Session: %s (%s)\n", sess.Name, sess.ID)

	b.WriteString("\n## Covered\n\n")
	for _, blk := range sess.Blocks {
		if blk.Covered {
			fmt.Fprintf(&b, "- %s (%dm)\n", blk.Title, blk.Minutes)
		}
	}

	b.WriteString("\n## Missed / Next Up\n\n")
	for _, blk := range sess.Blocks {
		if !blk.Covered {
			fmt.Fprintf(&b, "- %s (%dm)\n", blk.Title, blk.Minutes)
		}
	}

	b.WriteString("\n## Pinned\n\n")
	for _, p := range sess.Pins {
		fmt.Fprintf(&b, "> %s\n", p)
	}

	asked := false
	for _, blk := range sess.Blocks {
		if len(blk.Asked) > 0 {
			asked = true
			break
		}
	}
	if !asked {
		return b.String()
	}

	b.WriteString("\n## MCQs Asked (by topic)\n\n")
	for _, blk := range sess.Blocks {
		if len(blk.Asked) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", blk.Title)
		for j, q := range blk.Asked {
			fmt.Fprintf(&b, "%d. %s\n", j+1, q.Question)
			for k, opt := range q.Options {
				fmt.Fprintf(&b, "   %s. %s\n", api.OptionLetter(k), opt)
			}
			fmt.Fprintf(&b, "   **Answer:** %s\n\n", q.Answer)
		}
	}
	return b.String()
}

func exportFilename(sid string) string {
	return "session-" + sid + ".md"
}

var pageTmpl = template.Must(template.New("session").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body data-sid="{{.ID}}">
<h1>{{.Name}}</h1>
<form class="duration-form" method="post" action="/session/{{.ID}}/duration">
<input type="range" name="minutes" min="10" max="180" step="5" value="{{.TotalMinutes}}">
<span class="duration-value">{{.TotalMinutes}}m</span>
</form>
{{if .Pins}}<aside class="pins">{{range .Pins}}<p class="pin">{{.}}</p>{{end}}</aside>
{{end}}{{range .Blocks}}<section class="block{{if .Covered}} covered{{end}}" id="{{.ID}}" data-minutes="{{.Minutes}}">
<h2>{{.Title}}</h2>
{{if .Notes}}<ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul>{{end}}
<form method="post" action="/session/{{$.ID}}/toggle-covered/{{.ID}}"><button>Toggle covered</button></form>
<button class="btn gen" data-bid="{{.ID}}">Generate MCQs</button>
<div class="mcq-container" id="mcq-{{.ID}}"></div>
</section>
{{end}}</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Study sessions</title></head>
<body>
<ul>{{range .}}<li><a href="/session/{{.ID}}">{{.Name}}</a></li>{{end}}</ul>
</body>
</html>
`))
