package demoserver

import (
	"bufio"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/studydeck/internal/api"
)

// Block is one planned study block held by the demo backend.
type Block struct {
	ID      string
	Title   string
	Minutes int
	Covered bool
	Notes   []string
	Asked   []api.MCQItem
}

// maxPins caps the pinned notes of a session.
const maxPins = 3

// Session is an in-memory study session. Pins are note texts, most
// recently pinned first.
type Session struct {
	ID     string
	Name   string
	Blocks []*Block
	Pins   []string
}

// TotalMinutes sums the block minutes.
func (s *Session) TotalMinutes() int {
	total := 0
	for _, b := range s.Blocks {
		total += b.Minutes
	}
	return total
}

func (s *Session) block(id string) *Block {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *Session) clone() *Session {
	c := &Session{ID: s.ID, Name: s.Name, Pins: append([]string(nil), s.Pins...)}
	for _, b := range s.Blocks {
		bc := *b
		bc.Notes = append([]string(nil), b.Notes...)
		bc.Asked = append([]api.MCQItem(nil), b.Asked...)
		c.Blocks = append(c.Blocks, &bc)
	}
	return c
}

// togglePin unpins text when it is pinned; otherwise it pins it in front,
// dropping the oldest pin past maxPins.
func (s *Session) togglePin(text string) {
	for i, p := range s.Pins {
		if p == text {
			s.Pins = append(s.Pins[:i], s.Pins[i+1:]...)
			return
		}
	}
	s.Pins = append([]string{text}, s.Pins...)
	if len(s.Pins) > maxPins {
		s.Pins = s.Pins[:maxPins]
	}
}

// rescale spreads minutes over the blocks in proportion to their current
// share, never below 3 minutes a block and never below 10 minutes overall.
func (s *Session) rescale(minutes int) {
	old := s.TotalMinutes()
	if old == 0 {
		old = 1
	}
	scale := float64(max(10, minutes)) / float64(old)
	for _, b := range s.Blocks {
		b.Minutes = max(3, int(math.Round(float64(b.Minutes)*scale)))
	}
}

// SampleSession returns the session served by the demo command.
func SampleSession() *Session {
	return &Session{
		ID:   "demo",
		Name: "Price elasticity",
		Blocks: []*Block{
			{ID: "b1", Title: "Elasticity basics", Minutes: 12, Notes: []string{
				"Price elasticity measures how quantity demanded responds to price.",
				"Elastic demand has an absolute elasticity above one.",
				"Inelastic demand changes little when the price moves.",
			}},
			{ID: "b2", Title: "Determinants", Minutes: 6, Notes: []string{
				"Close substitutes make demand more elastic.",
				"Necessities tend to have inelastic demand.",
			}},
			{ID: "b3", Title: "Total revenue test", Minutes: 6, Notes: []string{
				"Raising the price of an inelastic good increases total revenue.",
			}},
			{ID: "b4", Title: "Cross elasticity", Minutes: 6},
		},
	}
}

// planFromMarkdown turns uploaded notes into blocks: every H1/H2 heading
// starts a block, bullet and paragraph lines become its notes. The first
// block gets double weight, then minutes are normalised to total.
func planFromMarkdown(texts []string, total int) []*Block {
	var blocks []*Block
	var cur *Block
	for _, text := range texts {
		sc := bufio.NewScanner(strings.NewReader(text))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			switch {
			case line == "":
			case strings.HasPrefix(line, "# "), strings.HasPrefix(line, "## "):
				cur = &Block{Title: strings.TrimSpace(strings.TrimLeft(line, "#"))}
				blocks = append(blocks, cur)
			default:
				if cur == nil {
					cur = &Block{Title: "Session Overview"}
					blocks = append(blocks, cur)
				}
				note := strings.TrimSpace(strings.TrimLeft(line, "-*+ "))
				if note != "" {
					cur.Notes = append(cur.Notes, note)
				}
			}
		}
	}
	if len(blocks) == 0 {
		blocks = []*Block{{Title: "Session Overview"}}
	}

	k := len(blocks)
	base := max(4, total/k)
	sum := 0
	for i, b := range blocks {
		b.ID = "b" + strconv.Itoa(i+1)
		b.Minutes = base
		if i == 0 && k > 1 {
			b.Minutes = base * 2
		}
		sum += b.Minutes
	}
	scale := float64(total) / float64(sum)
	for _, b := range blocks {
		b.Minutes = max(3, int(math.Round(float64(b.Minutes)*scale)))
	}
	return blocks
}

// generateMCQs builds up to four questions from a block's notes, using notes
// of the other blocks as distractors. Blocks without notes get a true/false
// placeholder so the response is never empty.
func generateMCQs(s *Session, b *Block) []api.MCQItem {
	var others []string
	for _, o := range s.Blocks {
		if o != b {
			others = append(others, o.Notes...)
		}
	}

	var items []api.MCQItem
	for i, note := range b.Notes {
		if len(items) == 4 {
			break
		}
		opts := []string{note}
		for j := 0; j < len(others) && len(opts) < 4; j++ {
			opts = append(opts, others[(i+j)%len(others)])
		}
		if len(opts) < 2 {
			opts = append(opts, "None of the above")
		}
		// Rotate so the answer is not always option A.
		shift := i % len(opts)
		rotated := make([]string, 0, len(opts))
		rotated = append(rotated, opts[shift:]...)
		rotated = append(rotated, opts[:shift]...)
		items = append(items, api.MCQItem{
			Question: "Which statement belongs to " + b.Title + "?",
			Options:  rotated,
			Answer:   note,
		})
	}
	if len(items) == 0 {
		items = append(items, api.MCQItem{
			Question: b.Title + ": True or False - definition examples are helpful.",
			Options:  []string{"True", "False"},
			Answer:   "True",
		})
	}
	return items
}
